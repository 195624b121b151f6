package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"majestic-dominion/internal/config"
	"majestic-dominion/internal/database"
	"majestic-dominion/internal/league"
	"majestic-dominion/internal/legacy"
	"majestic-dominion/internal/logger"
	"majestic-dominion/internal/metrics"
	"majestic-dominion/internal/repository"
	"majestic-dominion/internal/service"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:  "dominionctl",
		Usage: "operator tools for the Majestic Dominion league",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				log = logger.SetLevel(zerolog.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			importLegacyCommand(&log),
			exportCommand(&log),
			rankingsCommand(&log),
			migrateCommand(&log),
			snapshotsCommand(&log),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("dominionctl failed")
	}
}

// openService loads the configured store and starts a league service on it.
// The returned close func releases the store.
func openService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*service.LeagueService, func(), error) {
	seed, err := cfg.LoadSeed()
	if err != nil {
		return nil, nil, err
	}
	repo, closeRepo, err := openRepository(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	svc := service.NewLeagueService(repo, seed, metrics.New(), log)
	if err := svc.Start(ctx); err != nil {
		closeRepo()
		return nil, nil, err
	}
	return svc, closeRepo, nil
}

func loadConfig(log zerolog.Logger) (*config.Config, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func openRepository(cfg *config.Config, log zerolog.Logger) (repository.DocumentRepository, func(), error) {
	if cfg.StoreBackend == config.BackendFile {
		return repository.NewFileDocumentRepository(cfg.DataFile, log), func() {}, nil
	}
	sqlDB, err := database.New(cfg.DBPath, log)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing database connection")
		}
	}
	return repository.NewSQLiteDocumentRepository(sqlDB, log), closeDB, nil
}

func importLegacyCommand(log *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "import-legacy",
		Usage: "replace the league document with a legacy squad_data.json",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Required: true, Usage: "path to the legacy JSON file"},
			&cli.BoolFlag{Name: "dry-run", Usage: "report what would be imported without saving"},
		},
		Action: func(c *cli.Context) error {
			raw, err := os.ReadFile(c.String("in"))
			if err != nil {
				return fmt.Errorf("failed to read legacy file: %w", err)
			}

			cfg, err := loadConfig(*log)
			if err != nil {
				return err
			}
			seed, err := cfg.LoadSeed()
			if err != nil {
				return err
			}
			doc, report, err := legacy.Import(raw, seed, time.Now().UTC())
			if err != nil {
				return fmt.Errorf("failed to import legacy data: %w", err)
			}
			for _, w := range report.Warnings {
				log.Warn().Msg(w)
			}
			fmt.Printf("Squads: %d  Players: %d  Matches: %d  Warnings: %d\n",
				report.Squads, report.Players, report.Matches, len(report.Warnings))

			if c.Bool("dry-run") {
				return nil
			}

			svc, closeRepo, err := openService(c.Context, cfg, *log)
			if err != nil {
				return err
			}
			defer closeRepo()
			if err := svc.Restore(c.Context, doc); err != nil {
				return err
			}
			current, err := svc.Snapshot()
			if err != nil {
				return err
			}
			fmt.Printf("Imported as version %d\n", current.Version)
			return nil
		},
	}
}

func exportCommand(log *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the current league document as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "output file, stdout when empty"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(*log)
			if err != nil {
				return err
			}
			svc, closeRepo, err := openService(c.Context, cfg, *log)
			if err != nil {
				return err
			}
			defer closeRepo()

			doc, err := svc.Snapshot()
			if err != nil {
				return err
			}
			body, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode document: %w", err)
			}
			if c.String("out") == "" {
				_, err = os.Stdout.Write(append(body, '\n'))
				return err
			}
			if err := os.WriteFile(c.String("out"), body, 0o644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}
			fmt.Printf("Exported version %d to %s\n", doc.Version, c.String("out"))
			return nil
		},
	}
}

func rankingsCommand(log *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "rankings",
		Usage: "print the realm rankings",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(*log)
			if err != nil {
				return err
			}
			svc, closeRepo, err := openService(c.Context, cfg, *log)
			if err != nil {
				return err
			}
			defer closeRepo()

			entries, err := svc.Rankings(c.Context)
			if err != nil {
				return err
			}
			printRankings(entries)
			return nil
		},
	}
}

func printRankings(entries []league.RankingEntry) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tKINGDOM\tTAG\tPTS\tW\tD\tL\tWIN%")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%.1f\n",
			e.Rank, e.Name, e.Tag, e.Points, e.Wins, e.Draws, e.Losses, e.WinRate)
	}
	_ = tw.Flush()
}

func migrateCommand(log *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply the sqlite store migrations",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(*log)
			if err != nil {
				return err
			}
			if cfg.StoreBackend != config.BackendSQLite {
				return fmt.Errorf("migrate needs the sqlite store, got %q", cfg.StoreBackend)
			}
			// New runs the migrations on open.
			sqlDB, err := database.New(cfg.DBPath, *log)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			fmt.Printf("Migrated %s\n", cfg.DBPath)
			return nil
		},
	}
}

func snapshotsCommand(log *zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "snapshots",
		Usage: "list retained document versions, or dump one with --version",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "version", Usage: "dump this version as JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(*log)
			if err != nil {
				return err
			}
			if cfg.StoreBackend != config.BackendSQLite {
				return fmt.Errorf("snapshots need the sqlite store, got %q", cfg.StoreBackend)
			}
			sqlDB, err := database.New(cfg.DBPath, *log)
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			repo := repository.NewSQLiteDocumentRepository(sqlDB, *log)

			if v := c.Int64("version"); v > 0 {
				doc, err := repo.Snapshot(c.Context, v)
				if err != nil {
					return err
				}
				body, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode snapshot: %w", err)
				}
				_, err = os.Stdout.Write(append(body, '\n'))
				return err
			}

			infos, err := repo.Snapshots(c.Context)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "VERSION\tCREATED\tBYTES")
			for _, s := range infos {
				fmt.Fprintf(tw, "%d\t%s\t%d\n", s.Version, s.CreatedAt.Format(time.RFC3339), s.Bytes)
			}
			return tw.Flush()
		},
	}
}

package discord

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"majestic-dominion/internal/config"
	"majestic-dominion/internal/constants"
	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
	"majestic-dominion/internal/schedule"
	"majestic-dominion/internal/service"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var (
	errNotModerator = &domain.Error{Kind: domain.KindState, Msg: "only moderators can do that"}
	errNotLeader    = &domain.Error{Kind: domain.KindState, Msg: "only kingdom leaders can do that"}
	errNoSquad      = &domain.Error{Kind: domain.KindValidation, Msg: "you are not a member of any kingdom"}
	errUnknownCmd   = &domain.Error{Kind: domain.KindValidation, Msg: "unknown command"}
)

// Invocation is a slash command stripped of the gateway payload.
type Invocation struct {
	Command    string
	Subcommand string
	Options    map[string]any
	UserID     string
	Roles      []string
	Admin      bool
}

func (inv Invocation) String(name string) string {
	v, _ := inv.Options[name].(string)
	return strings.TrimSpace(v)
}

func (inv Invocation) Int(name string) int {
	switch v := inv.Options[name].(type) {
	case float64:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	}
	return 0
}

type Bot struct {
	svc     *service.LeagueService
	cfg     *config.Config
	parser  *schedule.Parser
	session *discordgo.Session
	clock   func() time.Time
	logger  zerolog.Logger
}

func NewBot(svc *service.LeagueService, cfg *config.Config, logger zerolog.Logger) *Bot {
	return &Bot{
		svc:    svc,
		cfg:    cfg,
		parser: schedule.NewParser(nil),
		clock:  time.Now,
		logger: logger,
	}
}

func (b *Bot) Start(_ context.Context) error {
	if !b.cfg.DiscordEnabled() {
		b.logger.Info().Msg("discord token not set, bot disabled")
		return nil
	}

	session, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}
	session.AddHandler(b.onInteraction)
	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	registered, err := session.ApplicationCommandBulkOverwrite(session.State.User.ID, b.cfg.DiscordGuildID, Commands)
	if err != nil {
		session.Close()
		return fmt.Errorf("failed to register slash commands: %w", err)
	}
	b.session = session
	b.logger.Info().Int("commands", len(registered)).Str("guild_id", b.cfg.DiscordGuildID).Msg("discord bot connected")
	return nil
}

func (b *Bot) Stop(_ context.Context) error {
	if b.session == nil {
		return nil
	}
	b.logger.Info().Msg("closing discord session")
	return b.session.Close()
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	inv := invocationFrom(i)

	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
	defer cancel()

	embed, err := b.Dispatch(ctx, inv)
	data := &discordgo.InteractionResponseData{}
	if err != nil {
		data.Embeds = []*discordgo.MessageEmbed{ErrorEmbed(err)}
		data.Flags = discordgo.MessageFlagsEphemeral
	} else {
		data.Embeds = []*discordgo.MessageEmbed{embed}
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}); err != nil {
		b.logger.Error().Err(err).Str("command", inv.Command).Msg("failed to respond to interaction")
	}
}

func invocationFrom(i *discordgo.InteractionCreate) Invocation {
	data := i.ApplicationCommandData()
	inv := Invocation{Command: data.Name, Options: map[string]any{}}

	opts := data.Options
	if len(opts) == 1 && opts[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		inv.Subcommand = opts[0].Name
		opts = opts[0].Options
	}
	for _, o := range opts {
		inv.Options[o.Name] = o.Value
	}

	if i.Member != nil {
		inv.Roles = i.Member.Roles
		inv.Admin = i.Member.Permissions&discordgo.PermissionAdministrator != 0
		if i.Member.User != nil {
			inv.UserID = i.Member.User.ID
		}
	} else if i.User != nil {
		inv.UserID = i.User.ID
	}
	return inv
}

// Dispatch runs one command against the league and renders the answer.
func (b *Bot) Dispatch(ctx context.Context, inv Invocation) (*discordgo.MessageEmbed, error) {
	b.logger.Debug().Str("command", inv.Command).Str("subcommand", inv.Subcommand).Str("user", inv.UserID).Msg("slash command")

	switch inv.Command {
	case "rankings":
		entries, err := b.svc.Rankings(ctx)
		if err != nil {
			return nil, err
		}
		return RankingsEmbed(entries, inv.Int("page")), nil
	case "squad":
		p, err := b.svc.Squad(ctx, inv.String("name"))
		if err != nil {
			return nil, err
		}
		return SquadEmbed(p), nil
	case "h2h":
		h, err := b.svc.HeadToHead(ctx, inv.String("squad1"), inv.String("squad2"))
		if err != nil {
			return nil, err
		}
		return HeadToHeadEmbed(h), nil
	case "predict":
		p, err := b.svc.Predict(ctx, inv.String("squad1"), inv.String("squad2"))
		if err != nil {
			return nil, err
		}
		return PredictionEmbed(p), nil
	case "report":
		r, err := b.svc.SquadReport(ctx, inv.String("name"))
		if err != nil {
			return nil, err
		}
		return ReportEmbed(r), nil
	case "bounties":
		entries, err := b.svc.Bounties(ctx)
		if err != nil {
			return nil, err
		}
		return BountiesEmbed(entries), nil
	case "stats":
		stats, err := b.svc.RealmStats(ctx)
		if err != nil {
			return nil, err
		}
		return StatsEmbed(stats), nil
	case "record":
		return b.record(ctx, inv)
	case "deletematch":
		if !b.isModerator(inv) {
			return nil, errNotModerator
		}
		m, err := b.svc.DeleteMatch(ctx, inv.String("match_id"))
		if err != nil {
			return nil, err
		}
		return DeletedMatchEmbed(m), nil
	case "challenge":
		return b.challenge(ctx, inv)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownCmd, inv.Command)
	}
}

func (b *Bot) record(ctx context.Context, inv Invocation) (*discordgo.MessageEmbed, error) {
	if !b.isModerator(inv) {
		return nil, errNotModerator
	}
	score, err := domain.ParseScore(inv.String("score"))
	if err != nil {
		return nil, err
	}
	res, err := b.svc.SettleMatch(ctx, league.MatchInput{
		Team1:   inv.String("team1"),
		Team2:   inv.String("team2"),
		Score:   score,
		AddedBy: inv.UserID,
	})
	if err != nil {
		return nil, err
	}
	return MatchEmbed(res), nil
}

func (b *Bot) challenge(ctx context.Context, inv Invocation) (*discordgo.MessageEmbed, error) {
	switch inv.Subcommand {
	case "issue":
		squad, err := b.leaderSquad(ctx, inv)
		if err != nil {
			return nil, err
		}
		c, err := b.svc.CreateChallenge(ctx, league.ChallengeInput{
			Challenger: squad,
			Challenged: inv.String("opponent"),
			Message:    inv.String("message"),
		})
		if err != nil {
			return nil, err
		}
		return ChallengeEmbed(c), nil
	case "accept", "decline":
		squad, err := b.leaderSquad(ctx, inv)
		if err != nil {
			return nil, err
		}
		c, err := b.svc.RespondToChallenge(ctx, inv.String("id"), squad, inv.Subcommand == "accept")
		if err != nil {
			return nil, err
		}
		return ChallengeEmbed(c), nil
	case "schedule":
		if !b.isModerator(inv) {
			return nil, errNotModerator
		}
		at, err := b.parser.Parse(inv.String("when"), b.clock())
		if err != nil {
			return nil, err
		}
		c, err := b.svc.ScheduleChallenge(ctx, inv.String("id"), at, inv.String("notes"))
		if err != nil {
			return nil, err
		}
		return ChallengeEmbed(c), nil
	case "cancel":
		if !b.isModerator(inv) {
			return nil, errNotModerator
		}
		c, err := b.svc.CancelChallenge(ctx, inv.String("id"))
		if err != nil {
			return nil, err
		}
		return ChallengeEmbed(c), nil
	case "list":
		open, err := b.svc.ActiveChallenges(ctx, inv.String("squad"))
		if err != nil {
			return nil, err
		}
		return ChallengeListEmbed(open), nil
	default:
		return nil, fmt.Errorf("%w: challenge %q", errUnknownCmd, inv.Subcommand)
	}
}

func (b *Bot) isModerator(inv Invocation) bool {
	if inv.Admin {
		return true
	}
	return b.cfg.DiscordModeratorRoleID != "" && slices.Contains(inv.Roles, b.cfg.DiscordModeratorRoleID)
}

// leaderSquad resolves the kingdom the caller speaks for.
func (b *Bot) leaderSquad(ctx context.Context, inv Invocation) (string, error) {
	if b.cfg.DiscordLeaderRoleID != "" && !inv.Admin && !slices.Contains(inv.Roles, b.cfg.DiscordLeaderRoleID) {
		return "", errNotLeader
	}
	p, err := b.svc.Player(ctx, inv.UserID)
	if errors.Is(err, domain.ErrPlayerNotFound) || (err == nil && p.FreeAgent()) {
		return "", errNoSquad
	}
	if err != nil {
		return "", err
	}
	return p.Squad, nil
}

// Register hooks the bot into the app lifecycle.
func Register(lc fx.Lifecycle, bot *Bot) {
	lc.Append(fx.Hook{OnStart: bot.Start, OnStop: bot.Stop})
}

var Module = fx.Options(
	fx.Provide(NewBot),
	fx.Invoke(Register),
)

package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"majestic-dominion/internal/domain"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

//go:embed kingdoms.yaml
var defaultKingdoms []byte

type Config struct {
	StoreBackend string
	DBPath       string
	DataFile     string
	SeedFile     string
	ServerPort   string
	LogLevel     string
	LogFormat    string
	AdminToken   string

	DiscordToken           string
	DiscordGuildID         string
	DiscordModeratorRoleID string
	DiscordLeaderRoleID    string

	WebhookURLs    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite)),
		DBPath:       getEnv("DB_PATH", "dominion.db"),
		DataFile:     getEnv("DATA_FILE", "squad_data.json"),
		SeedFile:     getEnv("SEED_FILE", ""),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
		AdminToken:   getEnv("ADMIN_TOKEN", ""),

		DiscordToken:           getEnv("DISCORD_TOKEN", ""),
		DiscordGuildID:         getEnv("DISCORD_GUILD_ID", ""),
		DiscordModeratorRoleID: getEnv("DISCORD_MODERATOR_ROLE_ID", ""),
		DiscordLeaderRoleID:    getEnv("DISCORD_LEADER_ROLE_ID", ""),

		WebhookURLs: splitList(getEnv("WEBHOOK_URLS", "")),
	}

	var err error
	if cfg.RateLimitRPS, err = strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}
	if cfg.RateLimitBurst, err = strconv.Atoi(getEnv("RATE_LIMIT_BURST", "10")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("store_backend", cfg.StoreBackend).
		Str("db_path", cfg.DBPath).
		Str("data_file", cfg.DataFile).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("discord", cfg.DiscordEnabled()).
		Int("webhooks", len(cfg.WebhookURLs)).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite store")
		}
	case BackendFile:
		if c.DataFile == "" {
			return fmt.Errorf("DATA_FILE is required for the file store")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v/%d", c.RateLimitRPS, c.RateLimitBurst)
	}
	return nil
}

func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != ""
}

// LoadSeed reads the kingdom list from SeedFile, or the built-in list when no
// file is configured.
func (c *Config) LoadSeed() (domain.Seed, error) {
	raw := defaultKingdoms
	if c.SeedFile != "" {
		data, err := os.ReadFile(c.SeedFile)
		if err != nil {
			return domain.Seed{}, fmt.Errorf("failed to read seed file: %w", err)
		}
		raw = data
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) (domain.Seed, error) {
	var seed domain.Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return domain.Seed{}, fmt.Errorf("failed to parse seed: %w", err)
	}
	seen := make(map[string]bool, len(seed.Kingdoms))
	for _, k := range seed.Kingdoms {
		if k.Name == "" || k.Tag == "" {
			return domain.Seed{}, fmt.Errorf("seed kingdom needs a name and a tag: %+v", k)
		}
		if seen[k.Name] {
			return domain.Seed{}, fmt.Errorf("seed kingdom %q listed twice", k.Name)
		}
		seen[k.Name] = true
	}
	return seed, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Provide(Load)

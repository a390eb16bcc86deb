package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/IkonicR/ClanOS-sub001/internal/scoring"
)

type Config struct {
	CoCAPIToken       string
	CoCBaseURL        string
	CoCRateLimit      float64 // requests per second
	DBPath            string
	ServerPort        string
	LogLevel          string
	ClanTags          []string
	RecomputeInterval time.Duration
	SyncOnRecompute   bool
	ScoringFile       string
	Scoring           scoring.Config
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		CoCAPIToken:       getEnv("COC_API_TOKEN", ""),
		CoCBaseURL:        strings.TrimRight(getEnv("COC_BASE_URL", "https://api.clashofclans.com/v1"), "/"),
		CoCRateLimit:      getEnvFloat("COC_RATE_LIMIT", 10),
		DBPath:            getEnv("DB_PATH", "warroom.db"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		ClanTags:          splitList(getEnv("CLAN_TAGS", "")),
		RecomputeInterval: getEnvDuration("RECOMPUTE_INTERVAL", 6*time.Hour),
		SyncOnRecompute:   getEnv("SYNC_ON_RECOMPUTE", "true") == "true",
		ScoringFile:       getEnv("SCORING_CONFIG", ""),
		Scoring:           scoring.DefaultConfig(),
	}

	if cfg.CoCAPIToken == "" {
		return nil, fmt.Errorf("COC_API_TOKEN is required")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	if cfg.ScoringFile != "" {
		sc, err := LoadScoring(cfg.ScoringFile)
		if err != nil {
			return nil, err
		}
		cfg.Scoring = sc
	}
	if v := os.Getenv("CAPITAL_EFFICIENCY_DEFAULT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scoring.CapitalEfficiency = n
		}
	}
	cfg.Scoring = cfg.Scoring.Normalize()

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Strs("clan_tags", cfg.ClanTags).
		Dur("recompute_interval", cfg.RecomputeInterval).
		Int("profile_window_days", cfg.Scoring.ProfileWindowDays).
		Int("capital_efficiency", cfg.Scoring.CapitalEfficiency).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadScoring reads scoring overrides from a YAML file. Missing keys keep their defaults.
func LoadScoring(path string) (scoring.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Config{}, fmt.Errorf("failed to read scoring config: %w", err)
	}

	sc := scoring.DefaultConfig()
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return scoring.Config{}, fmt.Errorf("failed to unmarshal scoring config: %w", err)
	}
	return sc.Normalize(), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Provide(Load)

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	DatabaseURL        string
	RedisURL           string
	NATSURL            string
	JWTSecret          string
	JWTExpiry          time.Duration
	Judge0URL          string
	Judge0APIKey       string
	Judge0APIHost      string
	JudgePollInterval  time.Duration
	JudgeTimeout       time.Duration
	PendingGracePeriod time.Duration
	PendingSweepEvery  time.Duration
	RunRateLimit       int
	RunRateWindow      time.Duration
	AIProvider         string
	OpenAIAPIKey       string
	OpenAIModel        string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CRACKCODE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "CrackCode API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("jwt.expiry", "1h")
	v.SetDefault("judge0.url", "https://judge0-ce.p.rapidapi.com")
	v.SetDefault("judge0.api_host", "judge0-ce.p.rapidapi.com")
	v.SetDefault("judge.poll_interval", "1s")
	v.SetDefault("judge.timeout", "2m")
	v.SetDefault("judge.pending_grace", "10m")
	v.SetDefault("judge.pending_sweep", "5m")
	v.SetDefault("run.rate_limit", 10)
	v.SetDefault("run.rate_window", "1m")
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("openai.model", "gpt-4o-mini")

	jwtExpiry, err := parseDuration(v, "jwt.expiry", time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid jwt expiry: %w", err)
	}

	pollInterval, err := parseDuration(v, "judge.poll_interval", time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid judge poll interval: %w", err)
	}

	judgeTimeout, err := parseDuration(v, "judge.timeout", 2*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid judge timeout: %w", err)
	}

	pendingGrace, err := parseDuration(v, "judge.pending_grace", 10*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid pending grace period: %w", err)
	}

	pendingSweep, err := parseDuration(v, "judge.pending_sweep", 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid pending sweep interval: %w", err)
	}

	runRateWindow, err := parseDuration(v, "run.rate_window", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid run rate window: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		JWTSecret:          v.GetString("jwt.secret"),
		JWTExpiry:          jwtExpiry,
		Judge0URL:          v.GetString("judge0.url"),
		Judge0APIKey:       v.GetString("judge0.api_key"),
		Judge0APIHost:      v.GetString("judge0.api_host"),
		JudgePollInterval:  pollInterval,
		JudgeTimeout:       judgeTimeout,
		PendingGracePeriod: pendingGrace,
		PendingSweepEvery:  pendingSweep,
		RunRateLimit:       v.GetInt("run.rate_limit"),
		RunRateWindow:      runRateWindow,
		AIProvider:         strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:       v.GetString("openai.api_key"),
		OpenAIModel:        v.GetString("openai.model"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.RunRateLimit <= 0 {
		cfg.RunRateLimit = 10
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return fallback, nil
	}

	return time.ParseDuration(raw)
}

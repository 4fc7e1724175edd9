package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the portal service.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DataFile        string
	UploadDir       string
	MaxUploadSizeMB int
	JWTSecret       string
	TokenTTL        time.Duration
	RedisURL        string
	StatsCacheTTL   time.Duration
	LoginRatePerMin int
	SeedDemoData    bool
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// MaxUploadBytes returns the upload size ceiling in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadSizeMB) * 1024 * 1024
}

// Load reads configuration values from environment variables and an optional
// .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SLIDESENSE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "SlideSense API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("data.file", "data.json")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_size_mb", 20)
	v.SetDefault("token.ttl", "24h")
	v.SetDefault("stats.cache_ttl", "5m")
	v.SetDefault("login.rate_per_min", 20)
	v.SetDefault("seed.demo_data", true)

	tokenTTL, err := parseDuration(v.GetString("token.ttl"), 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	cacheTTL, err := parseDuration(v.GetString("stats.cache_ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid stats cache ttl: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DataFile:        v.GetString("data.file"),
		UploadDir:       v.GetString("upload.dir"),
		MaxUploadSizeMB: v.GetInt("upload.max_size_mb"),
		JWTSecret:       v.GetString("jwt.secret"),
		TokenTTL:        tokenTTL,
		RedisURL:        v.GetString("redis.url"),
		StatsCacheTTL:   cacheTTL,
		LoginRatePerMin: v.GetInt("login.rate_per_min"),
		SeedDemoData:    v.GetBool("seed.demo_data"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MaxUploadSizeMB <= 0 {
		cfg.MaxUploadSizeMB = 20
	}

	if cfg.LoginRatePerMin <= 0 {
		cfg.LoginRatePerMin = 20
	}

	return cfg, nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

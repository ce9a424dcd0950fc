package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	// Telegram bot token, signs regular user tokens and verifies WebApp init data
	BotToken string

	AdminUsername     string
	AdminPasswordHash string // bcrypt
	AdminSecret       string

	UserTokenTTL  time.Duration
	AdminTokenTTL time.Duration
	CacheTTL      time.Duration

	RateLimit       int
	RateLimitWindow time.Duration

	// Max distance, in percent of the map, for reusing a saved position
	SnapRadius float64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", ":8080")
	v.SetDefault("db_path", "./data/grenades.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("bot_token", "")
	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password_hash", "")
	v.SetDefault("secret_key", "your-secret-key-change-in-production")
	v.SetDefault("user_token_ttl", "24h")
	v.SetDefault("admin_token_ttl", "6h")
	v.SetDefault("cache_ttl", "60s")
	v.SetDefault("rate_limit", 120)
	v.SetDefault("rate_limit_window", "1m")
	v.SetDefault("snap_radius", 1.5)
}

// Load 加载配置. configFile may be empty; environment variables
// (PORT, DB_PATH, BOT_TOKEN, SECRET_KEY, ...) override file values.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:              v.GetString("port"),
		DBPath:            v.GetString("db_path"),
		LogLevel:          v.GetString("log_level"),
		BotToken:          v.GetString("bot_token"),
		AdminUsername:     v.GetString("admin_username"),
		AdminPasswordHash: v.GetString("admin_password_hash"),
		AdminSecret:       v.GetString("secret_key"),
		UserTokenTTL:      v.GetDuration("user_token_ttl"),
		AdminTokenTTL:     v.GetDuration("admin_token_ttl"),
		CacheTTL:          v.GetDuration("cache_ttl"),
		RateLimit:         v.GetInt("rate_limit"),
		RateLimitWindow:   v.GetDuration("rate_limit_window"),
		SnapRadius:        v.GetFloat64("snap_radius"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return errors.New("bot_token is required")
	}
	if c.UserTokenTTL <= 0 || c.AdminTokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	if c.RateLimit <= 0 || c.RateLimitWindow <= 0 {
		return errors.New("rate limit and window must be positive")
	}
	return nil
}

package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings shared by the candidate and admin programs.
//
// Durations are time.Duration values; flags express them in whole seconds.
type Config struct {
	ServerURL           string
	Lang                string
	QuestionTimeLimit   time.Duration
	MaxQuestions        int
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	CacheDSN            string
	DownloadDir         string
	LogFormat           string
	LogLevel            string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults.
// Lang stays empty so each program can apply its own default.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.Lang = ""
	c.QuestionTimeLimit = 120 * time.Second
	c.MaxQuestions = 5
	c.RequestTimeout = 3 * time.Minute
	c.OnlineCheckInterval = 3 * time.Second
	c.CacheDSN = "aihr_cache.db"
	c.DownloadDir = "downloads"
	c.LogFormat = "text"
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.ServerURL == "":
		return fmt.Errorf("server url is empty")
	case c.MaxQuestions <= 0:
		return fmt.Errorf("max questions must be positive, got %d", c.MaxQuestions)
	case c.QuestionTimeLimit < time.Second:
		return fmt.Errorf("question time limit must be at least 1s, got %s", c.QuestionTimeLimit)
	case c.RequestTimeout < 0:
		return fmt.Errorf("request timeout must not be negative, got %s", c.RequestTimeout)
	case c.OnlineCheckInterval <= 0:
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	switch c.LogFormat {
	case "text", "json", "zap":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones. Invalid input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}

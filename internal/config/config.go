package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port string

	// Auth; empty disables it.
	APIKey string

	// Grouping
	DefaultThresholds []int
	ParallelGrouping  bool

	// Tokenizer
	Tokenizer         string
	TokenizerEncoding string

	// Guards
	MaxNodes       int
	MaxUploadBytes int64

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Job state and stats
	JobTTL      time.Duration
	StatsWindow time.Duration

	// PDF
	PDFFallbackPdftotext bool

	LogLevel string
}

// fileConfig mirrors Config for the optional YAML file. Pointers distinguish
// unset booleans from false.
type fileConfig struct {
	Port                 string `yaml:"port"`
	APIKey               string `yaml:"api_key"`
	Thresholds           []int  `yaml:"thresholds"`
	ParallelGrouping     *bool  `yaml:"parallel_grouping"`
	Tokenizer            string `yaml:"tokenizer"`
	TokenizerEncoding    string `yaml:"tokenizer_encoding"`
	MaxNodes             int    `yaml:"max_nodes"`
	MaxUploadBytes       int64  `yaml:"max_upload_bytes"`
	WorkerCount          int    `yaml:"worker_count"`
	MaxQueueSize         int    `yaml:"max_queue_size"`
	JobTTL               string `yaml:"job_ttl"`
	StatsWindow          string `yaml:"stats_window"`
	PDFFallbackPdftotext *bool  `yaml:"pdf_fallback_pdftotext"`
	LogLevel             string `yaml:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:                 "8090",
		DefaultThresholds:    []int{128, 256, 512, 1024, 2048},
		Tokenizer:            "tiktoken",
		TokenizerEncoding:    "cl100k_base",
		MaxNodes:             100000,
		MaxUploadBytes:       52428800, // 50MB
		WorkerCount:          4,
		MaxQueueSize:         100,
		JobTTL:               1 * time.Hour,
		StatsWindow:          1 * time.Hour,
		PDFFallbackPdftotext: true,
		LogLevel:             "info",
	}
}

// Load reads .env (if present), then the YAML file named by SPLITML_CONFIG,
// then the environment. Later sources win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Defaults()
	if path := os.Getenv("SPLITML_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("SPLITML_API_KEY", cfg.APIKey)
	if v := os.Getenv("DEFAULT_THRESHOLDS"); v != "" {
		t, err := ParseThresholds(v)
		if err != nil {
			return Config{}, fmt.Errorf("DEFAULT_THRESHOLDS: %w", err)
		}
		cfg.DefaultThresholds = t
	}
	cfg.ParallelGrouping = envBool("PARALLEL_GROUPING", cfg.ParallelGrouping)
	cfg.Tokenizer = envOr("TOKENIZER", cfg.Tokenizer)
	cfg.TokenizerEncoding = envOr("TOKENIZER_ENCODING", cfg.TokenizerEncoding)
	cfg.MaxNodes = envInt("MAX_NODES", cfg.MaxNodes)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)
	cfg.LogLevel = envOr("LOG_LEVEL", cfg.LogLevel)

	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxNodes <= 0 {
		cfg.MaxNodes = 100000
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if f.Port != "" {
		c.Port = f.Port
	}
	if f.APIKey != "" {
		c.APIKey = f.APIKey
	}
	if len(f.Thresholds) > 0 {
		c.DefaultThresholds = f.Thresholds
	}
	if f.ParallelGrouping != nil {
		c.ParallelGrouping = *f.ParallelGrouping
	}
	if f.Tokenizer != "" {
		c.Tokenizer = f.Tokenizer
	}
	if f.TokenizerEncoding != "" {
		c.TokenizerEncoding = f.TokenizerEncoding
	}
	if f.MaxNodes > 0 {
		c.MaxNodes = f.MaxNodes
	}
	if f.MaxUploadBytes > 0 {
		c.MaxUploadBytes = f.MaxUploadBytes
	}
	if f.WorkerCount != 0 {
		c.WorkerCount = f.WorkerCount
	}
	if f.MaxQueueSize > 0 {
		c.MaxQueueSize = f.MaxQueueSize
	}
	if f.JobTTL != "" {
		d, err := time.ParseDuration(f.JobTTL)
		if err != nil {
			return fmt.Errorf("job_ttl: %w", err)
		}
		c.JobTTL = d
	}
	if f.StatsWindow != "" {
		d, err := time.ParseDuration(f.StatsWindow)
		if err != nil {
			return fmt.Errorf("stats_window: %w", err)
		}
		c.StatsWindow = d
	}
	if f.PDFFallbackPdftotext != nil {
		c.PDFFallbackPdftotext = *f.PDFFallbackPdftotext
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	return nil
}

func (c Config) Validate() error {
	if len(c.DefaultThresholds) == 0 {
		return fmt.Errorf("at least one default threshold is required")
	}
	for _, t := range c.DefaultThresholds {
		if t <= 0 {
			return fmt.Errorf("thresholds must be positive, got %d", t)
		}
	}
	switch strings.ToLower(c.Tokenizer) {
	case "tiktoken", "estimate":
	default:
		return fmt.Errorf("unknown tokenizer %q (want tiktoken or estimate)", c.Tokenizer)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return l, nil
}

// ParseThresholds parses a comma separated list such as "128,256,512".
// Order and duplicates are kept.
func ParseThresholds(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q", part)
		}
		if n <= 0 {
			return nil, fmt.Errorf("threshold must be positive, got %d", n)
		}
		out = append(out, n)
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

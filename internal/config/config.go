// Package config provides application configuration loaded from environment
// variables with defaults and validation. Values may also come from a .env
// file (godotenv) and from a YAML file named by CONFIG_FILE; the process
// environment always wins over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// UpstreamConfig configures the api.congress.gov client and the Senate
// roll-call XML feed.
type UpstreamConfig struct {
	APIKey        string        // CONGRESS_API_KEY
	BaseURL       string        // CONGRESS_API_URL
	SenateBaseURL string        // SENATE_FEED_URL
	Timeout       time.Duration // UPSTREAM_TIMEOUT
	RPS           float64       // UPSTREAM_RPS, 0 disables throttling
	Burst         int           // UPSTREAM_BURST
	MaxRetries    int           // UPSTREAM_MAX_RETRIES
	Backoff       time.Duration // UPSTREAM_BACKOFF, doubled per attempt
}

// SyncConfig tunes lazy and scheduled backfill.
type SyncConfig struct {
	CurrentCongress int           // CURRENT_CONGRESS
	BatchSize       int           // SYNC_BATCH_SIZE
	Freshness       time.Duration // SYNC_FRESHNESS
	Concurrency     int           // SYNC_CONCURRENCY
}

// ScheduleConfig drives the periodic refresh jobs in `serve`.
type ScheduleConfig struct {
	Enabled  bool   // SCHEDULE_ENABLED
	Members  string // SCHEDULE_MEMBERS (cron spec)
	Votes    string // SCHEDULE_VOTES (cron spec)
	Timezone string // SCHEDULE_TZ
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	// Database
	DBDriver string // sqlite|postgres
	DBDSN    string // file path for sqlite, connection string for postgres

	// Rate limiting
	RateRPS   float64
	RateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Assistant
	IdempotencyTTL time.Duration
	MaxPromptRunes int

	Upstream UpstreamConfig
	Sync     SyncConfig
	Schedule ScheduleConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadDotenv loads KEY=VALUE pairs from the given files (".env" when none)
// into the process environment without overriding variables already set.
// Missing files are ignored.
func LoadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load reads configuration from the environment (and CONFIG_FILE when
// set), applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	src, err := readFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:              src.getenv("PORT", "8080"),
		ReadTimeout:       src.getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: src.getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      src.getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       src.getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    src.getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(src.getenv("GIN_MODE", "release")),

		LogLevel:       strings.ToLower(src.getenv("LOG_LEVEL", "info")),
		LogPretty:      src.getbool("LOG_PRETTY", false),
		SwaggerEnabled: src.getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(src.getenv("API_BASE_PATH", "/api/v1")),

		DBDriver: strings.ToLower(src.getenv("DB_DRIVER", "sqlite")),
		DBDSN:    src.getenv("DB_DSN", src.getenv("DB_PATH", "congress.db")),

		RateRPS:   src.getfloat("RATE_RPS", 5.0),
		RateBurst: src.getint("RATE_BURST", 10),

		CORS: CORSConfig{
			AllowedOrigins: splitCSV(src.getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: src.getbool("ENABLE_HSTS", false),
			HSTSMaxAge: src.getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		IdempotencyTTL: src.getdur("IDEMPOTENCY_TTL", 24*time.Hour),
		MaxPromptRunes: src.getint("MAX_PROMPT_RUNES", 2000),

		Upstream: UpstreamConfig{
			APIKey:        src.getenv("CONGRESS_API_KEY", ""),
			BaseURL:       strings.TrimRight(src.getenv("CONGRESS_API_URL", "https://api.congress.gov/v3"), "/"),
			SenateBaseURL: strings.TrimRight(src.getenv("SENATE_FEED_URL", "https://www.senate.gov"), "/"),
			Timeout:       src.getdur("UPSTREAM_TIMEOUT", 30*time.Second),
			RPS:           src.getfloat("UPSTREAM_RPS", 1.0),
			Burst:         src.getint("UPSTREAM_BURST", 5),
			MaxRetries:    src.getint("UPSTREAM_MAX_RETRIES", 3),
			Backoff:       src.getdur("UPSTREAM_BACKOFF", time.Second),
		},
		Sync: SyncConfig{
			CurrentCongress: src.getint("CURRENT_CONGRESS", 119),
			BatchSize:       src.getint("SYNC_BATCH_SIZE", 50),
			Freshness:       src.getdur("SYNC_FRESHNESS", time.Hour),
			Concurrency:     src.getint("SYNC_CONCURRENCY", 4),
		},
		Schedule: ScheduleConfig{
			Enabled:  src.getbool("SCHEDULE_ENABLED", false),
			Members:  src.getenv("SCHEDULE_MEMBERS", "0 4 * * *"),
			Votes:    src.getenv("SCHEDULE_VOTES", "30 * * * *"),
			Timezone: src.getenv("SCHEDULE_TZ", "America/New_York"),
		},

		OTEL: OTELConfig{
			Enabled:     src.getbool("OTEL_ENABLED", false),
			Endpoint:    src.getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    src.getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: src.getenv("OTEL_SERVICE_NAME", "go-congress-backend"),
			SampleRatio: src.getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DBDriver == "sqlite3" {
		cfg.DBDriver = "sqlite"
	}
	if cfg.DBDriver == "postgresql" || cfg.DBDriver == "pgx" {
		cfg.DBDriver = "postgres"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if strings.TrimSpace(cfg.DBDSN) == "" {
		return cfg, errors.New("DB_DSN must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.MaxPromptRunes < 1 {
		return cfg, errors.New("MAX_PROMPT_RUNES must be >= 1")
	}
	if !strings.HasPrefix(cfg.Upstream.BaseURL, "http://") && !strings.HasPrefix(cfg.Upstream.BaseURL, "https://") {
		return cfg, errors.New("CONGRESS_API_URL must be an http(s) URL")
	}
	if cfg.Upstream.Timeout <= 0 {
		return cfg, errors.New("UPSTREAM_TIMEOUT must be > 0")
	}
	if cfg.Upstream.RPS < 0 || cfg.Upstream.Burst < 1 {
		return cfg, errors.New("UPSTREAM_RPS must be >= 0 and UPSTREAM_BURST >= 1")
	}
	if cfg.Upstream.MaxRetries < 0 || cfg.Upstream.Backoff < 0 {
		return cfg, errors.New("UPSTREAM_MAX_RETRIES and UPSTREAM_BACKOFF must be >= 0")
	}
	if cfg.Sync.CurrentCongress < 1 {
		return cfg, errors.New("CURRENT_CONGRESS must be >= 1")
	}
	if cfg.Sync.BatchSize < 1 || cfg.Sync.BatchSize > 250 {
		return cfg, errors.New("SYNC_BATCH_SIZE must be in [1,250]")
	}
	if cfg.Sync.Freshness < 0 {
		return cfg, errors.New("SYNC_FRESHNESS must be >= 0")
	}
	if cfg.Sync.Concurrency < 1 {
		return cfg, errors.New("SYNC_CONCURRENCY must be >= 1")
	}
	if cfg.Schedule.Enabled && (strings.TrimSpace(cfg.Schedule.Members) == "" || strings.TrimSpace(cfg.Schedule.Votes) == "") {
		return cfg, errors.New("SCHEDULE_MEMBERS and SCHEDULE_VOTES must be set when SCHEDULE_ENABLED")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// source resolves a key from the process environment first and the
// config file second.
type source map[string]string

// readFile parses a flat YAML mapping of KEY: value pairs. An empty path
// yields an empty source.
func readFile(path string) (source, error) {
	if strings.TrimSpace(path) == "" {
		return source{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CONFIG_FILE: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse CONFIG_FILE: %w", err)
	}
	out := make(source, len(raw))
	for k, v := range raw {
		if v == nil {
			continue
		}
		out[strings.ToUpper(strings.TrimSpace(k))] = fmt.Sprint(v)
	}
	return out, nil
}

func (s source) lookup(k string) (string, bool) {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v, true
	}
	if v, ok := s[k]; ok && v != "" {
		return v, true
	}
	return "", false
}

func (s source) getenv(k, def string) string {
	if v, ok := s.lookup(k); ok {
		return v
	}
	return def
}

func (s source) getfloat(k string, def float64) float64 {
	if v, ok := s.lookup(k); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func (s source) getint(k string, def int) int {
	if v, ok := s.lookup(k); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func (s source) getbool(k string, def bool) bool {
	if v, ok := s.lookup(k); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func (s source) getdur(k string, def time.Duration) time.Duration {
	if v, ok := s.lookup(k); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}

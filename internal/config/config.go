// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, the remote webhook, dashboard paging, analytics choices, identity,
// protection layers and observability.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tbourn/contact-dashboard/internal/sysutil"
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
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "subdash")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// WebhookConfig locates the remote submissions API.
type WebhookConfig struct {
	BaseURL string        // API_BASE, falling back to REACT_APP_API_BASE
	Timeout time.Duration // WEBHOOK_TIMEOUT; 0 means no client timeout
}

// DashboardConfig controls the submissions list.
type DashboardConfig struct {
	PageSize      int           // PAGE_SIZE
	PageWindow    int           // PAGE_WINDOW
	NoticeTTL     time.Duration // NOTICE_TTL
	ViewCacheSize int           // VIEW_CACHE_SIZE
	TimeZone      string        // TIMEZONE ("Local", "UTC" or an IANA name)
}

// AnalyticsConfig restricts the analytics look-back and ranking size.
type AnalyticsConfig struct {
	DaysDefault int
	DaysChoices []int
	TopDefault  int
	TopChoices  []int
}

// AuthConfig configures bearer token verification. An empty secret selects
// header identity (development only).
type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
}

// DevhookConfig configures the local webhook stub.
type DevhookConfig struct {
	Port   string
	DBPath string
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath    string // SQLite path (audit, idempotency)
	Webhook   WebhookConfig
	Dashboard DashboardConfig
	Analytics AnalyticsConfig
	Auth      AuthConfig
	Devhook   DevhookConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a contact outcome is replayed

	// Observability
	OTEL OTELConfig
}

// Location resolves Dashboard.TimeZone. Load has already validated it.
func (c Config) Location() *time.Location {
	loc, err := loadLocation(c.Dashboard.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadDotEnv reads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped; with
// no arguments ".env" is tried.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath: getenv("DB_PATH", "app.db"),
		Webhook: WebhookConfig{
			BaseURL: strings.TrimRight(sysutil.FirstNonEmpty(
				os.Getenv("API_BASE"),
				os.Getenv("REACT_APP_API_BASE"),
				"http://localhost:5678",
			), "/"),
			Timeout: getdur("WEBHOOK_TIMEOUT", 0),
		},
		Dashboard: DashboardConfig{
			PageSize:      getint("PAGE_SIZE", 10),
			PageWindow:    getint("PAGE_WINDOW", 5),
			NoticeTTL:     getdur("NOTICE_TTL", 2500*time.Millisecond),
			ViewCacheSize: getint("VIEW_CACHE_SIZE", 1024),
			TimeZone:      getenv("TIMEZONE", "Local"),
		},
		Analytics: AnalyticsConfig{
			DaysDefault: getint("DAYS_BACK_DEFAULT", 30),
			DaysChoices: getints("DAYS_BACK_CHOICES", []int{7, 14, 30, 60, 90}),
			TopDefault:  getint("TOP_N_DEFAULT", 10),
			TopChoices:  getints("TOP_N_CHOICES", []int{5, 7, 10, 15}),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
			JWTIssuer: getenv("AUTH_JWT_ISSUER", "subdash"),
		},
		Devhook: DevhookConfig{
			Port:   getenv("DEVHOOK_PORT", "5678"),
			DBPath: getenv("DEVHOOK_DB_PATH", "devhook.db"),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "subdash"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
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
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if u, err := url.Parse(cfg.Webhook.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return cfg, errors.New("API_BASE must be an absolute http(s) URL")
	}
	if cfg.Webhook.Timeout < 0 {
		return cfg, errors.New("WEBHOOK_TIMEOUT must be >= 0")
	}
	if cfg.Dashboard.PageSize < 1 {
		return cfg, errors.New("PAGE_SIZE must be >= 1")
	}
	if cfg.Dashboard.PageWindow < 1 {
		return cfg, errors.New("PAGE_WINDOW must be >= 1")
	}
	if cfg.Dashboard.NoticeTTL < 0 {
		return cfg, errors.New("NOTICE_TTL must be >= 0")
	}
	if cfg.Dashboard.ViewCacheSize < 1 {
		return cfg, errors.New("VIEW_CACHE_SIZE must be >= 1")
	}
	if _, err := loadLocation(cfg.Dashboard.TimeZone); err != nil {
		return cfg, fmt.Errorf("TIMEZONE: %w", err)
	}
	if err := validChoices("DAYS_BACK", cfg.Analytics.DaysDefault, cfg.Analytics.DaysChoices); err != nil {
		return cfg, err
	}
	if err := validChoices("TOP_N", cfg.Analytics.TopDefault, cfg.Analytics.TopChoices); err != nil {
		return cfg, err
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
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// validChoices requires a non-empty list of positive values containing def.
func validChoices(name string, def int, choices []int) error {
	if len(choices) == 0 {
		return fmt.Errorf("%s_CHOICES must list at least one value", name)
	}
	for _, c := range choices {
		if c < 1 {
			return fmt.Errorf("%s_CHOICES must be positive integers", name)
		}
	}
	if !slices.Contains(choices, def) {
		return fmt.Errorf("%s_DEFAULT must be one of %s_CHOICES", name, name)
	}
	return nil
}

func loadLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "Local", "local":
		return time.Local, nil
	default:
		return time.LoadLocation(strings.TrimSpace(name))
	}
}

// ---- helpers ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return def
}

// getints parses a comma-separated integer list. Any bad element discards the
// whole value in favour of def.
func getints(k string, def []int) []int {
	v, ok := os.LookupEnv(k)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	parts := splitCSV(v)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		i, err := strconv.Atoi(p)
		if err != nil {
			return def
		}
		out = append(out, i)
	}
	return out
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
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

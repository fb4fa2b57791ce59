package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Clear all env that might affect defaults. t.Setenv isolates per test.
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// Storage / tracker
	t.Setenv("DB_PATH", "db.sqlite")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/meds")
	t.Setenv("LOCAL_TIMEZONE", "Europe/Athens")
	t.Setenv("ADHERENCE_WINDOW_DAYS", "14")
	t.Setenv("REFILL_HORIZON_DAYS", "10")
	t.Setenv("REFERENCE_PATH", "ref.json")

	// Reminders
	t.Setenv("REMINDERS_ENABLED", "off")
	t.Setenv("REMINDER_SPEC", "@every 30s")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC1")
	t.Setenv("TWILIO_AUTH_TOKEN", "tok")
	t.Setenv("TWILIO_WHATSAPP_NUMBER", "+100")
	t.Setenv("TWILIO_WHATSAPP_TO", "+200")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10
	t.Setenv("RATE_KEY", " IP_Method ")

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// Idempotency
	t.Setenv("IDEMPOTENCY_TTL", "48h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}

	// Storage / tracker
	if cfg.DBPath != "db.sqlite" || cfg.DatabaseURL != "postgres://u:p@localhost:5432/meds" {
		t.Fatalf("storage fields unexpected: %+v", cfg)
	}
	if cfg.Location == nil || cfg.Location.String() != "Europe/Athens" {
		t.Fatalf("location unexpected: %v", cfg.Location)
	}
	if cfg.AdherenceWindowDays != 14 || cfg.RefillHorizonDays != 10 || cfg.ReferencePath != "ref.json" {
		t.Fatalf("tracker fields unexpected: %+v", cfg)
	}

	// Reminders
	if cfg.RemindersEnabled || cfg.ReminderSpec != "@every 30s" || !cfg.Twilio.Enabled() {
		t.Fatalf("reminder fields unexpected: %+v", cfg)
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 || cfg.RateKey != "ip_method" {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	// Idempotency
	if cfg.IdempotencyTTL != 48*time.Hour {
		t.Fatalf("idempotency ttl unexpected: %v", cfg.IdempotencyTTL)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	t.Run("invalid LOG_LEVEL", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "verbose")
		if _, err := Load(); err == nil {
			t.Fatalf("expected LOG_LEVEL validation error")
		}
	})
	t.Run("empty PORT via spaces", func(t *testing.T) {
		t.Setenv("PORT", "   ")
		if _, err := Load(); err == nil || !containsErr(err, "PORT must not be empty") {
			t.Fatalf("expected port validation error, got: %v", err)
		}
	})
	t.Run("non-positive timeouts", func(t *testing.T) {
		t.Setenv("READ_TIMEOUT", "0s")
		if _, err := Load(); err == nil || !containsErr(err, "timeouts must be positive") {
			t.Fatalf("expected timeouts validation error, got: %v", err)
		}
	})
	t.Run("max header bytes <= 0", func(t *testing.T) {
		t.Setenv("MAX_HEADER_BYTES", "0")
		if _, err := Load(); err == nil || !containsErr(err, "MAX_HEADER_BYTES") {
			t.Fatalf("expected MAX_HEADER_BYTES validation error, got: %v", err)
		}
	})
	t.Run("empty DB_PATH", func(t *testing.T) {
		t.Setenv("DB_PATH", "   ")
		if _, err := Load(); err == nil || !containsErr(err, "DB_PATH must not be empty") {
			t.Fatalf("expected DB_PATH validation error, got: %v", err)
		}
	})
	t.Run("unknown LOCAL_TIMEZONE", func(t *testing.T) {
		t.Setenv("LOCAL_TIMEZONE", "Mars/Olympus_Mons")
		if _, err := Load(); err == nil || !containsErr(err, "LOCAL_TIMEZONE") {
			t.Fatalf("expected LOCAL_TIMEZONE validation error, got: %v", err)
		}
	})
	t.Run("adherence window out of range", func(t *testing.T) {
		t.Setenv("ADHERENCE_WINDOW_DAYS", "0")
		if _, err := Load(); err == nil || !containsErr(err, "ADHERENCE_WINDOW_DAYS") {
			t.Fatalf("expected ADHERENCE_WINDOW_DAYS validation error, got: %v", err)
		}
	})
	t.Run("refill horizon < 1", func(t *testing.T) {
		t.Setenv("REFILL_HORIZON_DAYS", "-3")
		if _, err := Load(); err == nil || !containsErr(err, "REFILL_HORIZON_DAYS") {
			t.Fatalf("expected REFILL_HORIZON_DAYS validation error, got: %v", err)
		}
	})
	t.Run("blank reminder spec", func(t *testing.T) {
		t.Setenv("REMINDERS_ENABLED", "true")
		t.Setenv("REMINDER_SPEC", "  ")
		if _, err := Load(); err == nil || !containsErr(err, "REMINDER_SPEC") {
			t.Fatalf("expected REMINDER_SPEC validation error, got: %v", err)
		}
	})
	t.Run("rate rps negative", func(t *testing.T) {
		t.Setenv("RATE_RPS", "-1")
		if _, err := Load(); err == nil || !containsErr(err, "RATE_RPS") {
			t.Fatalf("expected RATE_RPS validation error, got: %v", err)
		}
	})
	t.Run("rate burst < 1", func(t *testing.T) {
		t.Setenv("RATE_BURST", "0")
		if _, err := Load(); err == nil || !containsErr(err, "RATE_BURST") {
			t.Fatalf("expected RATE_BURST validation error, got: %v", err)
		}
	})
	t.Run("rate key unknown", func(t *testing.T) {
		t.Setenv("RATE_KEY", "user")
		if _, err := Load(); err == nil || !containsErr(err, "RATE_KEY") {
			t.Fatalf("expected RATE_KEY validation error, got: %v", err)
		}
	})
	t.Run("hsts max age negative", func(t *testing.T) {
		t.Setenv("HSTS_MAX_AGE", "-1s")
		if _, err := Load(); err == nil || !containsErr(err, "HSTS_MAX_AGE") {
			t.Fatalf("expected HSTS_MAX_AGE validation error, got: %v", err)
		}
	})
	t.Run("idempotency ttl non-positive", func(t *testing.T) {
		t.Setenv("IDEMPOTENCY_TTL", "0s")
		if _, err := Load(); err == nil || !containsErr(err, "IDEMPOTENCY_TTL") {
			t.Fatalf("expected IDEMPOTENCY_TTL validation error, got: %v", err)
		}
	})
	t.Run("otel sample ratio out of range", func(t *testing.T) {
		t.Setenv("OTEL_TRACES_SAMPLER_ARG", "1.5")
		if _, err := Load(); err == nil || !containsErr(err, "OTEL_TRACES_SAMPLER_ARG") {
			t.Fatalf("expected OTEL_TRACES_SAMPLER_ARG validation error, got: %v", err)
		}
	})

	// Note: API_BASE_PATH validation is effectively unreachable due to normalizeBasePath
	// always ensuring a leading '/' and returning "/" for empty input.
}

// --- helpers ---

func TestEnvParsers_FallBackOnBlankOrBadInput(t *testing.T) {
	t.Setenv("MT_WINDOW", "30")
	t.Setenv("MT_WINDOW_BAD", "a week")
	t.Setenv("MT_RPS", "2.5")
	t.Setenv("MT_RPS_BAD", "fast")
	t.Setenv("MT_TTL", "36h")
	t.Setenv("MT_TTL_BAD", "tomorrow")
	t.Setenv("MT_ZONE", "Europe/Athens")
	t.Setenv("MT_BLANK", "")

	if got := getint("MT_WINDOW", 7); got != 30 {
		t.Fatalf("getint = %d", got)
	}
	if got := getint("MT_WINDOW_BAD", 7); got != 7 {
		t.Fatalf("getint bad = %d; want default", got)
	}
	if got := getfloat("MT_RPS", 5); got != 2.5 {
		t.Fatalf("getfloat = %v", got)
	}
	if got := getfloat("MT_RPS_BAD", 5); got != 5 {
		t.Fatalf("getfloat bad = %v; want default", got)
	}
	if got := getdur("MT_TTL", time.Hour); got != 36*time.Hour {
		t.Fatalf("getdur = %v", got)
	}
	if got := getdur("MT_TTL_BAD", time.Hour); got != time.Hour {
		t.Fatalf("getdur bad = %v; want default", got)
	}
	if got := getenv("MT_ZONE", "UTC"); got != "Europe/Athens" {
		t.Fatalf("getenv = %q", got)
	}
	if got := getenv("MT_BLANK", "UTC"); got != "UTC" {
		t.Fatalf("getenv blank = %q; want default", got)
	}
}

func TestEnvParsers_getbool(t *testing.T) {
	cases := []struct {
		raw  string
		def  bool
		want bool
	}{
		{"1", false, true}, {" yes ", false, true}, {"On", false, true}, {"TRUE", false, true}, {"y", false, true},
		{"0", true, false}, {"no", true, false}, {"OFF", true, false}, {"false", true, false}, {"N", true, false},
		{"", true, true}, {"", false, false}, {"maybe", true, true},
	}
	for _, tc := range cases {
		t.Setenv("REMINDERS_ENABLED", tc.raw)
		if got := getbool("REMINDERS_ENABLED", tc.def); got != tc.want {
			t.Fatalf("getbool(%q, %v) = %v; want %v", tc.raw, tc.def, got, tc.want)
		}
	}
}

func TestEnvParsers_splitCSVAndBasePath(t *testing.T) {
	if got := splitCSV(""); got != nil {
		t.Fatalf("splitCSV(\"\") = %#v; want nil", got)
	}
	want := []string{"http://localhost:5173", "https://meds.example"}
	if got := splitCSV(" http://localhost:5173, ,https://meds.example ,"); !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV = %#v; want %#v", got, want)
	}

	paths := map[string]string{"": "/", " / ": "/", "api/v1": "/api/v1", "/api/v1/": "/api/v1"}
	for in, want := range paths {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q; want %q", in, got, want)
		}
	}
}

// Keep the developer's shell from leaking into defaults.
func TestMain(m *testing.M) {
	for _, k := range []string{"PORT", "DATABASE_URL", "LOCAL_TIMEZONE", "RATE_KEY", "TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_WHATSAPP_NUMBER", "TWILIO_WHATSAPP_TO", "LOG_REDACT"} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}

func TestLoad_Defaults_TrackerSettings(t *testing.T) {
	t.Setenv("DB_PATH", "db.sqlite")
	// Intentionally leave API_BASE_PATH and the tracker settings unset

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("API_BASE_PATH default expected '/api/v1', got %q", cfg.APIBasePath)
	}
	if cfg.AdherenceWindowDays != 7 || cfg.RefillHorizonDays != 7 {
		t.Fatalf("window defaults unexpected: %d/%d", cfg.AdherenceWindowDays, cfg.RefillHorizonDays)
	}
	if !cfg.RemindersEnabled || cfg.ReminderSpec != "@every 1m" {
		t.Fatalf("reminder defaults unexpected: %v %q", cfg.RemindersEnabled, cfg.ReminderSpec)
	}
	if cfg.Location == nil {
		t.Fatalf("expected a default location")
	}
	if cfg.Twilio.Enabled() {
		t.Fatalf("twilio must be disabled without credentials")
	}
	if !cfg.LogRedact {
		t.Fatalf("access log redaction should default on")
	}
}

func TestLoad_DatabaseURLAllowsEmptyDBPath(t *testing.T) {
	t.Setenv("DB_PATH", " ")
	t.Setenv("DATABASE_URL", "postgres://localhost/meds")
	if _, err := Load(); err != nil {
		t.Fatalf("expected DATABASE_URL to satisfy storage validation, got %v", err)
	}
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	// No special env needed; defaults are valid.
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.APIBasePath == "" {
		t.Fatalf("unexpected empty config from MustLoad")
	}
}

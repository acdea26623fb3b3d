package config

import (
	"testing"

	"github.com/rmachado/captcha-race/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("AppEnv = %q, want %q", cfg.AppEnv, EnvDev)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.ChallengesPerDay != 10 {
		t.Fatalf("ChallengesPerDay = %d, want 10", cfg.ChallengesPerDay)
	}
	if cfg.DayTimezone == nil || cfg.DayTimezone.String() != "America/Sao_Paulo" {
		t.Fatalf("DayTimezone = %v", cfg.DayTimezone)
	}
	if cfg.DisplayWidth != 300 || cfg.DisplayHeight != 120 {
		t.Fatalf("display size = %dx%d", cfg.DisplayWidth, cfg.DisplayHeight)
	}
	if !cfg.CacheEnabled {
		t.Fatalf("expected cache enabled by default")
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "stage")
	t.Setenv("DAY_TIMEZONE", "UTC")
	t.Setenv("CHALLENGES_PER_DAY", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("RACE_SESSION_TTL", "30m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.AppEnv != EnvStage {
		t.Fatalf("AppEnv = %q", cfg.AppEnv)
	}
	if cfg.DayTimezone.String() != "UTC" {
		t.Fatalf("DayTimezone = %v", cfg.DayTimezone)
	}
	if cfg.ChallengesPerDay != 5 {
		t.Fatalf("ChallengesPerDay = %d", cfg.ChallengesPerDay)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.RaceSessionTTL.Minutes() != 30 {
		t.Fatalf("RaceSessionTTL = %v", cfg.RaceSessionTTL)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad app env", key: "APP_ENV", value: "production"},
		{name: "bad timezone", key: "DAY_TIMEZONE", value: "Mars/Olympus"},
		{name: "zero challenges", key: "CHALLENGES_PER_DAY", value: "0"},
		{name: "bad cache ttl", key: "CACHE_TTL", value: "soon"},
		{name: "negative tick", key: "RACE_TICK_INTERVAL", value: "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_UptraceRequiresDSN(t *testing.T) {
	t.Setenv("UPTRACE_ENABLED", "true")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without DSN")
	}

	t.Setenv("UPTRACE_DSN", "https://token@api.uptrace.dev/1")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.UptraceEnabled {
		t.Fatalf("expected uptrace enabled")
	}
}

func TestLoad_ProdRequiresMediaConfig(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for prod without BLOB_BUCKET")
	}

	t.Setenv("BLOB_BUCKET", "captcha-race-media")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for prod without MEDIA_BASE_URL")
	}

	t.Setenv("MEDIA_BASE_URL", "https://firebasestorage.googleapis.com/v0/b/captcha-race.firebasestorage.app/o")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BlobBucket != "captcha-race-media" {
		t.Fatalf("BlobBucket = %q", cfg.BlobBucket)
	}
}

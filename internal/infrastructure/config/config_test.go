package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/iho/sharefund/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.StorageDriver != config.StoragePostgres {
		t.Fatalf("expected postgres storage by default, got %s", cfg.StorageDriver)
	}

	if cfg.ReserveMaxRetries != 5 || cfg.ReserveRetryInitial != 10*time.Millisecond {
		t.Fatalf("unexpected retry defaults: %d, %s", cfg.ReserveMaxRetries, cfg.ReserveRetryInitial)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if !cfg.GRPCEnabled || cfg.GRPCPort != "50051" {
		t.Fatalf("expected gRPC on 50051 by default, got enabled=%v port=%s", cfg.GRPCEnabled, cfg.GRPCPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("REDIS_URL", "")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PROJECT_CACHE_TTL", "5s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("JWT_SECRET", "top-secret")
	t.Setenv("AUTH_ENABLED", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.StorageDriver != config.StorageSQLite || cfg.SQLitePath != ":memory:" {
		t.Fatalf("expected sqlite storage, got %s at %s", cfg.StorageDriver, cfg.SQLitePath)
	}

	if cfg.RedisURL != "" {
		t.Fatalf("expected redis disabled, got %s", cfg.RedisURL)
	}

	if cfg.ProjectCacheTTL != 5*time.Second {
		t.Fatalf("expected cache TTL override, got %s", cfg.ProjectCacheTTL)
	}

	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit override, got %v", cfg.RateLimitRPS)
	}

	if cfg.JWTSecret != "top-secret" || !cfg.AuthEnabled {
		t.Fatalf("expected auth settings to be set, got secret=%s enabled=%v", cfg.JWTSecret, cfg.AuthEnabled)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "STORAGE_DRIVER", "mysql"},
		{"negative retries", "RESERVE_MAX_RETRIES", "-1"},
		{"auth without secret", "AUTH_ENABLED", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			t.Setenv(tt.key, tt.value)

			if _, err := config.Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

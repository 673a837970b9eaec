package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBMaxRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.DBMaxRetries)
	}
	if cfg.DBRetryInterval != 5*time.Second {
		t.Errorf("expected 5s retry interval, got %s", cfg.DBRetryInterval)
	}
	if cfg.HTTPRequestTimeout != 5*time.Second {
		t.Errorf("expected 5s request timeout, got %s", cfg.HTTPRequestTimeout)
	}
	if cfg.RedisTimeout != time.Second {
		t.Errorf("expected 1s redis timeout, got %s", cfg.RedisTimeout)
	}
	if cfg.RedisPrefix != "blog" {
		t.Errorf("expected blog prefix, got %q", cfg.RedisPrefix)
	}
	if cfg.CacheEnabled() {
		t.Error("expected cache to be disabled without REDIS_ADDR")
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("DBType", "sqlite")
	t.Setenv("DB_RETRY_INTERVAL", "250ms")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("SEED_CATEGORIES", "go,life")

	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DBType != "sqlite" {
		t.Errorf("expected sqlite, got %q", cfg.DBType)
	}
	if cfg.DBRetryInterval != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.DBRetryInterval)
	}
	if !cfg.CacheEnabled() {
		t.Error("expected cache to be enabled")
	}
	if len(cfg.SeedCategories) != 2 || cfg.SeedCategories[1] != "life" {
		t.Errorf("unexpected seed categories: %v", cfg.SeedCategories)
	}
}

func TestParseConfigLoadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("MONGO_DB=blog_test\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("ENV_FILE", path)
	t.Cleanup(func() { os.Unsetenv("MONGO_DB") })

	cfg, err := ParseConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MongoDB != "blog_test" {
		t.Errorf("expected blog_test, got %q", cfg.MongoDB)
	}
}

func TestRequestTimeoutCoversReconnectCycle(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want time.Duration
	}{
		{"defaults", Config{HTTPRequestTimeout: 5 * time.Second, DBMaxRetries: 3, DBRetryInterval: 5 * time.Second}, 20 * time.Second},
		{"no retries configured", Config{HTTPRequestTimeout: time.Second, DBRetryInterval: time.Second}, 2 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.RequestTimeout(); got != tt.want {
				t.Errorf("RequestTimeout() = %s, want %s", got, tt.want)
			}
		})
	}
}

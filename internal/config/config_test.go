package config

import (
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := &Config{
		App:       AppConfig{Environment: "development"},
		Logger:    LoggerConfig{Level: "info"},
		Storage:   StorageConfig{DataPath: "/tmp/inkshelf"},
		Catalog:   CatalogConfig{PageSize: 9},
		RateLimit: RateLimitConfig{RequestsPerMinute: 60, Burst: 20},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad environment", func(c *Config) { c.App.Environment = "prod" }},
		{"bad log level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"empty data path", func(c *Config) { c.Storage.DataPath = "" }},
		{"zero page size", func(c *Config) { c.Catalog.PageSize = 0 }},
		{"zero rate limit", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := *valid
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != "/default/path" {
		t.Errorf("expected default, got %s", got)
	}

	got, err = expandPath("/var/lib//inkshelf/", "")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Clean("/var/lib/inkshelf") {
		t.Errorf("expected cleaned path, got %s", got)
	}
}

func TestDatabasePath(t *testing.T) {
	c := &Config{Storage: StorageConfig{DataPath: "/data"}}
	if got := c.DatabasePath(); got != filepath.Join("/data", "inkshelf.db") {
		t.Errorf("unexpected database path %s", got)
	}
}

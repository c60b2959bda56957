package config

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SessionTTL != 600 || cfg.PageSize != 5 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskbot", "config.json")

	want := Config{DBPath: "/tmp/tasks.db", RedisAddr: "localhost:6379", SessionTTL: 120, PageSize: 10}
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TASKBOT_REDIS_ADDR", "redis:6379")
	t.Setenv("TASKBOT_SESSION_TTL", "42")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("redis addr override not applied: %+v", cfg)
	}
	if cfg.SessionTTL != 42 {
		t.Fatalf("ttl override not applied: %+v", cfg)
	}
}

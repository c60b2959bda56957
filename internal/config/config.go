package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	DBPath     string `json:"db_path"`
	RedisAddr  string `json:"redis_addr"`  // empty = in-memory session store
	SessionTTL int    `json:"session_ttl"` // seconds
	PageSize   int    `json:"page_size"`
}

func Default() Config {
	return Config{SessionTTL: 600, PageSize: 5}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "taskbot", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(&config)
			return config, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	applyEnv(&config)
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// applyEnv lets TASKBOT_* environment variables override file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TASKBOT_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TASKBOT_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("TASKBOT_SESSION_TTL"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl > 0 {
			cfg.SessionTTL = ttl
		}
	}
}

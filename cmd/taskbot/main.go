package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/balconyRewrap/taskbot/internal/config"
	"github.com/balconyRewrap/taskbot/internal/db"
	"github.com/balconyRewrap/taskbot/internal/engine"
	"github.com/balconyRewrap/taskbot/internal/session"
	"github.com/balconyRewrap/taskbot/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	configPathFlag := flag.String("config", "", "config file path")
	dbPathFlag := flag.String("db", "", "sqlite db path")
	redisFlag := flag.String("redis", "", "redis address for the session store (host:port)")
	userFlag := flag.Int64("user", 1, "local user identity for the chat client")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("taskbot %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if err := config.LoadDotenv(".env"); err != nil {
		slog.Warn("could not read .env", "err", err)
	}

	cfgPath, err := resolveConfigPath(*configPathFlag)
	if err != nil {
		fatal(err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal(err)
	}

	if *dbPathFlag != "" {
		cfg.DBPath = *dbPathFlag
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(cfgPath), "taskbot.db")
	}
	if *redisFlag != "" {
		cfg.RedisAddr = *redisFlag
	}

	if err := config.EnsureDir(cfg.DBPath); err != nil {
		fatal(err)
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		fatal(fmt.Errorf("open database: %w", err))
	}
	defer database.Close()

	sessions, cleanup, err := openSessions(cfg)
	if err != nil {
		fatal(err)
	}
	defer cleanup()

	eng := engine.New(database, sessions, cfg.PageSize)

	slog.Info("taskbot starting", "db", cfg.DBPath, "sessions", sessionBackend(cfg), "user", *userFlag)
	if err := ui.Run(eng, *userFlag); err != nil {
		fatal(err)
	}
}

func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	return config.DefaultConfigPath()
}

// openSessions picks the session backend: Redis when an address is
// configured, in-process memory otherwise.
func openSessions(cfg config.Config) (session.Store, func(), error) {
	ttl := time.Duration(cfg.SessionTTL) * time.Second
	if cfg.RedisAddr == "" {
		return session.NewMemory(ttl), func() {}, nil
	}

	store := session.NewRedis(cfg.RedisAddr, ttl)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return store, func() { _ = store.Close() }, nil
}

func sessionBackend(cfg config.Config) string {
	if cfg.RedisAddr == "" {
		return "memory"
	}
	return cfg.RedisAddr
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

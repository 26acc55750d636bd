package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sadopc/studylog/internal/config"
	"github.com/sadopc/studylog/internal/kv"
	"github.com/sadopc/studylog/internal/logger"
	"github.com/sadopc/studylog/internal/store"
	"github.com/sadopc/studylog/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	envFile := flag.String("env-file", "", "dotenv file to load (default .env if present)")
	backend := flag.String("backend", "", "storage backend: sqlite, redis or memory")
	dbPath := flag.String("db", "", "sqlite database path")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	sub, err := openSubstrate(cfg)
	if err != nil {
		log.Error("open storage", zap.String("backend", cfg.Backend), zap.Error(err))
		return err
	}
	if c, ok := sub.(io.Closer); ok {
		defer c.Close()
	}
	log.Info("studylog starting", zap.String("env", cfg.Env), zap.String("backend", cfg.Backend))

	app := tui.NewApp(tui.Deps{
		Records:  store.NewRecordStore(sub, store.WithLogger(log)),
		Subjects: store.NewSubjectRegistry(sub, store.WithLogger(log)),
		Targets:  store.NewTargetStore(sub, store.WithLogger(log)),
		Config:   cfg,
		Logger:   log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

func openSubstrate(cfg *config.Config) (kv.Substrate, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		r, err := kv.NewRedis(kv.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			Timeout:  cfg.Redis.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.BackendMemory:
		return kv.NewMemory(), nil
	default:
		s, err := kv.NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/benjamintian2005/AITripPlanner/internal/config"
	"github.com/benjamintian2005/AITripPlanner/internal/engine/httpx"
	"github.com/benjamintian2005/AITripPlanner/internal/engine/storage"
)

// session holds what every command opens: config, log file, store and HTTP client.
type session struct {
	cfg     config.Config
	logPath string
	logFile *os.File
	logger  *log.Logger
	store   *storage.Store
	client  *httpx.Client
}

// openSession loads config, then opens the session log and the store.
// A non-empty dbPath overrides TRIPADAPT_DB.
func openSession(dbPath string) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}

	ts := time.Now().Format("20060102_150405")
	logPath := filepath.Join(cfg.DataDir, fmt.Sprintf("tripadapt_%s.log", ts))
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	logger := log.New(logFile, "", log.LstdFlags)
	logger.Printf("=== Session start: db=%s geocoder=%s api=%q ===", cfg.DBPath, cfg.Geocoder, cfg.APIURL)

	store, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &session{
		cfg:     cfg,
		logPath: logPath,
		logFile: logFile,
		logger:  logger,
		store:   store,
		client:  cfg.HTTPClient(),
	}, nil
}

func (s *session) services() (*config.Services, error) {
	svc, err := s.cfg.Services(s.client, s.logger)
	if err != nil {
		return nil, fmt.Errorf("location services: %w", err)
	}
	return svc, nil
}

func (s *session) Close() {
	s.store.Close()
	s.logger.Printf("=== Session end ===")
	s.logFile.Close()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "\nShutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

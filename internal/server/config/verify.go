package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/yndnr/nsremover/internal/core/domain"
	"github.com/yndnr/nsremover/internal/storage"
	"github.com/yndnr/nsremover/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	if len(cfg.Namespaces) == 0 {
		return fmt.Errorf("namespaces: %w", domain.ErrEmptyNamespaceSet)
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr: %w", err)
	}
	if cfg.HTTP.RateLimit < 0 {
		return errors.New("server.http.rate_limit must not be negative")
	}
	if cfg.HTTP.RateLimit > 0 && cfg.HTTP.RateBurst < 1 {
		return errors.New("server.http.rate_burst must be at least 1 when rate limiting")
	}
	if _, err := cfg.HTTP.TrustedProxyPrefixes(); err != nil {
		return fmt.Errorf("server.http.trusted_proxies: %w", err)
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Engine {
	case storage.EngineMemory:
		return nil
	case storage.EngineBadger:
		if _, err := time.ParseDuration(cfg.Badger.GCInterval); err != nil {
			return fmt.Errorf("storage.badger.gc_interval: %w", err)
		}
	case storage.EngineBolt:
		if cfg.Bolt.PageSize < 1 {
			return errors.New("storage.bolt.page_size must be at least 1")
		}
		if _, err := time.ParseDuration(cfg.Bolt.OpenTimeout); err != nil {
			return fmt.Errorf("storage.bolt.open_timeout: %w", err)
		}
	default:
		return fmt.Errorf("storage.engine: unknown engine %q (want %s)", cfg.Engine,
			strings.Join([]string{storage.EngineBadger, storage.EngineBolt, storage.EngineMemory}, ", "))
	}

	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console", "":
		return nil
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
}

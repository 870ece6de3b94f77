// Command nsremover-server registers a fixed set of namespaces at startup and
// deletes every ledger record under them when DeleteState is invoked.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/yndnr/nsremover/internal/core/service"
	"github.com/yndnr/nsremover/internal/infra/buildinfo"
	"github.com/yndnr/nsremover/internal/infra/confloader"
	"github.com/yndnr/nsremover/internal/infra/shutdown"
	"github.com/yndnr/nsremover/internal/server/config"
	"github.com/yndnr/nsremover/internal/server/httpserver"
	"github.com/yndnr/nsremover/internal/storage"
	"github.com/yndnr/nsremover/internal/telemetry/logger"
	"github.com/yndnr/nsremover/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("nsremover-server " + buildinfo.String())
		return nil
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting nsremover-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile,
		"engine", cfg.Storage.Engine)

	metrics := metric.NewRegistry()

	ledger, err := openLedger(cfg, log, metrics)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	registry := service.NewRegistry()
	metrics.MustRegister(metric.NewCollector(registry))

	sweeper := service.NewSweeper(registry,
		service.WithSweeperLogger(log),
		service.WithSweeperMetrics(metrics))
	dispatcher := service.NewDispatcher(registry, sweeper, ledger,
		service.WithDispatcherLogger(log),
		service.WithDispatcherMetrics(metrics))

	// The namespace set is fixed for the life of the process.
	if resp := dispatcher.Init(cfg.Namespaces); !resp.OK() {
		_ = ledger.Close()
		return fmt.Errorf("init namespaces: %s", resp.Message)
	}

	trusted, err := cfg.Server.HTTP.TrustedProxyPrefixes()
	if err != nil {
		_ = ledger.Close()
		return fmt.Errorf("trusted proxies: %w", err)
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Dispatcher:  dispatcher,
		Registry:    registry,
		Metrics:     metrics,
		Logger:      log,
		RateLimit:   cfg.Server.HTTP.RateLimit,
		RateBurst:   cfg.Server.HTTP.RateBurst,
		ClientIP:    httpserver.NewClientIP(trusted),
		EnableAudit: cfg.Server.HTTP.EnableAudit,
	})
	httpServer := httpserver.New(httpserver.Config{
		Addr:         cfg.Server.HTTP.Addr,
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
	}, router)

	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout, log)

	// Hooks run in reverse: watcher, then HTTP server, then storage.
	shutdownHandler.OnShutdown("storage", func(ctx context.Context) error {
		return ledger.Close()
	})
	shutdownHandler.OnShutdown("http", httpServer.Shutdown)

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, cfg, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil {
			serveErr <- err
			shutdownHandler.Trigger()
		}
	}()

	waitErr := shutdownHandler.Wait(context.Background())

	select {
	case err := <-serveErr:
		return errors.Join(fmt.Errorf("http server: %w", err), waitErr)
	default:
	}
	if waitErr != nil {
		log.Error("shutdown error", "error", waitErr)
		return waitErr
	}

	log.Info("server stopped gracefully")
	return nil
}

// openLedger opens the configured engine. Badger additionally exports its
// size gauges.
func openLedger(cfg *config.ServerConfig, log *slog.Logger, metrics *metric.Registry) (storage.Ledger, error) {
	ledger, err := storage.Open(cfg.Storage.KVConfig(), log)
	if err != nil {
		return nil, err
	}
	if engine, ok := ledger.(*storage.BadgerEngine); ok {
		engine.RegisterMetrics(metrics.Registerer())
	}
	return ledger, nil
}

// watchConfig reloads the config file on change. Only the log level is
// applied live; everything else is reported and needs a restart.
func watchConfig(path string, running *config.ServerConfig, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(path); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	reloader := config.NewReloader(path, running, log)
	watcher.OnChange(func(string) {
		if _, err := reloader.Reload(); err != nil {
			log.Warn("config reload rejected", "error", err)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}

package config

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/yndnr/nsremover/internal/infra/confloader"
	"github.com/yndnr/nsremover/internal/telemetry/logger"
)

// Load reads path (optional) and NSREMOVER_ environment variables on top of
// Default, then verifies the result.
func Load(path string) (*ServerConfig, error) {
	cfg := Default()

	loader := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithListKeys("namespaces", "server.http.trusted_proxies"),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Changes lists the differences a reload cares about.
type Changes struct {
	LogLevel   bool
	Namespaces bool

	// Restart is set when a field only read at startup changed.
	Restart bool
}

// Diff compares a reloaded configuration with the running one.
func Diff(running, reloaded *ServerConfig) Changes {
	return Changes{
		LogLevel:   running.Log.Level != reloaded.Log.Level,
		Namespaces: !slices.Equal(running.Namespaces, reloaded.Namespaces),
		Restart: !reflect.DeepEqual(running.Server, reloaded.Server) ||
			running.Storage != reloaded.Storage ||
			running.Log.Format != reloaded.Log.Format,
	}
}

// Reloader applies config file reloads to a running server.
//
// The log level follows the most recent reload. Namespace and restart-only
// changes are reported once per distinct edit, measured against the
// configuration the process started with.
type Reloader struct {
	path    string
	startup *ServerConfig
	log     *slog.Logger

	mu   sync.Mutex
	last *ServerConfig
}

// NewReloader creates a Reloader for the server started with startup.
func NewReloader(path string, startup *ServerConfig, log *slog.Logger) *Reloader {
	if log == nil {
		log = slog.Default()
	}
	return &Reloader{path: path, startup: startup, last: startup, log: log}
}

// Reload loads the file again and applies it. A config that fails to load
// or verify leaves the running state untouched.
func (r *Reloader) Reload() (Changes, error) {
	reloaded, err := Load(r.path)
	if err != nil {
		return Changes{}, err
	}
	return r.Apply(reloaded), nil
}

// Apply applies reloaded and returns the changes that were acted on.
func (r *Reloader) Apply(reloaded *ServerConfig) Changes {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := Diff(r.last, reloaded)
	pending := Diff(r.startup, reloaded)
	r.last = reloaded

	changes := Changes{
		LogLevel:   seen.LogLevel,
		Namespaces: seen.Namespaces && pending.Namespaces,
		Restart:    seen.Restart && pending.Restart,
	}
	if changes.LogLevel {
		logger.SetLevel(reloaded.Log.Level)
		r.log.Info("log level changed", "level", logger.GetLevel())
	}
	if changes.Namespaces {
		r.log.Warn("namespace changes are ignored until restart", "running", r.startup.Namespaces)
	}
	if changes.Restart {
		r.log.Warn("config changes need a restart to take effect")
	}
	return changes
}

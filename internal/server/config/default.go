package config

import (
	"time"

	"github.com/yndnr/nsremover/internal/storage"
)

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:7080"
	DefaultRateLimit       = 5.0
	DefaultRateBurst       = 10
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 5 * time.Minute
	DefaultShutdownTimeout = 30 * time.Second

	DefaultEngine  = storage.EngineBadger
	DefaultDataDir = "/var/lib/nsremover/ledger"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
// Namespaces have no default and must be configured.
func Default() *ServerConfig {
	badger := storage.DefaultBadgerConfig()
	bolt := storage.DefaultBoltConfig()

	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				RateLimit:       DefaultRateLimit,
				RateBurst:       DefaultRateBurst,
				EnableAudit:     true,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
		},
		Storage: StorageSection{
			Engine:  DefaultEngine,
			DataDir: DefaultDataDir,
			Badger: BadgerSection{
				GCInterval:       badger.GCInterval,
				GCThreshold:      badger.GCThreshold,
				CacheSize:        badger.CacheSize,
				ValueLogFileSize: badger.ValueLogFileSize,
				NumMemtables:     badger.NumMemtables,
				SyncWrites:       badger.SyncWrites,
			},
			Bolt: BoltSection{
				Bucket:      bolt.Bucket,
				PageSize:    bolt.PageSize,
				OpenTimeout: bolt.OpenTimeout,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

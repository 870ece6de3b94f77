package config

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/yndnr/nsremover/internal/storage"
)

// ServerConfig is the root configuration for nsremover-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`

	// Namespaces are registered once at startup. At least one is required.
	Namespaces []string `koanf:"namespaces"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`

	// RateLimit is the sustained requests per second accepted on the
	// invoke route. Zero disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// TrustedProxies lists the addresses or CIDRs whose X-Forwarded-For
	// and X-Real-IP headers are believed. Empty means the peer address is
	// always the client.
	TrustedProxies []string `koanf:"trusted_proxies"`

	EnableAudit     bool          `koanf:"enable_audit"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StorageSection selects and tunes the ledger engine.
type StorageSection struct {
	Engine  string        `koanf:"engine"`
	DataDir string        `koanf:"data_dir"`
	Badger  BadgerSection `koanf:"badger"`
	Bolt    BoltSection   `koanf:"bolt"`
}

// BadgerSection tunes the badger engine.
type BadgerSection struct {
	GCInterval       string  `koanf:"gc_interval"`
	GCThreshold      float64 `koanf:"gc_threshold"`
	CacheSize        int64   `koanf:"cache_size"`
	ValueLogFileSize int64   `koanf:"value_log_file_size"`
	NumMemtables     int     `koanf:"num_memtables"`
	SyncWrites       bool    `koanf:"sync_writes"`
}

// BoltSection tunes the bbolt engine.
type BoltSection struct {
	Bucket      string `koanf:"bucket"`
	PageSize    int    `koanf:"page_size"`
	OpenTimeout string `koanf:"open_timeout"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// KVConfig converts the storage section to the engine configuration.
func (s StorageSection) KVConfig() storage.KVConfig {
	return storage.KVConfig{
		Engine: s.Engine,
		Dir:    s.DataDir,
		Badger: storage.BadgerConfig{
			GCInterval:       s.Badger.GCInterval,
			GCThreshold:      s.Badger.GCThreshold,
			CacheSize:        s.Badger.CacheSize,
			ValueLogFileSize: s.Badger.ValueLogFileSize,
			NumMemtables:     s.Badger.NumMemtables,
			SyncWrites:       s.Badger.SyncWrites,
		},
		Bolt: storage.BoltConfig{
			Bucket:      s.Bolt.Bucket,
			PageSize:    s.Bolt.PageSize,
			OpenTimeout: s.Bolt.OpenTimeout,
		},
	}
}

// TrustedProxyPrefixes parses TrustedProxies. A bare address is treated as
// a single-host prefix.
func (c HTTPConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, s := range c.TrustedProxies {
		if p, err := netip.ParsePrefix(s); err == nil {
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q is neither an address nor a CIDR", s)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

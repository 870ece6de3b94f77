package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Server struct {
		HTTP struct {
			Addr      string `koanf:"addr"`
			RateLimit int    `koanf:"rate_limit"`
		} `koanf:"http"`
	} `koanf:"server"`
	Storage struct {
		DataDir string `koanf:"data_dir"`
	} `koanf:"storage"`
	Namespaces []string `koanf:"namespaces"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
		WithListKeys("namespaces"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.filePath != "/path/to/config.yaml" {
		t.Errorf("filePath = %q", l.filePath)
	}
	if !l.listKeys["namespaces"] {
		t.Error("namespaces should be a list key")
	}
	if NewLoader().envPrefix != DefaultEnvPrefix {
		t.Error("default prefix not applied")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  http:
    addr: "0.0.0.0:8080"
namespaces: [a, b]
`)

	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if addr := l.GetString("server.http.addr"); addr != "0.0.0.0:8080" {
		t.Errorf("server.http.addr = %q", addr)
	}
	if ns := l.GetStrings("namespaces"); len(ns) != 2 || ns[1] != "b" {
		t.Errorf("namespaces = %v", ns)
	}

	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should fail for a missing file")
	}
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") error = %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("NSREMOVER_SERVER__HTTP__ADDR", "127.0.0.1:9000")
	t.Setenv("NSREMOVER_STORAGE__DATA_DIR", "/var/lib/nsremover")
	t.Setenv("NSREMOVER_NAMESPACES", "a, b,,c")

	l := NewLoader(WithListKeys("namespaces"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if addr := l.GetString("server.http.addr"); addr != "127.0.0.1:9000" {
		t.Errorf("server.http.addr = %q", addr)
	}
	if dir := l.GetString("storage.data_dir"); dir != "/var/lib/nsremover" {
		t.Errorf("storage.data_dir = %q", dir)
	}
	ns := l.GetStrings("namespaces")
	if len(ns) != 3 || ns[0] != "a" || ns[1] != "b" || ns[2] != "c" {
		t.Errorf("namespaces = %q, want [a b c]", ns)
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_SERVER__PORT", "9090")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if port := l.GetInt("server.port"); port != 9090 {
		t.Errorf("server.port = %d, want 9090", port)
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
server:
  http:
    addr: "from-file:8080"
    rate_limit: 10
`)
	t.Setenv("NSREMOVER_SERVER__HTTP__ADDR", "from-env:8080")

	var cfg testConfig
	cfg.Storage.DataDir = "default-dir"

	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTP.Addr != "from-env:8080" {
		t.Errorf("Addr = %q, env should override file", cfg.Server.HTTP.Addr)
	}
	if cfg.Server.HTTP.RateLimit != 10 {
		t.Errorf("RateLimit = %d, want 10", cfg.Server.HTTP.RateLimit)
	}
	if cfg.Storage.DataDir != "default-dir" {
		t.Errorf("DataDir = %q, unset keys must keep defaults", cfg.Storage.DataDir)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() should be true after Load()")
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()
	err := l.LoadMap(map[string]any{
		"storage": map[string]any{"data_dir": "/tmp/ledger"},
		"port":    8080,
	})
	if err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if dir := l.GetString("storage.data_dir"); dir != "/tmp/ledger" {
		t.Errorf("storage.data_dir = %q", dir)
	}
	if port := l.GetInt("port"); port != 8080 {
		t.Errorf("port = %d", port)
	}
	if len(l.Keys()) != 2 {
		t.Errorf("Keys() = %v", l.Keys())
	}
}

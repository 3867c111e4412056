package confloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/docmesh-go/internal/server/config"
)

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.filePath != "/path/to/config.yaml" {
		t.Errorf("filePath = %q, want %q", l.filePath, "/path/to/config.yaml")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  http:
    addr: "0.0.0.0:5180"
  ws:
    path: "/realtime"
storage:
  backend: "memory"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader()
	if err := l.LoadFile(configPath); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if addr := l.GetString("server.http.addr"); addr != "0.0.0.0:5180" {
		t.Errorf("server.http.addr = %q, want %q", addr, "0.0.0.0:5180")
	}
	if path := l.GetString("server.ws.path"); path != "/realtime" {
		t.Errorf("server.ws.path = %q, want %q", path, "/realtime")
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	err := l.LoadFile("/nonexistent/config.yaml")
	if err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	// Empty path should not error
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("DOCMESH_SERVER_HTTP_ADDR", "127.0.0.1:8080")
	t.Setenv("DOCMESH_LOG_LEVEL", "debug")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if addr := l.GetString("server.http.addr"); addr != "127.0.0.1:8080" {
		t.Errorf("server.http.addr = %q, want %q", addr, "127.0.0.1:8080")
	}
	if level := l.GetString("log.level"); level != "debug" {
		t.Errorf("log.level = %q, want %q", level, "debug")
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_SERVER_PORT", "9090")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if port := l.GetString("server.port"); port != "9090" {
		t.Errorf("server.port = %q, want %q", port, "9090")
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()

	data := map[string]any{
		"server.http.addr": "localhost:3000",
		"log.format":       "text",
	}

	if err := l.LoadMap(data); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if addr := l.GetString("server.http.addr"); addr != "localhost:3000" {
		t.Errorf("server.http.addr = %q, want %q", addr, "localhost:3000")
	}
}

func TestLoader_Load_FileAndEnvPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
server:
  http:
    addr: "file-wins:1"
log:
  level: "warn"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	// Env overrides file for the same key.
	t.Setenv("DOCMESH_SERVER_HTTP_ADDR", "env-wins:2")

	cfg := config.Default()
	l := NewLoader(WithConfigFile(configPath))
	if err := l.Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTP.Addr != "env-wins:2" {
		t.Errorf("HTTP.Addr = %q, want env value", cfg.Server.HTTP.Addr)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want file value warn", cfg.Log.Level)
	}
	// Keys absent from both sources keep their defaults.
	if cfg.Server.WS.Path != config.DefaultWSPath {
		t.Errorf("WS.Path = %q, want default %q", cfg.Server.WS.Path, config.DefaultWSPath)
	}

	if !l.IsLoaded() {
		t.Error("IsLoaded() = false after successful Load")
	}
}

func TestLoader_Unmarshal_ServerConfig(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{
		"storage.backend":         "memory",
		"realtime.edit_rate":      50.0,
		"realtime.edit_burst":     100,
		"realtime.flush_interval": "5s",
	}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	cfg := config.Default()
	if err := l.Unmarshal(cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Realtime.EditRate != 50.0 {
		t.Errorf("EditRate = %v, want 50", cfg.Realtime.EditRate)
	}
	if cfg.Realtime.EditBurst != 100 {
		t.Errorf("EditBurst = %d, want 100", cfg.Realtime.EditBurst)
	}
	if cfg.Realtime.FlushInterval.Seconds() != 5 {
		t.Errorf("FlushInterval = %v, want 5s", cfg.Realtime.FlushInterval)
	}
}

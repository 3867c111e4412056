// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for docmesh-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Storage  StorageSection  `koanf:"storage"`
	Realtime RealtimeSection `koanf:"realtime"`
	Security SecuritySection `koanf:"security"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP  HTTPConfig  `koanf:"http"`
	WS    WSConfig    `koanf:"ws"`
	Local LocalConfig `koanf:"local"`
}

// HTTPConfig configures the HTTP server. The realtime websocket
// endpoint shares this listener.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`
}

// WSConfig configures the websocket gateway.
type WSConfig struct {
	// Path is the upgrade endpoint path.
	Path string `koanf:"path"`

	// AllowedOrigins lists Origin header values accepted for upgrade.
	// Empty means same-origin only; "*" accepts any origin.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// LocalConfig configures the local management socket.
type LocalConfig struct {
	Path string `koanf:"path"`
}

// StorageSection configures storage behavior.
type StorageSection struct {
	// Backend selects the document store: "badger" or "memory".
	Backend string `koanf:"backend"`

	// DataDir is the badger database directory. Ignored for the
	// memory backend.
	DataDir string `koanf:"data_dir"`

	// SyncWrites forces fsync on every write.
	SyncWrites bool `koanf:"sync_writes"`

	// GCInterval is the badger value-log garbage collection cadence.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// RealtimeSection configures the collaborative editing engine.
type RealtimeSection struct {
	// FlushInterval is the retry cadence for failed snapshot writes.
	FlushInterval time.Duration `koanf:"flush_interval"`

	// EditRate is the sustained per-connection inbound message budget
	// (messages per second).
	EditRate float64 `koanf:"edit_rate"`

	// EditBurst is the per-connection burst allowance.
	EditBurst int `koanf:"edit_burst"`
}

// SecuritySection configures security settings.
type SecuritySection struct {
	// EncryptionKey enables at-rest encryption of document content
	// when non-empty.
	EncryptionKey string `koanf:"encryption_key"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr    = "127.0.0.1:5180"
	DefaultWSPath      = "/ws"
	DefaultLocalSocket = "/var/run/docmesh-server/docmesh-server.sock"

	DefaultStorageBackend = "badger"
	DefaultDataDir        = "/var/lib/docmesh-server/data"
	DefaultGCInterval     = 10 * time.Minute

	DefaultFlushInterval = 2 * time.Second
	DefaultEditRate      = 200.0
	DefaultEditBurst     = 400

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
			WS: WSConfig{
				Path: DefaultWSPath,
			},
			Local: LocalConfig{
				Path: DefaultLocalSocket,
			},
		},
		Storage: StorageSection{
			Backend:    DefaultStorageBackend,
			DataDir:    DefaultDataDir,
			SyncWrites: true,
			GCInterval: DefaultGCInterval,
		},
		Realtime: RealtimeSection{
			FlushInterval: DefaultFlushInterval,
			EditRate:      DefaultEditRate,
			EditBurst:     DefaultEditBurst,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

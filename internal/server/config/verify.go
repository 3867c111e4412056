// Package config defines the server configuration structure.
package config

import (
	"errors"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyRealtime(&cfg.Realtime)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	if cfg.WS.Path == "" || cfg.WS.Path[0] != '/' {
		return errors.New("server.ws.path must start with /")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Backend {
	case "memory":
		return nil
	case "badger":
	default:
		return errors.New("storage.backend must be badger or memory")
	}

	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}

	// Check if data directory exists or can be created
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}
	return nil
}

func verifyRealtime(cfg *RealtimeSection) error {
	if cfg.FlushInterval < 0 {
		return errors.New("realtime.flush_interval must not be negative")
	}
	if cfg.EditRate < 0 {
		return errors.New("realtime.edit_rate must not be negative")
	}
	if cfg.EditBurst < 0 {
		return errors.New("realtime.edit_burst must not be negative")
	}
	return nil
}

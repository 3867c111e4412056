// Package main provides the entry point for docmesh-server.
//
// docmesh-server is the core service process for DocMesh, a realtime
// collaborative document editing backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/docmesh-go/internal/core/service"
	"github.com/yndnr/docmesh-go/internal/infra/buildinfo"
	"github.com/yndnr/docmesh-go/internal/infra/confloader"
	"github.com/yndnr/docmesh-go/internal/infra/shutdown"
	"github.com/yndnr/docmesh-go/internal/realtime"
	"github.com/yndnr/docmesh-go/internal/server/config"
	"github.com/yndnr/docmesh-go/internal/server/httpserver"
	"github.com/yndnr/docmesh-go/internal/server/localserver"
	"github.com/yndnr/docmesh-go/internal/server/wsserver"
	"github.com/yndnr/docmesh-go/internal/storage"
	"github.com/yndnr/docmesh-go/internal/telemetry/logger"
	"github.com/yndnr/docmesh-go/internal/telemetry/metric"
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
		fmt.Printf("docmesh-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slogLogger := log.Slog()

	log.Info("starting docmesh-server",
		"version", buildinfo.Get().Version,
		"commit", buildinfo.Get().Commit,
		"config", *configFile)

	store, err := initStorage(cfg, slogLogger)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	metrics := metric.NewRegistry()

	hub := realtime.NewHub(realtime.HubConfig{
		Store:         store,
		FlushInterval: cfg.Realtime.FlushInterval,
		Metrics:       metrics,
		Logger:        slogLogger,
	})

	docSvc := service.NewDocumentService(store, hub.Autosaver(), metrics, slogLogger)

	gateway := wsserver.NewGateway(wsserver.GatewayConfig{
		Hub:            hub,
		AllowedOrigins: cfg.Server.WS.AllowedOrigins,
		EditRate:       cfg.Realtime.EditRate,
		EditBurst:      cfg.Realtime.EditBurst,
		Metrics:        metrics,
		Logger:         slogLogger,
	})

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		DocumentService:    docSvc,
		Rooms:              hub.Registry(),
		Metrics:            metrics,
		Logger:             slogLogger,
		CORSAllowedOrigins: cfg.Server.WS.AllowedOrigins,
		Realtime:           gateway,
		RealtimePath:       cfg.Server.WS.Path,
	})

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router)

	localHandler := localserver.NewHandler(hub.Registry(), hub.Autosaver(), store)
	localServer := localserver.New(cfg.Server.Local.Path, localHandler)

	shutdownHandler := shutdown.NewHandler(30*time.Second, slogLogger)

	// Hooks run in reverse registration order: listeners close first,
	// then the hub flushes pending saves, then the store closes.
	shutdownHandler.OnShutdown("document store", func(ctx context.Context) error {
		return store.Close()
	})
	shutdownHandler.OnShutdown("realtime hub", func(ctx context.Context) error {
		return hub.Close()
	})
	shutdownHandler.OnShutdown("http server", httpServer.Shutdown)
	shutdownHandler.OnShutdown("local server", localServer.Shutdown)

	go func() {
		log.Info("HTTP server listening",
			"addr", cfg.Server.HTTP.Addr,
			"ws_path", cfg.Server.WS.Path)

		var err error
		if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	if cfg.Server.Local.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Server.Local.Path), 0750); err != nil {
			return fmt.Errorf("create socket directory: %w", err)
		}
		go func() {
			log.Info("local server listening", "path", cfg.Server.Local.Path)
			if err := localServer.ListenAndServe(); err != nil {
				log.Error("local server error", "error", err)
			}
		}()
	}

	if *configFile != "" {
		watcher, err := startConfigWatcher(*configFile, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config watcher", func(ctx context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// initStorage initializes the configured document store.
func initStorage(cfg *config.ServerConfig, log *slog.Logger) (storage.DocumentStore, error) {
	switch cfg.Storage.Backend {
	case "memory":
		log.Warn("using in-memory storage, documents will not survive restarts")
		return storage.NewMemoryStore(), nil
	default:
		badgerCfg := storage.DefaultBadgerConfig(cfg.Storage.DataDir)
		badgerCfg.SyncWrites = cfg.Storage.SyncWrites
		badgerCfg.EncryptionKey = cfg.Security.EncryptionKey
		badgerCfg.Logger = log
		if cfg.Storage.GCInterval > 0 {
			badgerCfg.GCInterval = cfg.Storage.GCInterval
		}
		return storage.NewBadgerStore(badgerCfg)
	}
}

// startConfigWatcher watches the config file and applies the log level
// on change. Other settings require a restart.
func startConfigWatcher(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(configFile)
		if err != nil {
			log.Warn("config reload failed, keeping current settings", "error", err)
			return
		}
		logger.SetLevel(cfg.Log.Level)
		log.Info("config reloaded", "log_level", cfg.Log.Level)
	})

	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.StartAsync()
	return watcher, nil
}

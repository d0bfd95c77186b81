package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yndnr/tokauth/internal/core/service"
	"github.com/yndnr/tokauth/internal/infra/buildinfo"
	"github.com/yndnr/tokauth/internal/infra/confloader"
	"github.com/yndnr/tokauth/internal/infra/shutdown"
	"github.com/yndnr/tokauth/internal/server/config"
	"github.com/yndnr/tokauth/internal/server/httpserver"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/internal/telemetry/metric"
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
		migrateDown = flag.Bool("migrate-down", false, "Roll back all Postgres migrations and exit")
	)
	flag.Parse()

	info := buildinfo.Get()
	if *showVersion {
		fmt.Println("tokauth-server " + buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	logger.SetDefault(log)

	log.Info("starting tokauth-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	if *migrateDown {
		return rollbackSchema(cfg, log)
	}

	reg := metric.NewRegistry()

	ctx := context.Background()
	stores, err := openStores(ctx, cfg, log, reg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	auth := service.NewAuthService(stores.Credentials, stores.Tokens)

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Auth:               auth,
		Logger:             log,
		Metrics:            reg,
		Ready:              stores.Ready,
		CORSAllowedOrigins: cfg.Server.HTTP.CORSOrigins,
		Version:            info.Version,
		Backend:            cfg.Storage.Backend,
	})

	srv := httpserver.New(httpserver.Options{
		Addr:         cfg.Server.HTTP.Addr,
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
		TLSCertFile:  cfg.Server.HTTP.TLSCertFile,
		TLSKeyFile:   cfg.Server.HTTP.TLSKeyFile,
	}, router)

	ln, err := srv.Listen()
	if err != nil {
		_ = stores.Close()
		return fmt.Errorf("listen: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout, log.Slog())

	// Hooks run in reverse registration order: HTTP first, storage last.
	shutdownHandler.OnShutdown("storage", func(context.Context) error {
		return stores.Close()
	})
	shutdownHandler.OnShutdown("http", srv.Shutdown)

	if *configFile != "" {
		w, err := watchConfig(*configFile, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return w.Stop()
			})
		}
	}

	go func() {
		log.Info("HTTP server listening",
			"addr", ln.Addr().String(),
			"tls", srv.TLS(),
			"backend", cfg.Storage.Backend)
		if err := srv.Serve(ln); err != nil {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig layers defaults, the optional config file and TOKAUTH_*
// environment variables, then validates the result.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithKnownKeys(confloader.KeysOf(cfg))}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// watchConfig reapplies log.level whenever the config file changes. Other
// settings need a restart.
func watchConfig(path string, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.OnChange(func(string) { reloadLogLevel(path, log) })
	w.StartAsync()
	return w, nil
}

func reloadLogLevel(path string, log logger.Logger) {
	cfg, err := loadConfig(path)
	if err != nil {
		log.Warn("config reload rejected", "error", err)
		return
	}
	if prev := logger.GetLevel(); prev != cfg.Log.Level {
		logger.SetLevel(cfg.Log.Level)
		log.Info("log level changed", "from", prev, "to", cfg.Log.Level)
	}
}

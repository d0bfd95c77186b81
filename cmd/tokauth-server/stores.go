package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yndnr/tokauth/internal/core/service"
	"github.com/yndnr/tokauth/internal/server/config"
	"github.com/yndnr/tokauth/internal/server/httpserver/handler"
	"github.com/yndnr/tokauth/internal/storage"
	"github.com/yndnr/tokauth/internal/storage/kv"
	"github.com/yndnr/tokauth/internal/storage/memory"
	"github.com/yndnr/tokauth/internal/storage/postgres"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/internal/telemetry/metric"
	"github.com/yndnr/tokauth/pkg/password"
	"github.com/yndnr/tokauth/pkg/token"
)

// readyKey is read by the Badger readiness check. It is never written, so a
// healthy engine answers ErrKeyNotFound.
var readyKey = []byte("tokauth:ready")

// Stores is the storage backend selected by storage.backend.
type Stores struct {
	Credentials service.CredentialStore
	Tokens      service.TokenStore
	Ready       handler.ReadyFunc

	closers []func() error
}

// Close releases the backend in reverse order of acquisition.
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

func openStores(ctx context.Context, cfg *config.ServerConfig, log logger.Logger, reg *metric.Registry) (*Stores, error) {
	switch strings.ToLower(cfg.Storage.Backend) {
	case config.BackendMemory:
		return openMemory(reg)
	case config.BackendBadger:
		return openBadger(cfg, log, reg)
	case config.BackendPostgres:
		return openPostgres(ctx, cfg, log)
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}

func hasher(cfg *config.ServerConfig) *password.Hasher {
	p := password.DefaultParams()
	a := cfg.Security.Argon2
	if a.Time > 0 {
		p.Time = a.Time
	}
	if a.MemoryKiB > 0 {
		p.Memory = a.MemoryKiB
	}
	if a.Threads > 0 {
		p.Threads = a.Threads
	}
	return password.NewHasher(p)
}

func openMemory(reg *metric.Registry) (*Stores, error) {
	creds := memory.NewCredentialStore()
	tokens := memory.NewTokenStore()

	if reg != nil {
		err := reg.Prometheus().Register(metric.NewStoreCollector(config.BackendMemory, map[string]metric.Sizer{
			"credentials": creds,
			"tokens":      tokens,
		}))
		if err != nil {
			return nil, fmt.Errorf("register store metrics: %w", err)
		}
	}
	return &Stores{Credentials: creds, Tokens: tokens}, nil
}

func openBadger(cfg *config.ServerConfig, log logger.Logger, reg *metric.Registry) (*Stores, error) {
	bc := storage.DefaultBadgerConfig(cfg.Storage.Badger.Dir)
	bc.SyncWrites = cfg.Storage.Badger.SyncWrites
	bc.GCInterval = cfg.Storage.Badger.GCInterval
	if r := cfg.Storage.Badger.GCDiscardRatio; r > 0 {
		bc.GCDiscardRatio = r
	}

	engine, err := storage.NewBadgerEngine(bc, log.Slog())
	if err != nil {
		return nil, err
	}
	if reg != nil {
		if err := engine.RegisterMetrics(reg.Prometheus()); err != nil {
			_ = engine.Close()
			return nil, err
		}
	}

	return &Stores{
		Credentials: kv.NewCredentialStore(engine, hasher(cfg), log),
		Tokens:      kv.NewTokenStore(engine, token.NewOpaque, log),
		Ready:       kvReady(engine),
		closers:     []func() error{engine.Close},
	}, nil
}

// kvReady checks the engine with a point read.
func kvReady(engine storage.KVEngine) handler.ReadyFunc {
	return func(ctx context.Context) error {
		_, err := engine.Get(ctx, readyKey)
		if err == nil || errors.Is(err, storage.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("storage: readiness read: %w", err)
	}
}

func openPostgres(ctx context.Context, cfg *config.ServerConfig, log logger.Logger) (*Stores, error) {
	pc := cfg.Storage.Postgres
	pool, err := postgres.Connect(ctx, postgres.Config{
		DSN:            pc.DSN,
		MaxConns:       pc.MaxConns,
		ConnectRetries: pc.ConnectRetries,
		ConnectBackoff: pc.ConnectBackoff,
	}, log)
	if err != nil {
		return nil, err
	}

	// Connect has already waited for the database to come up.
	if pc.AutoMigrate {
		if err := migrate(pc.DSN, log); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &Stores{
		Credentials: postgres.NewCredentialStore(pool, hasher(cfg), log),
		Tokens:      postgres.NewTokenStore(pool, token.NewOpaque, log),
		Ready:       pool.Ping,
		closers:     []func() error{func() error { pool.Close(); return nil }},
	}, nil
}

// rollbackSchema reverts every Postgres migration, dropping all stored
// credentials and tokens.
func rollbackSchema(cfg *config.ServerConfig, log logger.Logger) error {
	if !strings.EqualFold(cfg.Storage.Backend, config.BackendPostgres) {
		return fmt.Errorf("migrate-down requires the %s backend, got %q", config.BackendPostgres, cfg.Storage.Backend)
	}

	m, err := postgres.NewMigrator(cfg.Storage.Postgres.DSN)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil {
		return err
	}
	log.Warn("postgres schema rolled back")
	return nil
}

func migrate(dsn string, log logger.Logger) error {
	m, err := postgres.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		return err
	}
	if v, dirty, err := m.Version(); err == nil {
		log.Info("postgres schema migrated", "version", v, "dirty", dirty)
	}
	return nil
}

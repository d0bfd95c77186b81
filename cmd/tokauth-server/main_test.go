package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/tokauth/internal/core/domain"
	"github.com/yndnr/tokauth/internal/core/service"
	"github.com/yndnr/tokauth/internal/server/config"
	"github.com/yndnr/tokauth/internal/storage"
	"github.com/yndnr/tokauth/internal/telemetry/logger"
	"github.com/yndnr/tokauth/internal/telemetry/metric"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultHTTPAddr, cfg.Server.HTTP.Addr)
	assert.Equal(t, config.BackendMemory, cfg.Storage.Backend)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
server:
  http:
    addr: 127.0.0.1:6080
    shutdown_timeout: 3s
storage:
  backend: badger
  badger:
    dir: `+filepath.Join(dir, "data")+`
log:
  level: warn
`)
	t.Setenv("TOKAUTH_LOG_LEVEL", "debug")
	t.Setenv("TOKAUTH_STORAGE_BADGER_GC_DISCARD_RATIO", "0.7")

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:6080", cfg.Server.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.HTTP.ShutdownTimeout)
	assert.Equal(t, config.BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, "debug", cfg.Log.Level, "env overrides file")
	assert.InDelta(t, 0.7, cfg.Storage.Badger.GCDiscardRatio, 1e-9)
	assert.Equal(t, config.DefaultLogFormat, cfg.Log.Format, "unset keys keep defaults")
	assert.DirExists(t, filepath.Join(dir, "data"))
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := writeConfig(t, "storage:\n  backend: cassandra\n")
	_, err := loadConfig(path)
	assert.ErrorContains(t, err, "invalid configuration")
}

func exerciseStores(t *testing.T, s *Stores) {
	t.Helper()
	ctx := context.Background()
	auth := service.NewAuthService(s.Credentials, s.Tokens)

	creds := domain.Credentials{Username: "alice", Password: "pw"}
	require.True(t, auth.Register(ctx, creds))
	require.False(t, auth.Register(ctx, creds))

	tok, ok := auth.Login(ctx, creds)
	require.True(t, ok)

	user, ok := auth.Authenticate(ctx, tok)
	require.True(t, ok)
	assert.Equal(t, "alice", user)

	if s.Ready != nil {
		assert.NoError(t, s.Ready(ctx))
	}
}

func TestOpenStores_Memory(t *testing.T) {
	cfg := config.Default()
	reg := metric.NewRegistry()

	s, err := openStores(context.Background(), cfg, logger.Nop(), reg)
	require.NoError(t, err)
	defer s.Close()

	exerciseStores(t, s)

	n, err := testutil.GatherAndCount(reg.Prometheus(), "tokauth_store_entries")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestOpenStores_Badger(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendBadger
	cfg.Storage.Badger.Dir = t.TempDir()
	cfg.Storage.Badger.GCInterval = 0
	cfg.Security.Argon2.MemoryKiB = 1024

	s, err := openStores(context.Background(), cfg, logger.Nop(), metric.NewRegistry())
	require.NoError(t, err)

	exerciseStores(t, s)
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Ready(context.Background()), storage.ErrClosed)
}

// failingEngine is a KVEngine whose reads fail.
type failingEngine struct {
	storage.KVEngine
	err error
}

func (f failingEngine) Get(context.Context, []byte) ([]byte, error) {
	return nil, f.err
}

func TestKVReady(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, kvReady(failingEngine{err: storage.ErrKeyNotFound})(ctx))

	ioErr := errors.New("value log truncated")
	err := kvReady(failingEngine{err: ioErr})(ctx)
	assert.ErrorIs(t, err, ioErr)
}

func TestRollbackSchema_RequiresPostgres(t *testing.T) {
	cfg := config.Default()
	err := rollbackSchema(cfg, logger.Nop())
	assert.ErrorContains(t, err, "requires the postgres backend")
}

func TestOpenStores_Unknown(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = "cassandra"
	_, err := openStores(context.Background(), cfg, logger.Nop(), nil)
	assert.Error(t, err)
}

func TestReloadLogLevel(t *testing.T) {
	log := logger.New(logger.Config{Level: "info", Output: os.Stderr})
	path := writeConfig(t, "log:\n  level: error\n")

	reloadLogLevel(path, log)
	assert.Equal(t, "error", logger.GetLevel())

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600))
	reloadLogLevel(path, log)
	assert.Equal(t, "error", logger.GetLevel(), "invalid config is ignored")

	logger.SetLevel("info")
}

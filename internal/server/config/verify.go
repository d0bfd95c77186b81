package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/yndnr/tokauth/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyHTTP(&cfg.Server.HTTP); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyHTTP(cfg *HTTPConfig) error {
	if cfg.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("server.http.addr: %w", err)
	}

	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return errors.New("server.http.tls_cert_file and tls_key_file must be set together")
	}
	for _, f := range []string{cfg.TLSCertFile, cfg.TLSKeyFile} {
		if f == "" {
			continue
		}
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("server.http tls file: %w", err)
		}
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch strings.ToLower(cfg.Backend) {
	case BackendMemory:
		return nil
	case BackendBadger:
		if cfg.Badger.Dir == "" {
			return errors.New("storage.badger.dir is required")
		}
		if err := os.MkdirAll(cfg.Badger.Dir, 0o750); err != nil {
			return fmt.Errorf("cannot create badger directory: %w", err)
		}
		if r := cfg.Badger.GCDiscardRatio; r <= 0 || r >= 1 {
			return errors.New("storage.badger.gc_discard_ratio must be between 0 and 1")
		}
		return nil
	case BackendPostgres:
		if cfg.Postgres.DSN == "" {
			return errors.New("storage.postgres.dsn is required")
		}
		return nil
	default:
		return fmt.Errorf("storage.backend %q is not one of memory, badger, postgres", cfg.Backend)
	}
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
		return nil
	}
	return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
}

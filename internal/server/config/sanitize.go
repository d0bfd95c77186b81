package config

import "github.com/yndnr/tokauth/internal/telemetry/logger"

// Sanitize returns a copy of the config with secrets masked, for logging.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	sanitized.Storage.Postgres.DSN = logger.RedactDSN(cfg.Storage.Postgres.DSN)
	return &sanitized
}

// Package config provides the tokauth-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation after loading
//   - sanitize.go: a copy safe to log
//
// Configuration is loaded through internal/infra/confloader from a YAML
// file and TOKAUTH_* environment variables, in that order of precedence
// over the defaults.
package config

// Package config manages the tokauth-cli settings file
// (~/.tokauth/cli.yaml): the default server, the default output format
// and the token saved by "login --save".
package config

// Package main provides the entry point for tokauth-cli.
//
// tokauth-cli registers accounts, logs in and checks tokens against a
// running tokauth-server.
//
// Usage:
//
//	tokauth-cli register -u alice --password-stdin
//	tokauth-cli login -u alice -p secret --save
//	tokauth-cli whoami
package main

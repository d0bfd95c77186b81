// Package buildinfo exposes version information for tokauth binaries.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/tokauth/internal/infra/buildinfo.Version=v1.0.0"
//
// When ldflags are absent, the commit and Go version fall back to the data
// embedded by the Go toolchain.
package buildinfo

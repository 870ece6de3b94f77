// Package buildinfo exposes build information for nsremover binaries.
//
// Values are injected via ldflags; missing values fall back to the module
// build info embedded by the Go toolchain:
//
//	go build -ldflags "-X github.com/yndnr/nsremover/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo

// Package config provides the nsremover-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation
//   - reload.go: Loading and hot-reload comparison
//
// Configuration is loaded via internal/infra/confloader from a YAML file
// and NSREMOVER_ environment variables.
package config

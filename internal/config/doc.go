// Package config loads application configuration from environment
// variables with defaults suitable for local development.
package config

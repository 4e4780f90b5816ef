// Package config loads application configuration from environment
// variables with sensible defaults and validates it at startup.
package config

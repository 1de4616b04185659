// Package config provides centralized configuration management for the
// transform service. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration values
// throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern TRANSFORM_* for namespacing:
//
//	TRANSFORM_SERVER_PORT=8080
//	TRANSFORM_LOGGING_LEVEL=info
//	TRANSFORM_EXTRACT_BASE_URL=http://extract:8000
//	TRANSFORM_PIPELINE_MAX_BATCH_SIZE=10000
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The Pipeline section carries the default batch configuration; individual
// transform requests may override its fields per call.
package config

// Package config loads the service configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// The file is taken from AGEHEAP_CONFIG when set, otherwise from config.yaml
// or configs/config.yaml in the working directory.
//
// # Environment Variables
//
// Variables are namespaced by AGEHEAP and the section name:
//
//	AGEHEAP_SERVER_PORT=8080
//	AGEHEAP_UPLOAD_DIR=/var/lib/ageheap/uploads
//	AGEHEAP_UPLOAD_MAX_BYTES=16777216
//	AGEHEAP_LOGGING_LEVEL=debug
//	AGEHEAP_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests use Default, which needs no environment or files.
package config

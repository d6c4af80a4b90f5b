package config

import "ageheap/pkg/contracts"

// Application constants
const (
	AppName    = "ageheap"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. AGEHEAP_SERVER_PORT.
	EnvPrefix = "AGEHEAP"

	// Uploads
	DefaultUploadDir      = "uploads"
	DefaultMaxUploadBytes = 16 * 1024 * 1024 // 16MB

	// Logs
	DefaultLogFile = "logs/ageheap.log"
)

package mbaas

import "os"

// Environment variables read by the command line tool and tests.
const (
	EnvEndpoint = "MBAAS_ENDPOINT"
	EnvCacheDir = "MBAAS_CACHE_DIR"
)

// GetEnvOrDefault returns the value of key, or defaultValue when it is unset or empty.
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

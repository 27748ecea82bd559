package config

import "os"

type Config struct {
	Port          string
	StorageDriver string
	DatabaseURL   string
	SQLitePath    string
	LogLevel      string
	OTLPEndpoint  string
}

// Load reads configuration from the environment, applying defaults for
// anything unset. DATABASE_URL is only consulted when STORAGE_DRIVER is
// "postgres" and is validated at startup.
func Load() Config {
	return Config{
		Port:          getenv("PORT", "4000"),
		StorageDriver: getenv("STORAGE_DRIVER", "sqlite"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    getenv("SQLITE_PATH", "blog.db"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Config is read once from the environment at startup.
type Config struct {
	APIURL         string
	APITimeout     time.Duration
	Debounce       time.Duration
	ResizeDebounce time.Duration
	HealthInterval time.Duration
	LogLevel       string
	LogDir         string
	ExportDir      string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
	RenderWorkers  int
}

func Load() Config {
	return Config{
		APIURL:         EnvOr("SONOVIZ_API_URL", "http://localhost:8000"),
		APITimeout:     time.Duration(EnvIntOr("SONOVIZ_API_TIMEOUT", 30)) * time.Second,
		Debounce:       time.Duration(EnvIntOr("SONOVIZ_DEBOUNCE_MS", 300)) * time.Millisecond,
		ResizeDebounce: time.Duration(EnvIntOr("SONOVIZ_RESIZE_DEBOUNCE_MS", 150)) * time.Millisecond,
		HealthInterval: time.Duration(EnvIntOr("SONOVIZ_HEALTH_INTERVAL", 30)) * time.Second,
		LogLevel:       EnvOr("SONOVIZ_LOG_LEVEL", "info"),
		LogDir:         EnvOr("SONOVIZ_LOG_DIR", defaultLogDir()),
		ExportDir:      EnvOr("SONOVIZ_EXPORT_DIR", "."),
		S3Region:       EnvOr("SONOVIZ_S3_REGION", "us-east-1"),
		S3Endpoint:     EnvOr("SONOVIZ_S3_ENDPOINT", ""),
		S3AccessKey:    EnvOr("SONOVIZ_S3_ACCESS_KEY", ""),
		S3SecretKey:    EnvOr("SONOVIZ_S3_SECRET_KEY", ""),
		RenderWorkers:  EnvIntOr("SONOVIZ_RENDER_WORKERS", runtime.NumCPU()),
	}
}

// EnvOr returns the trimmed env value or def when empty.
func EnvOr(key, def string) string {
	v := strings.TrimSpace(strings.Trim(os.Getenv(key), `"`))
	if v == "" {
		return def
	}
	return v
}

// EnvIntOr returns the parsed int env value or def on empty/parse failure.
func EnvIntOr(key string, def int) int {
	v := EnvOr(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "sonoviz", "logs")
	}
	return filepath.Join(home, ".sonoviz", "logs")
}

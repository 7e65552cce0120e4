// Package config reads process configuration from the environment.
// Provider credentials are not here: those live in the settings store
// so they can be edited at runtime.
package config

import "os"

// Config is everything main needs to wire the service.
type Config struct {
	APIBase       string // provider API base URL
	RedisAddr     string // settings store; empty selects the in-memory store
	UploadsDir    string // image cache and feed document root
	PublicBaseURL string // URL prefix the uploads root is served under
	ListenAddr    string // admin API address
	CronSpec      string // ingestion schedule
	S3Bucket      string // optional output mirror
	S3Region      string
	S3Prefix      string
}

// Load reads the environment, applying defaults for everything that
// can reasonably default.
func Load() Config {
	return Config{
		APIBase:       envOrDefault("EFE_API_BASE", ""),
		RedisAddr:     envOrDefault("REDIS_ADDR", ""),
		UploadsDir:    envOrDefault("UPLOADS_DIR", "./uploads"),
		PublicBaseURL: envOrDefault("UPLOADS_PUBLIC_URL", ""),
		ListenAddr:    ":" + envOrDefault("PORT", "8080"),
		CronSpec:      envOrDefault("CRON_SPEC", "@every 1h"),
		S3Bucket:      envOrDefault("S3_BUCKET", ""),
		S3Region:      envOrDefault("S3_REGION", ""),
		S3Prefix:      envOrDefault("S3_PREFIX", ""),
	}
}

func envOrDefault(key, d string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return d
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Remote attendance service
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Scan behavior
	Cooldown        time.Duration
	DisplayDuration time.Duration
	DisplayZone     string // IANA zone name for timestamps on screen

	// Audio
	SoundEnabled bool
	SoundDir     string

	// Optional local scan journal (empty path = disabled)
	DBPath string

	// Journal retention
	JournalRetentionDays int // 0 = keep forever
	PruneIntervalHours   int // how often the pruner runs (default 6)

	// Optional prometheus listener (empty addr = disabled)
	MetricsAddr string
}

func FromEnv() Config {
	return Config{
		APIBaseURL:  getenvDefault("SCANNER_API_BASE_URL", "http://localhost:8000"),
		HTTPTimeout: getenvDuration("SCANNER_HTTP_TIMEOUT", 10*time.Second),

		Cooldown:        getenvDuration("SCANNER_COOLDOWN", 3*time.Second),
		DisplayDuration: getenvDuration("SCANNER_DISPLAY_SECONDS", 5*time.Second),
		DisplayZone:     getenvDefault("SCANNER_DISPLAY_ZONE", "America/Guayaquil"),

		SoundEnabled: getenvBool("SCANNER_SOUND_ENABLED", true),
		SoundDir:     getenvDefault("SCANNER_SOUND_DIR", "."),

		DBPath:               os.Getenv("SCANNER_DB_PATH"),
		JournalRetentionDays: getenvInt("SCANNER_JOURNAL_RETENTION_DAYS", 30),
		PruneIntervalHours:   getenvInt("SCANNER_PRUNE_INTERVAL_HOURS", 6),

		MetricsAddr: os.Getenv("SCANNER_METRICS_ADDR"),
	}
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return strings.EqualFold(v, "true") || v == "1"
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

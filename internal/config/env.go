// Package config handles environment-based configuration loading and the
// calculation profile.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// EnvConfig holds all environment-variable-driven settings (not hot-updatable).
type EnvConfig struct {
	// Directories / paths
	DataDir     string
	DBPath      string
	FeedPath    string
	ProfilePath string

	// Feed refresh
	RefreshSchedule string // cron expression

	// Identity
	HomeBase string // IATA code used for display defaults

	// Night service
	NightWorkers int

	// Import log
	ImportLogQueueSize   int
	ImportLogRetainCount int

	// Rest tracker re-evaluation cadence
	RestTickInterval time.Duration
}

// LoadEnvConfig reads environment variables and returns a validated EnvConfig.
// Returns an error if any value is invalid; all problems are reported at once.
func LoadEnvConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	var errs []string

	// --- Paths ---
	cfg.DataDir = envStr("CREWLOG_DATA_DIR", "/var/lib/crewlog")
	cfg.DBPath = envStr("CREWLOG_DB_PATH", "")
	cfg.FeedPath = strings.TrimSpace(envStr("CREWLOG_FEED_PATH", ""))
	cfg.ProfilePath = strings.TrimSpace(envStr("CREWLOG_PROFILE_PATH", ""))

	// --- Feed refresh ---
	cfg.RefreshSchedule = envStr("CREWLOG_REFRESH_CRON", "*/15 * * * *")

	// --- Identity ---
	cfg.HomeBase = strings.ToUpper(strings.TrimSpace(envStr("CREWLOG_HOME_BASE", "")))

	// --- Night service ---
	cfg.NightWorkers = envInt("CREWLOG_NIGHT_WORKERS", 4, &errs)

	// --- Import log ---
	cfg.ImportLogQueueSize = envInt("CREWLOG_IMPORT_LOG_QUEUE_SIZE", 256, &errs)
	cfg.ImportLogRetainCount = envInt("CREWLOG_IMPORT_LOG_RETAIN_COUNT", 500, &errs)

	// --- Rest tracker ---
	cfg.RestTickInterval = envDuration("CREWLOG_REST_TICK_INTERVAL", time.Minute, &errs)

	// --- Validation ---
	if cfg.DataDir == "" {
		errs = append(errs, "CREWLOG_DATA_DIR must not be empty")
	}
	if _, err := cron.ParseStandard(cfg.RefreshSchedule); err != nil {
		errs = append(errs, fmt.Sprintf("CREWLOG_REFRESH_CRON: invalid cron expression %q: %v", cfg.RefreshSchedule, err))
	}
	if cfg.HomeBase != "" && !isUpperAlpha3or4(cfg.HomeBase) {
		errs = append(errs, fmt.Sprintf("CREWLOG_HOME_BASE: invalid airport code %q", cfg.HomeBase))
	}
	validatePositive("CREWLOG_NIGHT_WORKERS", cfg.NightWorkers, &errs)
	validatePositive("CREWLOG_IMPORT_LOG_QUEUE_SIZE", cfg.ImportLogQueueSize, &errs)
	validatePositive("CREWLOG_IMPORT_LOG_RETAIN_COUNT", cfg.ImportLogRetainCount, &errs)
	if cfg.RestTickInterval <= 0 {
		errs = append(errs, "CREWLOG_REST_TICK_INTERVAL must be positive")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}

	if cfg.DBPath == "" {
		cfg.DBPath = cfg.DataDir + "/crewlog.db"
	}
	return cfg, nil
}

// --- helpers ---

func envStr(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid integer %q", key, v))
		return defaultVal
	}
	return n
}

func envDuration(key string, defaultVal time.Duration, errs *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid duration %q", key, v))
		return defaultVal
	}
	return d
}

func validatePositive(name string, value int, errs *[]string) {
	if value <= 0 {
		*errs = append(*errs, fmt.Sprintf("%s: must be positive, got %d", name, value))
	}
}

func isUpperAlpha3or4(s string) bool {
	if len(s) != 3 && len(s) != 4 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

package archtoolkit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config configures a Client. Use Defaults() and override individual
// fields, then pass the result to New via WithConfig.
type Config struct {
	Timeout            time.Duration
	HealthCheckTimeout time.Duration
	UserAgent          string
	MaxRetries         int
	RetryEnabled       bool
	RetryInitialDelay  time.Duration
	RetryMaxDelay      time.Duration
	Validation         ValidationMode
	CacheMemorySize    int
	CacheDiskEnabled   bool
	CacheDiskDir       string
}

// Defaults returns the documented default configuration: 30s request
// timeout, 5s health-probe timeout, strict validation, retries enabled
// with up to three retries after the first attempt, and a 500-entry
// memory cache with disk caching
// off.
func Defaults() Config {
	return Config{
		Timeout:            30 * time.Second,
		HealthCheckTimeout: 5 * time.Second,
		UserAgent:          "arch-toolkit-go",
		MaxRetries:         3,
		RetryEnabled:       true,
		RetryInitialDelay:  500 * time.Millisecond,
		RetryMaxDelay:      10 * time.Second,
		Validation:         ValidationStrict,
		CacheMemorySize:    500,
		CacheDiskEnabled:   false,
	}
}

// WithEnv overlays cfg with any recognized ARCH_TOOLKIT_* environment
// variables present in the process environment, returning the merged
// Config. Unset or unparseable variables leave the corresponding field
// untouched; this mirrors the source library's silent-ignore policy for
// malformed env values.
func (cfg Config) WithEnv() Config {
	if v, ok := envSeconds("ARCH_TOOLKIT_TIMEOUT"); ok {
		cfg.Timeout = v
	}
	if v, ok := envSeconds("ARCH_TOOLKIT_HEALTH_CHECK_TIMEOUT"); ok {
		cfg.HealthCheckTimeout = v
	}
	if v, ok := envString("ARCH_TOOLKIT_USER_AGENT"); ok {
		cfg.UserAgent = v
	}
	if v, ok := envInt("ARCH_TOOLKIT_MAX_RETRIES"); ok {
		cfg.MaxRetries = v
	}
	if v, ok := envBool("ARCH_TOOLKIT_RETRY_ENABLED"); ok {
		cfg.RetryEnabled = v
	}
	if v, ok := envMillis("ARCH_TOOLKIT_RETRY_INITIAL_DELAY_MS"); ok {
		cfg.RetryInitialDelay = v
	}
	if v, ok := envMillis("ARCH_TOOLKIT_RETRY_MAX_DELAY_MS"); ok {
		cfg.RetryMaxDelay = v
	}
	if v, ok := envBool("ARCH_TOOLKIT_VALIDATION_STRICT"); ok {
		if v {
			cfg.Validation = ValidationStrict
		} else {
			cfg.Validation = ValidationLenient
		}
	}
	if v, ok := envInt("ARCH_TOOLKIT_CACHE_SIZE"); ok {
		cfg.CacheMemorySize = v
	}
	return cfg
}

func envString(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func envInt(name string) (int, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envSeconds(name string) (time.Duration, bool) {
	n, ok := envInt(name)
	if !ok {
		return 0, false
	}
	return time.Duration(n) * time.Second, true
}

func envMillis(name string) (time.Duration, bool) {
	n, ok := envInt(name)
	if !ok {
		return 0, false
	}
	return time.Duration(n) * time.Millisecond, true
}

// envBool parses "true/false", "1/0", "yes/no", "on/off" case-insensitively.
// Unset or unrecognized values report ok == false.
func envBool(name string) (bool, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return false, false
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	default:
		return false, false
	}
}

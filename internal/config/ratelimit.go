package config

import (
	"os"
	"strconv"
	"time"
)

// LoginRateLimitConfig controls the fixed-window throttle on the login route.
// Max attempts per Window per client IP; Prefix namespaces the Redis keys.
type LoginRateLimitConfig struct {
	Enabled bool
	Max     int
	Window  time.Duration
	Prefix  string
}

// LoadLoginRateLimit reads the throttle settings from the environment,
// applying safe defaults when unset.
func LoadLoginRateLimit() LoginRateLimitConfig {
	cfg := LoginRateLimitConfig{
		Enabled: envBool("LOGIN_RATE_ENABLED", true),
		Max:     envInt("LOGIN_RATE_MAX", 10),
		Window:  envDur("LOGIN_RATE_WINDOW", time.Minute),
		Prefix:  envStr("LOGIN_RATE_PREFIX", "login_rl"),
	}
	if cfg.Max < 1 {
		cfg.Max = 1
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}

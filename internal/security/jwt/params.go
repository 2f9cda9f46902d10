package jwtutil

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Secret    []byte
	ClockSkew time.Duration
}

func LoadConfig() Config {
	secret := os.Getenv("AUTH_JWT_SECRET")
	leeway := time.Duration(parseInt("AUTH_CLOCK_SKEW_SEC", 60)) * time.Second
	return Config{
		Secret:    []byte(secret),
		ClockSkew: leeway,
	}
}

// DefaultAccessTTL reads AUTH_ACCESS_TTL (e.g. "15m"), defaulting to 15m.
func DefaultAccessTTL() time.Duration {
	s := "15m"
	if v := os.Getenv("AUTH_ACCESS_TTL"); v != "" {
		s = v
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return 15 * time.Minute
}

func parseInt(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

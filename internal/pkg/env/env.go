// Package env reads configuration from the process environment with
// sensible fallbacks for local development.
package env

import (
	"os"
	"strconv"
	"time"
)

// Get returns the value of the environment variable key, or fallback
// when the variable is unset or empty.
func Get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetInt parses the environment variable key as an integer, returning
// fallback when the variable is unset or not a valid number.
func GetInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// GetDuration parses the environment variable key as a time.Duration,
// returning fallback when the variable is unset or not a valid duration.
func GetDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

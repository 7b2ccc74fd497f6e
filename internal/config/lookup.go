package config

import (
	"os"
	"strconv"
)

// envOr returns the environment value for key, or def when unset.
func envOr(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}

	return def
}

// envOrInt returns the environment value parsed as int, or def when the
// variable is unset or not a number.
func envOrInt(key string, def int) int {
	if val, ok := os.LookupEnv(key); ok {
		if x, err := strconv.Atoi(val); err == nil {
			return x
		}
	}

	return def
}

// envOrBool accepts the strconv.ParseBool forms (1/t/true, 0/f/false).
func envOrBool(key string, def bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if x, err := strconv.ParseBool(val); err == nil {
			return x
		}
	}

	return def
}

// Package config holds the value conversions shared by the config store adapters.
package config

import (
	"strconv"
	"strings"
	"time"
)

// String converts a stored value to a string.
// Only string values convert; anything else is "".
func String(val any) string {
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// Int converts a stored value to an int.
// TOML integers arrive as int64 and JSON numbers as float64; numeric
// strings come from environment overrides.
func Int(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Bool converts a stored value to a bool. "true", "1" and "yes" strings are true.
func Bool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "on":
			return true
		}
	}
	return false
}

// Duration converts a stored value to a duration. Strings are parsed with
// time.ParseDuration; plain numbers are whole milliseconds.
func Duration(val any) time.Duration {
	if s, ok := val.(string); ok {
		s = strings.TrimSpace(s)
		if d, err := time.ParseDuration(s); err == nil {
			return d
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
		return 0
	}
	return time.Duration(Int(val)) * time.Millisecond
}

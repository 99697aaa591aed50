package util

import (
	"strconv"
	"strings"
)

// ParseBoolDefault parses string to bool or returns default if empty/invalid.
func ParseBoolDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}

// NormalizeKey lowercases and trims a header name. A leading UTF-8 BOM is dropped.
func NormalizeKey(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ToLower(strings.TrimSpace(s))
}

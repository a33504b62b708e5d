// Package config provides centralized configuration management for the converter.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
//
// Command line flags take precedence; the values here are the defaults the
// CLI falls back to when a flag is not given.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Convert ConvertConfig
	Logging LoggingConfig
}

// ConvertConfig holds defaults for the JSON to CSV conversion.
type ConvertConfig struct {
	// CodeMap is the path to the station/code mapping file (default: config/code_title_map.json)
	CodeMap string `env:"STATIONCSV_CODE_MAP" default:"config/code_title_map.json"`

	// OutDir is the output directory; empty means next to each input file
	OutDir string `env:"STATIONCSV_OUT_DIR"`

	// Delimiter is the CSV field delimiter; "tab" and `\t` are accepted for TAB (default: ",")
	Delimiter string `env:"STATIONCSV_DELIMITER" default:","`

	// ColPrefix prefixes column names with the station: none, id or name (default: none)
	ColPrefix string `env:"STATIONCSV_COL_PREFIX" default:"none"`

	// FallbackVarID enables the generic variable table for unmapped codes (default: false)
	FallbackVarID bool `env:"STATIONCSV_FALLBACK_VARID" default:"false"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text, json or console (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ParseDelimiter resolves a delimiter setting to the rune used by the CSV writer.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter %q is not allowed", s)
	}
	return r, nil
}

// Package config provides centralized configuration management for the
// comparison server and CLI. It loads settings from environment variables
// with sensible defaults and validates them on startup to fail fast on
// misconfiguration.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/csvdiff/internal/core"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Compare  CompareConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request, including
	// both uploads (default: 60s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"60s"`

	// WriteTimeout is the maximum duration for writing the response (default: 120s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"120s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including the wait for
	// in-flight comparisons (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 5m)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"5m"`
}

// CompareConfig holds loader defaults and comparison limits.
type CompareConfig struct {
	// Delimiter is the default field separator; "tab" or "\t" selects a tab (default: ,)
	Delimiter string `env:"COMPARE_DELIMITER" default:","`

	// SkipRows is the default number of lines discarded before the header (default: 0)
	SkipRows int `env:"COMPARE_SKIP_ROWS" default:"0"`

	// Encoding is the default text encoding of uploads (default: utf-8)
	Encoding string `env:"COMPARE_ENCODING" default:"utf-8"`

	// ReplaceInvalid replaces invalid UTF-8 with U+FFFD instead of rejecting the file
	ReplaceInvalid bool `env:"COMPARE_REPLACE_INVALID" default:"false"`

	// ExcerptLength is how many characters of a failed file are echoed back (default: 500)
	ExcerptLength int `env:"COMPARE_EXCERPT_LENGTH" default:"500"`

	// DefaultMode is strict or override (default: strict)
	DefaultMode string `env:"COMPARE_DEFAULT_MODE" default:"strict"`

	// MaxFileSize is the maximum size of each input in bytes (default: 100MB)
	MaxFileSize int64 `env:"COMPARE_MAX_FILE_SIZE" envAlt:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`

	// MaxConcurrent is the maximum number of comparisons running at once (default: 4)
	MaxConcurrent int `env:"COMPARE_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long a request waits for a comparison slot (default: 30s)
	MaxWaitTime time.Duration `env:"COMPARE_MAX_WAIT_TIME" default:"30s"`

	// Timeout bounds a single comparison (default: 5m)
	Timeout time.Duration `env:"COMPARE_TIMEOUT" default:"5m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// CompareLimit is requests per minute for endpoints that load files (default: 20)
	CompareLimit int `env:"RATE_LIMIT_COMPARE" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects the JSON API with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DelimiterRune resolves the configured delimiter to a single rune.
func (c *CompareConfig) DelimiterRune() (rune, error) {
	return ParseDelimiter(c.Delimiter)
}

// LoadOptions returns the loader defaults applied to every request.
func (c *CompareConfig) LoadOptions() (core.LoadOptions, error) {
	delim, err := c.DelimiterRune()
	if err != nil {
		return core.LoadOptions{}, err
	}
	return core.LoadOptions{
		Delimiter:      delim,
		SkipRows:       c.SkipRows,
		Encoding:       c.Encoding,
		ReplaceInvalid: c.ReplaceInvalid,
		ExcerptLength:  c.ExcerptLength,
	}, nil
}

// ServiceConfig builds the comparison service settings.
func (c *CompareConfig) ServiceConfig() (core.ServiceConfig, error) {
	opts, err := c.LoadOptions()
	if err != nil {
		return core.ServiceConfig{}, err
	}
	return core.ServiceConfig{
		MaxFileSize:   c.MaxFileSize,
		MaxConcurrent: c.MaxConcurrent,
		MaxWaitTime:   c.MaxWaitTime,
		Timeout:       c.Timeout,
		Defaults:      opts,
	}, nil
}

// Mode parses DefaultMode.
func (c *CompareConfig) Mode() (core.CompareMode, error) {
	return core.ParseCompareMode(c.DefaultMode)
}

// ParseDelimiter accepts a single character or one of the names
// "tab", "\t", "comma", "semicolon" and "pipe". Empty input means comma.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "", "comma":
		return ',', nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "semicolon":
		return ';', nil
	case "pipe":
		return '|', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

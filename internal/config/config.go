// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Camera   CameraConfig
	Scan     ScanConfig
	History  HistoryConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 0 for SSE)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds spreadsheet upload processing settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 50MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"52428800"`

	// MaxConcurrent is the maximum number of parallel uploads (default: 2)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long to wait for an upload slot (default: 10s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"10s"`

	// Timeout is the maximum duration for a single upload operation (default: 2m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"2m"`

	// CleanupAfter is how long finished upload trackers stay queryable (default: 5m)
	CleanupAfter time.Duration `env:"UPLOAD_CLEANUP_AFTER" default:"5m"`
}

// CameraConfig holds capture device settings for the scanner station.
type CameraConfig struct {
	// Device is the V4L2 device path. Empty means probe /dev/video* and
	// pick the first device that opens (default: empty)
	// Supports both CAMERA_DEVICE and VIDEO_DEVICE env vars for compatibility
	Device string `env:"CAMERA_DEVICE" envAlt:"VIDEO_DEVICE"`

	// Width is the ideal frame width to negotiate (default: 1280)
	Width int `env:"CAMERA_WIDTH" default:"1280"`

	// Height is the ideal frame height to negotiate (default: 720)
	Height int `env:"CAMERA_HEIGHT" default:"720"`

	// FrameTimeout is how long to wait for a single frame before
	// treating the device as stalled (default: 5s)
	FrameTimeout time.Duration `env:"CAMERA_FRAME_TIMEOUT" default:"5s"`

	// ProbeInterval is how often the availability monitor re-checks for
	// a connected camera (default: 30s)
	ProbeInterval time.Duration `env:"CAMERA_PROBE_INTERVAL" default:"30s"`
}

// ScanConfig holds barcode scan session settings.
type ScanConfig struct {
	// DecodeInterval is the minimum time between decode attempts; frames
	// arriving faster than this are dropped (default: 150ms)
	DecodeInterval time.Duration `env:"SCAN_DECODE_INTERVAL" default:"150ms"`

	// SessionTimeout stops an abandoned session so the camera is not
	// held indefinitely (default: 2m)
	SessionTimeout time.Duration `env:"SCAN_SESSION_TIMEOUT" default:"2m"`

	// TryHarder enables the decoder's slower exhaustive search mode,
	// which copes better with blurry or rotated labels (default: true)
	TryHarder bool `env:"SCAN_TRY_HARDER" default:"true"`
}

// HistoryConfig holds lookup history settings.
type HistoryConfig struct {
	// Size is the number of recent lookups kept in memory (default: 50)
	Size int `env:"HISTORY_SIZE" default:"50"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// UploadLimit is requests per minute for upload endpoints (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey gates the API behind X-API-Key auth (default: false,
	// the station normally serves one kiosk on a trusted network)
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
	return c.Host + ":" + strconv.Itoa(c.Port)
}

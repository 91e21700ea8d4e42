package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxConcurrent != 2 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 2)
	}
	if cfg.Upload.MaxFileSize != 52428800 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 52428800)
	}
	if cfg.Camera.Width != 1280 || cfg.Camera.Height != 720 {
		t.Errorf("Camera = %dx%d, want 1280x720", cfg.Camera.Width, cfg.Camera.Height)
	}
	if cfg.Camera.Device != "" {
		t.Errorf("Camera.Device = %q, want auto-detect (empty)", cfg.Camera.Device)
	}
	if cfg.Scan.DecodeInterval != 150*time.Millisecond {
		t.Errorf("Scan.DecodeInterval = %v, want %v", cfg.Scan.DecodeInterval, 150*time.Millisecond)
	}
	if !cfg.Scan.TryHarder {
		t.Error("Scan.TryHarder = false, want true")
	}
	if cfg.History.Size != 50 {
		t.Errorf("History.Size = %d, want %d", cfg.History.Size, 50)
	}
	if cfg.Rate.RequestsPerMinute != 300 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 300)
	}
	if cfg.Security.RequireAPIKey {
		t.Error("Security.RequireAPIKey = true, want false by default")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("UPLOAD_MAX_CONCURRENT", "4")
	os.Setenv("CAMERA_WIDTH", "640")
	os.Setenv("LOG_LEVEL", "debug")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("UPLOAD_MAX_CONCURRENT")
		os.Unsetenv("CAMERA_WIDTH")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Upload.MaxConcurrent != 4 {
		t.Errorf("Upload.MaxConcurrent = %d, want %d", cfg.Upload.MaxConcurrent, 4)
	}
	if cfg.Camera.Width != 640 {
		t.Errorf("Camera.Width = %d, want %d", cfg.Camera.Width, 640)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	// Test that VIDEO_DEVICE works as fallback for CAMERA_DEVICE
	os.Setenv("VIDEO_DEVICE", "/dev/video2")
	defer os.Unsetenv("VIDEO_DEVICE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Camera.Device != "/dev/video2" {
		t.Errorf("Camera.Device = %q, want %q", cfg.Camera.Device, "/dev/video2")
	}
}

func TestLoad_PrimaryEnvVarWins(t *testing.T) {
	os.Setenv("CAMERA_DEVICE", "/dev/video0")
	os.Setenv("VIDEO_DEVICE", "/dev/video2")
	defer func() {
		os.Unsetenv("CAMERA_DEVICE")
		os.Unsetenv("VIDEO_DEVICE")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Camera.Device != "/dev/video0" {
		t.Errorf("Camera.Device = %q, want %q", cfg.Camera.Device, "/dev/video0")
	}
}

func TestLoad_Duration(t *testing.T) {
	os.Setenv("SERVER_READ_TIMEOUT", "45s")
	os.Setenv("SCAN_SESSION_TIMEOUT", "1m30s")
	defer func() {
		os.Unsetenv("SERVER_READ_TIMEOUT")
		os.Unsetenv("SCAN_SESSION_TIMEOUT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Scan.SessionTimeout != 90*time.Second {
		t.Errorf("Scan.SessionTimeout = %v, want %v", cfg.Scan.SessionTimeout, 90*time.Second)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	os.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")
	defer os.Unsetenv("TRUSTED_PROXIES")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	os.Setenv("SCAN_DECODE_INTERVAL", "fast")
	defer os.Unsetenv("SCAN_DECODE_INTERVAL")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for invalid duration")
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 99999

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid port")
	}
	if !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("error should mention SERVER_PORT: %v", err)
	}
}

func TestValidate_SessionTimeoutTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.Scan.DecodeInterval = time.Minute
	cfg.Scan.SessionTimeout = time.Second

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for session timeout below decode interval")
	}
	if !strings.Contains(err.Error(), "SCAN_SESSION_TIMEOUT") {
		t.Errorf("error should mention SCAN_SESSION_TIMEOUT: %v", err)
	}
}

func TestValidate_APIKeyRequiredButEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Security.RequireAPIKey = true
	cfg.Security.APIKeys = nil

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for REQUIRE_API_KEY without keys")
	}
	if !strings.Contains(err.Error(), "API_KEYS") {
		t.Errorf("error should mention API_KEYS: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
		{"localhost", 443, "localhost:443"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		got := cfg.Addr()
		if got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestConfigString_MasksAPIKeys(t *testing.T) {
	cfg := validConfig()
	cfg.Security.APIKeys = []string{"super-secret-key"}

	str := cfg.String()
	if strings.Contains(str, "super-secret-key") {
		t.Error("String() should mask API keys")
	}
	if !strings.Contains(str, "MASKED") {
		t.Error("String() should contain MASKED placeholder")
	}
}

// validConfig returns a config that passes Validate, for mutation in tests.
func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Upload: UploadConfig{
			MaxFileSize:   1,
			MaxConcurrent: 1,
			MaxWaitTime:   time.Second,
			Timeout:       time.Minute,
			CleanupAfter:  time.Minute,
		},
		Camera:  CameraConfig{Width: 1280, Height: 720, FrameTimeout: time.Second, ProbeInterval: time.Minute},
		Scan:    ScanConfig{DecodeInterval: 150 * time.Millisecond, SessionTimeout: 2 * time.Minute},
		History: HistoryConfig{Size: 50},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}


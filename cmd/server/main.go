package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/LeoAbril98/localizar/internal/camera"
	"github.com/LeoAbril98/localizar/internal/config"
	"github.com/LeoAbril98/localizar/internal/core"
	"github.com/LeoAbril98/localizar/internal/logging"
	"github.com/LeoAbril98/localizar/internal/scan"
	"github.com/LeoAbril98/localizar/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"camera_device", cameraDeviceLabel(cfg.Camera.Device),
	)

	camCfg := camera.Config{
		Device:       cfg.Camera.Device,
		Width:        cfg.Camera.Width,
		Height:       cfg.Camera.Height,
		FrameTimeout: cfg.Camera.FrameTimeout,
	}

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	// The monitor keeps the UI's camera indicator current without
	// holding the device open
	monitor := scan.NewMonitor(camCfg, cfg.Camera.ProbeInterval)
	go monitor.Run(jobCtx)

	scanner := scan.NewManager(scan.Options{
		Camera:         camCfg,
		DecodeInterval: cfg.Scan.DecodeInterval,
		SessionTimeout: cfg.Scan.SessionTimeout,
		TryHarder:      cfg.Scan.TryHarder,
	}, monitor)

	// Create service with config
	service := core.NewService(core.Options{
		MaxConcurrentUploads: cfg.Upload.MaxConcurrent,
		MaxUploadWait:        cfg.Upload.MaxWaitTime,
		UploadTimeout:        cfg.Upload.Timeout,
		CleanupAfter:         cfg.Upload.CleanupAfter,
		HistorySize:          cfg.History.Size,
	}, scanner)

	// Create server with config
	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		// Release the camera before the process exits
		if service.ScanStatus().Active {
			slog.Info("stopping active scan session")
			service.StopScan()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Wait for active uploads to complete (with timeout)
		uploadStatus := service.UploadLimiterStatus()
		if uploadStatus.Active > 0 {
			slog.Info("waiting for uploads to complete", "active", uploadStatus.Active)
			if err := service.WaitForUploads(shutdownCtx); err != nil {
				slog.Warn("uploads did not complete in time", "error", err)
			} else {
				slog.Info("all uploads completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

func cameraDeviceLabel(device string) string {
	if device == "" {
		return "auto-detect"
	}
	return device
}

package scan

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LeoAbril98/localizar/internal/camera"
)

// Monitor keeps a cached answer to "is a camera plugged in", so status
// requests never touch the device path on the hot path. It probes once
// on start, then on every interval, and logs transitions only.
type Monitor struct {
	cfg      camera.Config
	interval time.Duration

	// probe is replaced in tests.
	probe func(camera.Config) (bool, string)

	mu        sync.RWMutex
	available bool
	detail    string
}

// NewMonitor builds a Monitor. The first Run probe settles the initial
// status; before that, Status reports no camera.
func NewMonitor(cfg camera.Config, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		cfg:      cfg,
		interval: interval,
		probe:    camera.Probe,
		detail:   "camera not probed yet",
	}
}

// Run probes until the context is cancelled. It runs immediately on
// start, then every interval.
func (m *Monitor) Run(ctx context.Context) {
	slog.Info("camera monitor started", "interval", m.interval.String())

	m.check()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("camera monitor stopped")
			return
		case <-ticker.C:
			m.check()
		}
	}
}

// Status returns the last probe result.
func (m *Monitor) Status() (bool, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.available, m.detail
}

func (m *Monitor) check() {
	available, detail := m.probe(m.cfg)

	m.mu.Lock()
	changed := available != m.available
	m.available = available
	m.detail = detail
	m.mu.Unlock()

	if !changed {
		return
	}
	if available {
		slog.Info("camera detected", "device", detail)
	} else {
		slog.Warn("camera lost", "detail", detail)
	}
}

// Package scan runs camera scan sessions: it acquires the capture device,
// paces frames into the barcode decoder, and reports progress as events
// the lookup service consumes.
package scan

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/LeoAbril98/localizar/internal/camera"
	"github.com/LeoAbril98/localizar/internal/core"
)

// Options configures scan sessions.
type Options struct {
	// Camera selects and shapes the capture device.
	Camera camera.Config

	// DecodeInterval paces decode attempts; frames arriving faster are
	// dropped.
	DecodeInterval time.Duration

	// SessionTimeout stops an abandoned session so the camera is not
	// held indefinitely.
	SessionTimeout time.Duration

	// TryHarder enables the decoder's exhaustive search mode.
	TryHarder bool
}

func (o Options) withDefaults() Options {
	if o.DecodeInterval <= 0 {
		o.DecodeInterval = 150 * time.Millisecond
	}
	if o.SessionTimeout <= 0 {
		o.SessionTimeout = 2 * time.Minute
	}
	return o
}

// Manager hands out scan sessions, one at a time. It implements the
// service's scan source port.
type Manager struct {
	opts    Options
	decoder *decoder
	monitor *Monitor

	// opener is replaced in tests to avoid real hardware.
	opener func(camera.Config) (camera.Device, error)

	mu     sync.Mutex
	active *Session
}

// NewManager builds a Manager. monitor may be nil; availability is then
// probed on demand.
func NewManager(opts Options, monitor *Monitor) *Manager {
	opts = opts.withDefaults()
	return &Manager{
		opts:    opts,
		decoder: newDecoder(opts.TryHarder),
		monitor: monitor,
		opener:  camera.Open,
	}
}

// Start opens the camera and begins a scan session. The context covers
// acquisition only; the running session is bounded by the session
// timeout and released through Stop.
func (m *Manager) Start(ctx context.Context) (core.ScanSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, errors.New("scan already active")
	}

	dev, err := m.opener(m.opts.Camera)
	if err != nil {
		return nil, classifyCameraError(err)
	}

	s := newSession(dev, m.decoder, m.opts, m.release)
	m.active = s
	go s.run()
	return s, nil
}

// Available reports whether a capture device appears to be present.
func (m *Manager) Available() (bool, string) {
	if m.monitor != nil {
		return m.monitor.Status()
	}
	return camera.Probe(m.opts.Camera)
}

// release clears the active slot once a session has fully ended.
func (m *Manager) release(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == s {
		m.active = nil
	}
}

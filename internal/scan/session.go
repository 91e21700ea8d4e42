package scan

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/LeoAbril98/localizar/internal/camera"
	"github.com/LeoAbril98/localizar/internal/core"
)

// Session is one camera scan run. It owns the device for its lifetime:
// the capture loop, the decoder, and the release of the camera on every
// exit path. Events() delivers state changes, decodes and errors, ends
// with a terminal state event, and is then closed.
type Session struct {
	id       string
	dev      camera.Device
	decoder  *decoder
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	events chan core.ScanEvent
	done   chan struct{}
	onDone func(*Session)

	mu      sync.Mutex
	decoded bool
}

func newSession(dev camera.Device, dec *decoder, opts Options, onDone func(*Session)) *Session {
	ctx, cancel := context.WithTimeout(context.Background(), opts.SessionTimeout)
	return &Session{
		id:       uuid.NewString(),
		dev:      dev,
		decoder:  dec,
		interval: opts.DecodeInterval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan core.ScanEvent, 16),
		done:     make(chan struct{}),
		onDone:   onDone,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Events returns the event stream for this session.
func (s *Session) Events() <-chan core.ScanEvent { return s.events }

// Stop ends the session and returns once the capture loop has exited
// and the camera is released. Safe to call more than once.
func (s *Session) Stop() {
	s.cancel()
	<-s.done
}

func (s *Session) run() {
	defer close(s.done)
	defer s.onDone(s)
	defer s.cancel()

	started := time.Now()
	s.emit(core.ScanEvent{Kind: core.ScanEventState, SessionID: s.id, State: core.ScanAcquiring, At: time.Now()})
	slog.Info("scan session started", "session_id", s.id, "device", s.dev.Name())

	loopErr := s.loop()

	// Release the camera before the terminal event goes out, so anyone
	// reacting to the session's end finds the device free.
	s.dev.Close()

	final := core.ScanStopped
	switch {
	case s.wasDecoded():
		final = core.ScanDecoded
	case loopErr != nil:
		final = core.ScanFailed
		msg := core.MapError(loopErr)
		s.emitFinal(core.ScanEvent{Kind: core.ScanEventError, SessionID: s.id, State: core.ScanFailed, Error: &msg, At: time.Now()})
		slog.Warn("scan session failed", "session_id", s.id, "error", loopErr)
	case errors.Is(s.ctx.Err(), context.DeadlineExceeded):
		msg := core.MapError(errors.New("scan timed out waiting for a code"))
		s.emitFinal(core.ScanEvent{Kind: core.ScanEventError, SessionID: s.id, State: core.ScanStopped, Error: &msg, At: time.Now()})
	}
	s.emitFinal(core.ScanEvent{Kind: core.ScanEventState, SessionID: s.id, State: final, At: time.Now()})
	close(s.events)

	slog.Info("scan session ended",
		"session_id", s.id,
		"state", string(final),
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

// loop paces frames into the decoder until the session context ends or
// the device fails. Frames without a readable code are a non-event.
func (s *Session) loop() error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	scanning := false
	for {
		select {
		case <-s.ctx.Done():
			return nil
		case <-ticker.C:
		}

		frame, err := s.dev.NextFrame()
		if err != nil {
			if s.ctx.Err() != nil {
				return nil
			}
			return classifyCameraError(err)
		}

		if !scanning {
			scanning = true
			s.emit(core.ScanEvent{Kind: core.ScanEventState, SessionID: s.id, State: core.ScanScanning, At: time.Now()})
		}

		text, format, ok := s.decoder.Decode(frame)
		if !ok {
			continue
		}

		s.markDecoded()
		s.emit(core.ScanEvent{
			Kind:      core.ScanEventDecode,
			SessionID: s.id,
			State:     core.ScanScanning,
			Code:      text,
			Format:    format,
			At:        time.Now(),
		})
		slog.Info("scan decoded", "session_id", s.id, "format", format)
	}
}

func (s *Session) markDecoded() {
	s.mu.Lock()
	s.decoded = true
	s.mu.Unlock()
}

func (s *Session) wasDecoded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decoded
}

// emit delivers an event while the session is live. Delivery is skipped
// when the session is shutting down and the stream is saturated.
func (s *Session) emit(ev core.ScanEvent) {
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

// emitFinal delivers a shutdown event without ever blocking.
func (s *Session) emitFinal(ev core.ScanEvent) {
	select {
	case s.events <- ev:
	default:
	}
}

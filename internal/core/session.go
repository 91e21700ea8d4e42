package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// session.go owns the scan side of the service. The camera adapter is
// behind the ScanSource port so the service never touches V4L2 directly;
// it consumes the session's event stream, resolves decodes through the
// same Submit path as typed queries, and fans events out to subscribers.

// ScanSource produces scan sessions. Implementations must allow at most
// one live session at a time.
type ScanSource interface {
	// Start acquires the camera and begins decoding. The context bounds
	// acquisition and the session's lifetime.
	Start(ctx context.Context) (ScanSession, error)

	// Available reports whether a camera is currently usable, with a
	// short human-readable detail.
	Available() (bool, string)
}

// ScanSession is one camera acquisition. Events delivers state changes,
// decodes and errors; the channel is closed after a terminal state event
// once the camera is released. Stop releases the camera synchronously
// and is safe to call more than once.
type ScanSession interface {
	ID() string
	Events() <-chan ScanEvent
	Stop()
}

// ErrNoScanSource is returned when the service was built without a camera.
var ErrNoScanSource = errors.New("no camera configured")

// activeScan tracks the one live session and its observed state.
type activeScan struct {
	id        string
	session   ScanSession
	startedAt time.Time
	done      chan struct{}

	mu    sync.Mutex
	state ScanState
}

func (a *activeScan) setState(st ScanState) {
	a.mu.Lock()
	a.state = st
	a.mu.Unlock()
}

func (a *activeScan) currentState() ScanState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// StartScan begins a scan session, stopping any previous one first so a
// double tap on the scan button restarts cleanly instead of failing.
func (s *Service) StartScan(ctx context.Context) (ScanStatusInfo, error) {
	if s.scanSrc == nil {
		return s.ScanStatus(), ErrNoScanSource
	}

	s.stopActiveScan()

	session, err := s.scanSrc.Start(ctx)
	if err != nil {
		return s.ScanStatus(), err
	}

	scan := &activeScan{
		id:        session.ID(),
		session:   session,
		startedAt: time.Now(),
		state:     ScanAcquiring,
		done:      make(chan struct{}),
	}

	s.scanMu.Lock()
	if s.activeScan != nil {
		// Lost a race with a concurrent start; the other session wins.
		s.scanMu.Unlock()
		session.Stop()
		return s.ScanStatus(), errors.New("scan already active")
	}
	s.activeScan = scan
	s.scanMu.Unlock()

	go s.pumpScan(scan)
	return s.ScanStatus(), nil
}

// StopScan ends the live session, if any, and reports the resulting
// status. Stopping an idle scanner is a no-op.
func (s *Service) StopScan() ScanStatusInfo {
	s.stopActiveScan()
	return s.ScanStatus()
}

// ScanStatus reports the controller's view of scanning plus camera
// availability for status polls.
func (s *Service) ScanStatus() ScanStatusInfo {
	info := ScanStatusInfo{State: ScanIdle}
	if s.scanSrc != nil {
		info.CameraAvailable, info.CameraDetail = s.scanSrc.Available()
	}

	s.scanMu.Lock()
	scan := s.activeScan
	s.scanMu.Unlock()

	if scan != nil {
		info.Active = true
		info.SessionID = scan.id
		info.State = scan.currentState()
		info.StartedAt = scan.startedAt
	}
	return info
}

// SubscribeScanEvents registers a listener for all scan events. The
// channel stays open across sessions; release it with
// UnsubscribeScanEvents when the client disconnects.
func (s *Service) SubscribeScanEvents() chan ScanEvent {
	ch := make(chan ScanEvent, 16)
	s.scanListenerMu.Lock()
	s.scanListeners = append(s.scanListeners, ch)
	s.scanListenerMu.Unlock()
	return ch
}

// UnsubscribeScanEvents removes and closes a listener channel.
func (s *Service) UnsubscribeScanEvents(ch chan ScanEvent) {
	s.scanListenerMu.Lock()
	defer s.scanListenerMu.Unlock()
	for i, listener := range s.scanListeners {
		if listener == ch {
			s.scanListeners = append(s.scanListeners[:i], s.scanListeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// pumpScan consumes one session's events until its stream closes. On a
// decode it stops the session before resolving the code, so the camera
// is released by the time the result is visible.
func (s *Service) pumpScan(scan *activeScan) {
	defer close(scan.done)
	defer s.finishScan(scan)

	for ev := range scan.session.Events() {
		switch ev.Kind {
		case ScanEventState:
			scan.setState(ev.State)
		case ScanEventError:
			scan.setState(ScanFailed)
		case ScanEventDecode:
			scan.session.Stop()
			scan.setState(ScanDecoded)
			s.Submit(ev.Code, SourceScan)
		}
		s.broadcastScanEvent(ev)
	}
}

// stopActiveScan stops the live session and waits for its pump to drain.
// Returns false when nothing was active.
func (s *Service) stopActiveScan() bool {
	s.scanMu.Lock()
	scan := s.activeScan
	s.scanMu.Unlock()

	if scan == nil {
		return false
	}
	scan.session.Stop()
	<-scan.done
	return true
}

func (s *Service) finishScan(scan *activeScan) {
	s.scanMu.Lock()
	if s.activeScan == scan {
		s.activeScan = nil
	}
	s.scanMu.Unlock()
}

// broadcastScanEvent fans one event out to all subscribers. Slow
// listeners miss events rather than stalling the pump.
func (s *Service) broadcastScanEvent(ev ScanEvent) {
	s.scanListenerMu.Lock()
	defer s.scanListenerMu.Unlock()
	for _, listener := range s.scanListeners {
		select {
		case listener <- ev:
		default:
		}
	}
}

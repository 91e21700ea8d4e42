package core

import (
	"time"
)

// ============================================================================
// UPLOAD LIFECYCLE
// ============================================================================

// UploadPhase indicates the current stage of upload processing.
type UploadPhase string

const (
	PhaseStarting    UploadPhase = "starting"
	PhaseReading     UploadPhase = "reading"
	PhaseNormalizing UploadPhase = "normalizing"
	PhaseComplete    UploadPhase = "complete"
	PhaseFailed      UploadPhase = "failed"
	PhaseCancelled   UploadPhase = "cancelled"
)

// Terminal reports whether the phase is an end state.
func (p UploadPhase) Terminal() bool {
	switch p {
	case PhaseComplete, PhaseFailed, PhaseCancelled:
		return true
	}
	return false
}

// UploadProgress represents the current state of an upload operation.
type UploadProgress struct {
	UploadID string      `json:"uploadId"`
	FileName string      `json:"fileName"`
	Phase    UploadPhase `json:"phase"`
	// Byte-based progress for streaming. BytesTotal is 0 when the request
	// did not declare a content length.
	BytesRead  int64  `json:"bytesRead"`
	BytesTotal int64  `json:"bytesTotal,omitempty"`
	RowsRead   int    `json:"rowsRead"`
	RowsLoaded int    `json:"rowsLoaded"`
	Error      string `json:"error,omitempty"` // Non-empty if Phase is PhaseFailed
}

// Percent returns the progress as a percentage (0-100).
// Byte counts drive the estimate while reading; terminal phases report 100.
func (p UploadProgress) Percent() int {
	if p.Phase.Terminal() {
		return 100
	}
	if p.BytesTotal > 0 {
		pct := int((p.BytesRead * 100) / p.BytesTotal)
		if pct > 100 {
			pct = 100
		}
		return pct
	}
	return 0
}

// UploadResult contains the final result of an upload operation.
type UploadResult struct {
	UploadID   string        `json:"uploadId"`
	FileName   string        `json:"fileName"`
	Format     SheetFormat   `json:"format,omitempty"`
	TotalRows  int           `json:"totalRows"`
	Loaded     int           `json:"loaded"`
	Skipped    int           `json:"skipped"`
	Superseded bool          `json:"superseded,omitempty"`
	Duration   time.Duration `json:"-"`
	Error      string        `json:"error,omitempty"` // Non-empty if upload failed
}

// ============================================================================
// SEARCH
// ============================================================================

// Source records how a query reached the search controller.
type Source string

const (
	SourceTyped Source = "typed"
	SourceScan  Source = "scan"
)

// LookupResult is a resolved record plus derived display flags.
type LookupResult struct {
	Record   Record `json:"record"`
	LowStock bool   `json:"lowStock"`
}

// QueryState is the displayed outcome of the most recent submit. For a
// non-empty query exactly one of Result and Error is set. A zero QueryState
// means nothing has been searched since the last reset.
type QueryState struct {
	Query     string        `json:"query"`
	Source    Source        `json:"source,omitempty"`
	Result    *LookupResult `json:"result,omitempty"`
	Error     *UserMessage  `json:"error,omitempty"`
	UpdatedAt time.Time     `json:"updatedAt,omitzero"`
}

// Empty reports whether the state carries no displayed outcome.
func (q QueryState) Empty() bool {
	return q.Result == nil && q.Error == nil
}

// ============================================================================
// SCANNING
// ============================================================================

// ScanState is the lifecycle position of a scan session.
type ScanState string

const (
	ScanIdle      ScanState = "idle"
	ScanAcquiring ScanState = "acquiring"
	ScanScanning  ScanState = "scanning"
	ScanDecoded   ScanState = "decoded"
	ScanStopped   ScanState = "stopped"
	ScanFailed    ScanState = "failed"
)

// Terminal reports whether the state ends a session.
func (s ScanState) Terminal() bool {
	switch s {
	case ScanDecoded, ScanStopped, ScanFailed:
		return true
	}
	return false
}

// ScanEventKind discriminates events on a session's event stream.
type ScanEventKind string

const (
	ScanEventState  ScanEventKind = "state"
	ScanEventDecode ScanEventKind = "decode"
	ScanEventError  ScanEventKind = "error"
)

// ScanEvent is one observation from a scan session. Decode events carry the
// decoded text and symbology; error events carry a user-facing message.
type ScanEvent struct {
	Kind      ScanEventKind `json:"kind"`
	SessionID string        `json:"sessionId"`
	State     ScanState     `json:"state"`
	Code      string        `json:"code,omitempty"`
	Format    string        `json:"format,omitempty"`
	Error     *UserMessage  `json:"error,omitempty"`
	At        time.Time     `json:"at"`
}

// ScanStatusInfo is the controller's view of scanning for status polls.
type ScanStatusInfo struct {
	Active          bool      `json:"active"`
	SessionID       string    `json:"sessionId,omitempty"`
	State           ScanState `json:"state"`
	CameraAvailable bool      `json:"cameraAvailable"`
	CameraDetail    string    `json:"cameraDetail,omitempty"`
	StartedAt       time.Time `json:"startedAt,omitzero"`
}

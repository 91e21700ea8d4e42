package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultUploadTimeout is the maximum duration for parsing one upload.
var DefaultUploadTimeout = 2 * time.Minute

// DefaultCleanupAfter is how long finished upload trackers stay queryable.
var DefaultCleanupAfter = 5 * time.Minute

// Options configures a Service. Zero values fall back to the package
// defaults, so tests can construct a Service from a partial struct.
type Options struct {
	MaxConcurrentUploads int
	MaxUploadWait        time.Duration
	UploadTimeout        time.Duration
	CleanupAfter         time.Duration
	HistorySize          int
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrentUploads <= 0 {
		o.MaxConcurrentUploads = DefaultMaxConcurrentUploads
	}
	if o.MaxUploadWait <= 0 {
		o.MaxUploadWait = DefaultMaxWaitTime
	}
	if o.UploadTimeout <= 0 {
		o.UploadTimeout = DefaultUploadTimeout
	}
	if o.CleanupAfter <= 0 {
		o.CleanupAfter = DefaultCleanupAfter
	}
	if o.HistorySize <= 0 {
		o.HistorySize = DefaultHistorySize
	}
	return o
}

// Service provides the core business logic for the lookup station: the live
// dataset, the search controller, upload processing, and scan sessions.
type Service struct {
	opts    Options
	limiter *UploadLimiter
	scanSrc ScanSource

	mu      sync.RWMutex
	uploads map[string]*activeUpload

	// Dataset state, guarded by mu. lastSeq grows on every accepted upload
	// and on explicit clears; committedSeq tracks the newest state that
	// actually landed, so a slow parse can detect it has been superseded.
	dataset      *Dataset
	index        *Index
	query        QueryState
	lastSeq      uint64
	committedSeq uint64

	history *History

	scanMu     sync.Mutex
	activeScan *activeScan

	scanListenerMu sync.Mutex
	scanListeners  []chan ScanEvent
}

type activeUpload struct {
	ID       string
	FileName string
	Seq      uint64
	Cancel   context.CancelFunc
	Result   *UploadResult // set before Done closes
	Done     chan struct{}

	// ListenerMu guards Progress and the listener set.
	ListenerMu      sync.Mutex
	Progress        UploadProgress
	Listeners       []chan UploadProgress
	listenersClosed bool
}

// NewService creates a Service. src may be nil when no camera integration is
// configured; scan operations then fail with a camera error.
func NewService(opts Options, src ScanSource) *Service {
	opts = opts.withDefaults()
	return &Service{
		opts:    opts,
		limiter: NewUploadLimiter(opts.MaxConcurrentUploads, opts.MaxUploadWait),
		scanSrc: src,
		uploads: make(map[string]*activeUpload),
		history: NewHistory(opts.HistorySize),
	}
}

// ============================================================================
// UPLOADS
// ============================================================================

// StartUpload begins an asynchronous upload operation over an in-memory
// sheet. Returns the upload ID immediately; use SubscribeProgress for
// updates and GetUploadResult for the outcome.
//
// The whole file is handed over up front rather than streamed from the
// request body: the body's lifetime ends with the HTTP handler, and sheet
// sizes at the station are bounded by the configured upload limit anyway.
//
// Returns ErrTooManyUploads if the concurrent upload limit is reached and
// no slot becomes available within the wait window.
func (s *Service) StartUpload(ctx context.Context, fileName string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("no file provided")
	}

	// Acquire upload slot (blocks until available or timeout)
	if err := s.limiter.Acquire(ctx); err != nil {
		return "", err
	}

	uploadID := uuid.New().String()
	uploadCtx, cancel := context.WithTimeout(context.Background(), s.opts.UploadTimeout)

	upload := &activeUpload{
		ID:       uploadID,
		FileName: fileName,
		Cancel:   cancel,
		Progress: UploadProgress{
			UploadID:   uploadID,
			FileName:   fileName,
			Phase:      PhaseStarting,
			BytesTotal: int64(len(data)),
		},
		Done:      make(chan struct{}),
		Listeners: make([]chan UploadProgress, 0),
	}

	s.mu.Lock()
	s.lastSeq++
	upload.Seq = s.lastSeq
	s.uploads[uploadID] = upload
	s.mu.Unlock()

	// Process in background. processUpload recovers its own panics, so the
	// limiter slot and the timeout context are always released.
	go func() {
		defer cancel()
		defer s.limiter.Release()
		s.processUpload(uploadCtx, upload, data)
	}()

	return uploadID, nil
}

// SubscribeProgress returns a channel that receives progress updates.
// The channel is closed when the upload completes.
func (s *Service) SubscribeProgress(uploadID string) (<-chan UploadProgress, error) {
	s.mu.RLock()
	upload, ok := s.uploads[uploadID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("upload not found: %s", uploadID)
	}

	ch := make(chan UploadProgress, 10)

	upload.ListenerMu.Lock()
	if upload.listenersClosed {
		// Upload already finished; deliver the final snapshot and close.
		ch <- upload.Progress
		close(ch)
		upload.ListenerMu.Unlock()
		return ch, nil
	}
	upload.Listeners = append(upload.Listeners, ch)
	// Send current progress immediately
	select {
	case ch <- upload.Progress:
	default:
	}
	upload.ListenerMu.Unlock()

	return ch, nil
}

// CancelUpload cancels an in-progress upload.
func (s *Service) CancelUpload(uploadID string) error {
	s.mu.RLock()
	upload, ok := s.uploads[uploadID]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("upload not found: %s", uploadID)
	}

	upload.Cancel()
	return nil
}

// GetUploadResult returns the result of a completed upload.
// Blocks until the upload completes if still in progress.
func (s *Service) GetUploadResult(uploadID string) (*UploadResult, error) {
	s.mu.RLock()
	upload, ok := s.uploads[uploadID]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("upload not found: %s", uploadID)
	}

	<-upload.Done

	return upload.Result, nil
}

// GetUploadProgress returns the current progress without blocking.
func (s *Service) GetUploadProgress(uploadID string) (UploadProgress, error) {
	s.mu.RLock()
	upload, ok := s.uploads[uploadID]
	s.mu.RUnlock()

	if !ok {
		return UploadProgress{}, fmt.Errorf("upload not found: %s", uploadID)
	}

	upload.ListenerMu.Lock()
	progress := upload.Progress
	upload.ListenerMu.Unlock()
	return progress, nil
}

// UploadLimiterStatus returns the limiter state for monitoring.
func (s *Service) UploadLimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until running uploads finish. Used during shutdown.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// ============================================================================
// DATASET
// ============================================================================

// DatasetSummary describes the live dataset, or an empty summary when no
// sheet has been loaded yet.
func (s *Service) DatasetSummary() DatasetSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset.Summary()
}

// ClearDataset drops the live dataset, the displayed query outcome, and the
// lookup history. In-flight uploads that started before the clear are
// superseded and will not resurrect the old data.
func (s *Service) ClearDataset() {
	s.mu.Lock()
	s.lastSeq++
	s.committedSeq = s.lastSeq
	s.dataset = nil
	s.index = nil
	s.query = QueryState{}
	s.mu.Unlock()

	s.history.Clear()
}

// commitDataset installs a parsed dataset unless a newer upload or clear has
// already landed. Clearing the displayed outcome happens in the same
// critical section, so a lookup can never show a result from the replaced
// dataset alongside the new one.
func (s *Service) commitDataset(up *activeUpload, ds *Dataset, idx *Index) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if up.Seq <= s.committedSeq {
		return fmt.Errorf("upload %s superseded by a newer upload", up.ID)
	}

	ds.Seq = up.Seq
	s.committedSeq = up.Seq
	s.dataset = ds
	s.index = idx
	s.query = QueryState{}
	return nil
}

// ============================================================================
// INTERNALS
// ============================================================================

// updateProgress applies a mutation to the progress snapshot and fans the
// result out to every listener. ListenerMu guards the snapshot, so a
// concurrent subscriber always reads a consistent copy.
func (upload *activeUpload) updateProgress(mutate func(*UploadProgress)) {
	upload.ListenerMu.Lock()
	defer upload.ListenerMu.Unlock()

	mutate(&upload.Progress)
	for _, ch := range upload.Listeners {
		select {
		case ch <- upload.Progress:
		default:
			// Listener is slow, skip this update
		}
	}
}

// closeListeners closes all listener channels. Late subscribers after this
// point get a pre-closed channel carrying the final snapshot.
func (upload *activeUpload) closeListeners() {
	upload.ListenerMu.Lock()
	defer upload.ListenerMu.Unlock()

	for _, ch := range upload.Listeners {
		close(ch)
	}
	upload.Listeners = nil
	upload.listenersClosed = true
}

// cleanup removes the upload from tracking after a delay.
func (s *Service) cleanup(uploadID string, delay time.Duration) {
	time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.uploads, uploadID)
		s.mu.Unlock()
	})
}

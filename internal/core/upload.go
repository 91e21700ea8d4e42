package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ContextCheckInterval is how often the normalize loop polls for cancellation.
var ContextCheckInterval = 200

// progressTickInterval paces byte-progress broadcasts while parsing.
var progressTickInterval = 200 * time.Millisecond

// processUpload parses and normalizes one uploaded sheet, then attempts to
// install it as the live dataset. Runs on its own goroutine; all outcomes,
// panics included, end with the result published before the tracker's Done
// channel closes.
func (s *Service) processUpload(ctx context.Context, upload *activeUpload, data []byte) {
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in upload",
				"upload_id", upload.ID,
				"file", upload.FileName,
				"panic", r,
			)
			msg := fmt.Sprintf("internal error: %v", r)
			upload.updateProgress(func(p *UploadProgress) {
				p.Phase = PhaseFailed
				p.Error = msg
			})
			upload.Result = &UploadResult{
				UploadID: upload.ID,
				FileName: upload.FileName,
				Error:    msg,
			}
		}
		upload.closeListeners()
		close(upload.Done)
		s.cleanup(upload.ID, s.opts.CleanupAfter)
	}()

	var format SheetFormat

	fail := func(err error) {
		phase := PhaseFailed
		if errors.Is(err, context.Canceled) {
			phase = PhaseCancelled
			err = errors.New("upload cancelled")
		}
		upload.updateProgress(func(p *UploadProgress) {
			p.Phase = phase
			p.Error = err.Error()
		})
		upload.Result = &UploadResult{
			UploadID: upload.ID,
			FileName: upload.FileName,
			Format:   format,
			Error:    err.Error(),
			Duration: time.Since(startTime),
		}
		slog.Warn("upload failed",
			"upload_id", upload.ID,
			"file", upload.FileName,
			"error", err.Error(),
			"duration_ms", time.Since(startTime).Milliseconds(),
		)
	}

	upload.updateProgress(func(p *UploadProgress) { p.Phase = PhaseReading })

	// Broadcast byte progress while the sheet reader drains the counter.
	counter := NewCountingReader(bytes.NewReader(data), int64(len(data)))
	stopTick := make(chan struct{})
	tickDone := make(chan struct{})
	go func() {
		defer close(tickDone)
		ticker := time.NewTicker(progressTickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopTick:
				return
			case <-upload.Done:
				return
			case <-ticker.C:
				upload.updateProgress(func(p *UploadProgress) { p.BytesRead = counter.BytesRead() })
			}
		}
	}()

	rows, fmtDetected, err := ReadRows(counter)
	close(stopTick)
	<-tickDone
	format = fmtDetected
	upload.updateProgress(func(p *UploadProgress) { p.BytesRead = counter.BytesRead() })

	if err != nil {
		fail(err)
		return
	}
	if err := ctx.Err(); err != nil {
		fail(err)
		return
	}

	upload.updateProgress(func(p *UploadProgress) { p.Phase = PhaseNormalizing })

	headerIdx, cols, err := findHeaderRow(rows)
	if err != nil {
		fail(err)
		return
	}

	dataRows := rows[headerIdx+1:]
	upload.updateProgress(func(p *UploadProgress) { p.RowsRead = len(dataRows) })

	records, skipped, err := normalizeRows(ctx, dataRows, headerIdx, cols, upload)
	if err != nil {
		fail(err)
		return
	}
	if err := validateRecords(len(records), skipped); err != nil {
		fail(err)
		return
	}

	idx, dups := BuildIndex(records)
	ds := &Dataset{
		Records:    records,
		FileName:   upload.FileName,
		Format:     format,
		LoadedAt:   time.Now(),
		Duplicates: dups,
	}

	result := &UploadResult{
		UploadID:  upload.ID,
		FileName:  upload.FileName,
		Format:    format,
		TotalRows: len(dataRows),
		Loaded:    len(records),
		Skipped:   skipped,
		Duration:  time.Since(startTime),
	}

	if err := s.commitDataset(upload, ds, idx); err != nil {
		result.Superseded = true
		result.Error = err.Error()
		upload.updateProgress(func(p *UploadProgress) {
			p.Phase = PhaseFailed
			p.Error = err.Error()
		})
		upload.Result = result
		slog.Info("upload superseded",
			"upload_id", upload.ID,
			"file", upload.FileName,
			"duration_ms", time.Since(startTime).Milliseconds(),
		)
		return
	}

	upload.updateProgress(func(p *UploadProgress) {
		p.Phase = PhaseComplete
		p.RowsLoaded = len(records)
	})
	upload.Result = result

	slog.Info("dataset loaded",
		"upload_id", upload.ID,
		"file", upload.FileName,
		"format", string(format),
		"rows", len(records),
		"skipped", skipped,
		"duplicates", dups,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
}

// normalizeRows maps data rows through the column bindings. Blank rows are
// dropped silently; rows lacking both code and model are dropped and
// counted so the result can report them.
func normalizeRows(ctx context.Context, dataRows [][]string, headerIdx int, cols ColumnMap, upload *activeUpload) ([]Record, int, error) {
	records := make([]Record, 0, len(dataRows))
	skipped := 0

	for i, row := range dataRows {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		if isEmptyRow(row) {
			continue
		}

		rec := NormalizeRecord(row, cols, headerIdx+i+2) // 1-indexed, after header
		if rec.Empty() {
			skipped++
			continue
		}
		records = append(records, rec)

		if len(records)%500 == 0 {
			upload.updateProgress(func(p *UploadProgress) { p.RowsLoaded = len(records) })
		}
	}
	return records, skipped, nil
}

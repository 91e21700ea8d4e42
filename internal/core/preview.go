package core

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"
)

// preview.go implements read-only upload analysis. The sheet runs through
// the same reader, header detection and normalization as a real upload,
// but nothing is installed; the caller gets the detected layout, counts
// and samples so a bad export can be caught before replacing the dataset.

// PreviewSummary carries the row counts a full upload would produce.
type PreviewSummary struct {
	TotalRows  int `json:"totalRows"`
	Usable     int `json:"usable"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	LowStock   int `json:"lowStock"`
}

// ColumnBinding reports which sheet column feeds which record field.
type ColumnBinding struct {
	Field  Field  `json:"field"`
	Column int    `json:"column"`
	Header string `json:"header"`
}

// DuplicatePreview lists the rows sharing one code. Only the first row's
// record would be loaded.
type DuplicatePreview struct {
	Code string `json:"code"`
	Rows []int  `json:"rows"`
}

// PreviewResponse is the complete result of upload analysis.
type PreviewResponse struct {
	FileName         string             `json:"fileName"`
	Format           SheetFormat        `json:"format"`
	HeaderRow        int                `json:"headerRow"`
	Columns          []ColumnBinding    `json:"columns"`
	Summary          PreviewSummary     `json:"summary"`
	Samples          []Record           `json:"samples"`
	DuplicateSamples []DuplicatePreview `json:"duplicateSamples,omitempty"`
	ProcessingTimeMs int64              `json:"processingTimeMs"`
}

// Sample limits
const (
	maxPreviewSamples   = 10
	maxDuplicateSamples = 10
)

// AnalyzeUpload parses a sheet without touching the live dataset. Structural
// problems (unreadable file, no recognizable header) return an error; an
// empty or unusable body is reported through the summary counts instead so
// the caller can show what a real upload would reject.
func (s *Service) AnalyzeUpload(ctx context.Context, fileName string, data []byte) (*PreviewResponse, error) {
	startTime := time.Now()

	if len(data) == 0 {
		return nil, fmt.Errorf("no file provided")
	}

	rows, format, err := ReadRows(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	headerIdx, cols, err := findHeaderRow(rows)
	if err != nil {
		return nil, err
	}

	resp := &PreviewResponse{
		FileName:  fileName,
		Format:    format,
		HeaderRow: headerIdx + 1, // 1-indexed for display
	}
	for _, spec := range recordFields {
		for _, ref := range cols[spec.Field] {
			resp.Columns = append(resp.Columns, ColumnBinding{
				Field:  spec.Field,
				Column: ref.Index,
				Header: ref.Header,
			})
		}
	}

	dataRows := rows[headerIdx+1:]
	resp.Summary.TotalRows = len(dataRows)

	seenRows := make(map[string][]int)
	firstCode := make(map[string]string)

	for i, row := range dataRows {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isEmptyRow(row) {
			continue
		}

		rowNum := headerIdx + i + 2
		rec := NormalizeRecord(row, cols, rowNum)
		if rec.Empty() {
			resp.Summary.Skipped++
			continue
		}

		resp.Summary.Usable++
		if rec.Quantity.Low() {
			resp.Summary.LowStock++
		}
		if key := NormalizeKey(rec.Code); key != "" {
			seenRows[key] = append(seenRows[key], rowNum)
			if _, ok := firstCode[key]; !ok {
				firstCode[key] = rec.Code
			}
		}
		if len(resp.Samples) < maxPreviewSamples {
			resp.Samples = append(resp.Samples, rec)
		}
	}

	var dups []DuplicatePreview
	for key, rowNums := range seenRows {
		if len(rowNums) > 1 {
			resp.Summary.Duplicates += len(rowNums) - 1
			dups = append(dups, DuplicatePreview{Code: firstCode[key], Rows: rowNums})
		}
	}
	sort.Slice(dups, func(i, j int) bool { return dups[i].Rows[0] < dups[j].Rows[0] })
	if len(dups) > maxDuplicateSamples {
		dups = dups[:maxDuplicateSamples]
	}
	resp.DuplicateSamples = dups

	resp.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	return resp, nil
}

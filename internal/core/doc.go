// Package core provides the business logic for the inventory lookup station.
//
// This package is the heart of the application, containing all domain logic
// independent of any UI or transport layer. It can be used by web handlers,
// CLI tools, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Records: Normalized inventory rows (code, model, location, quantity)
//     built from uploaded spreadsheets with Portuguese column aliases.
//   - Index: An in-memory lookup table keyed by normalized product code.
//   - Service: The main entry point for all operations (upload, search, scan).
//   - Scan sessions: Camera-driven barcode reads that resolve to the same
//     lookup path as typed queries.
//
// # Dataset Lifecycle
//
// Exactly one dataset is live at a time. A new upload parses off the request
// goroutine and, on success, replaces the dataset wholesale:
//
//  1. Client calls [Service.StartUpload] with an io.Reader
//  2. Service wraps the reader with encoding detection and byte counting
//  3. Rows are normalized against the column alias table
//  4. Progress is broadcast to subscribers via [Service.SubscribeProgress]
//  5. The finished dataset is committed only if no newer upload has landed
//
// Each upload carries a monotonic sequence number. A slow parse that finishes
// after a newer upload has committed is discarded rather than allowed to
// overwrite the newer dataset.
//
// # Search
//
// [Service.Submit] resolves a query against the live index. Matching is exact
// after trimming, lowercasing, and accent folding, so "Código" and "codigo"
// compare equal. Every submit lands in exactly one of three outcomes: a hit,
// a coded not-found error, or a coded no-dataset error. Scanned codes go
// through the same path as typed ones.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE005: File errors (size, encoding, format)
//   - FMT001-FMT002: Spreadsheet format errors (columns, usable rows)
//   - LKP001-LKP002: Lookup errors (not found, no dataset)
//   - CAM001-CAM004: Camera errors (permission, missing device, busy)
//   - SCN001-SCN003: Scan session errors (already active, timeout)
//   - UPL001-UPL006: Upload errors (cancelled, timeout, superseded)
//   - RATE001: Too many requests
package core

package core

// error_messages.go defines user-friendly error messages with codes for
// support reference. When operators hit an error at the station, they can
// quote the code for faster diagnosis.
//
// Error codes are grouped by category:
//
//	FILE001-FILE005  File errors (size, parse failures, empty files)
//	FMT001-FMT002    Sheet format errors (columns, unusable rows)
//	LKP001-LKP002    Lookup errors (not found, no dataset)
//	CAM001-CAM004    Camera errors (permission, missing device, busy)
//	SCN001-SCN003    Scan session errors (already active, expired, timeout)
//	UPL001-UPL006    Upload lifecycle errors (cancelled, queued out, stale)
//	RATE001          Request throttling
//	ERR000           Fallback when no pattern matches
//
// Patterns are matched case-insensitively using strings.Contains. The first
// matching pattern wins, so more specific patterns are listed before general
// ones. When a user reports ERR000, check the application logs for the
// original technical error.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`        // What happened (user-friendly)
	Action  string `json:"action"`         // What to do about it
	Code    string `json:"code,omitempty"` // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user
// messages. Matching uses strings.Contains and the first hit wins, so
// specific patterns come before general ones within each category.
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the reference at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE005)
	// These errors occur when reading uploaded files.
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Export a smaller sheet or split it in two",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Export a smaller sheet or split it in two",
			Code:    "FILE001",
		},
	},
	{
		pattern: "parse csv",
		msg: UserMessage{
			Message: "The file could not be read as CSV",
			Action:  "Re-export the sheet as CSV or xlsx and try again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "open xlsx",
		msg: UserMessage{
			Message: "The file could not be read as an Excel workbook",
			Action:  "Re-save the file in Excel and upload it again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "read worksheet",
		msg: UserMessage{
			Message: "The first worksheet could not be read",
			Action:  "Re-save the file in Excel and upload it again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose a CSV or xlsx file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload a sheet that contains inventory rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "no worksheets",
		msg: UserMessage{
			Message: "The workbook has no sheets",
			Action:  "Upload a workbook with at least one sheet",
			Code:    "FILE005",
		},
	},
	{
		pattern: "header but no data",
		msg: UserMessage{
			Message: "The sheet has headers but no rows",
			Action:  "Upload a sheet that contains inventory rows",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Sheet Format Errors (FMT001-FMT002)
	// These errors occur when a sheet parses but its shape is unusable.
	// =========================================================================
	{
		pattern: "no recognized columns",
		msg: UserMessage{
			Message: "No product code or model column was found",
			Action:  "Use headers like Código, Produto, Modelo or Descricao",
			Code:    "FMT001",
		},
	},
	{
		pattern: "no rows with a code or model",
		msg: UserMessage{
			Message: "Every row is missing both code and model",
			Action:  "Check that the code column is filled in the export",
			Code:    "FMT002",
		},
	},

	// =========================================================================
	// Lookup Errors (LKP001-LKP002)
	// These errors are the expected misses of the search flow.
	// =========================================================================
	{
		pattern: "no record matches",
		msg: UserMessage{
			Message: "No record matches this code",
			Action:  "Check the code or scan the label again",
			Code:    "LKP001",
		},
	},
	{
		pattern: "no dataset loaded",
		msg: UserMessage{
			Message: "No inventory sheet is loaded yet",
			Action:  "Upload a sheet before searching",
			Code:    "LKP002",
		},
	},

	// =========================================================================
	// Camera Errors (CAM001-CAM004)
	// Ordered so specific camera failures match before the generic one.
	// =========================================================================
	{
		pattern: "camera permission",
		msg: UserMessage{
			Message: "Camera access was denied",
			Action:  "Grant camera permission and try again",
			Code:    "CAM001",
		},
	},
	{
		pattern: "no camera",
		msg: UserMessage{
			Message: "No camera was found",
			Action:  "Connect a camera and try again",
			Code:    "CAM002",
		},
	},
	{
		pattern: "camera busy",
		msg: UserMessage{
			Message: "The camera is in use by another program",
			Action:  "Close other programs using the camera and try again",
			Code:    "CAM003",
		},
	},
	{
		pattern: "resource busy",
		msg: UserMessage{
			Message: "The camera is in use by another program",
			Action:  "Close other programs using the camera and try again",
			Code:    "CAM003",
		},
	},
	{
		pattern: "camera",
		msg: UserMessage{
			Message: "The camera failed",
			Action:  "Reconnect the camera and try again",
			Code:    "CAM004",
		},
	},

	// =========================================================================
	// Scan Session Errors (SCN001-SCN003)
	// =========================================================================
	{
		pattern: "scan already active",
		msg: UserMessage{
			Message: "A scan is already running",
			Action:  "Stop the current scan before starting another",
			Code:    "SCN001",
		},
	},
	{
		pattern: "scan session not found",
		msg: UserMessage{
			Message: "Scan session not found",
			Action:  "The scan may have ended. Start a new one",
			Code:    "SCN002",
		},
	},
	{
		pattern: "scan timed out",
		msg: UserMessage{
			Message: "The scan timed out without reading a code",
			Action:  "Hold the label steady in front of the camera and retry",
			Code:    "SCN003",
		},
	},

	// =========================================================================
	// Upload Lifecycle Errors (UPL001-UPL006)
	// These errors occur during the upload process and session management.
	// =========================================================================
	{
		pattern: "upload cancelled",
		msg: UserMessage{
			Message: "Upload was cancelled",
			Action:  "Start a new upload when ready",
			Code:    "UPL001",
		},
	},
	{
		pattern: "too many uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "upload not found",
		msg: UserMessage{
			Message: "Upload session not found",
			Action:  "The upload may have expired. Please start a new upload",
			Code:    "UPL003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try uploading a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "superseded by a newer upload",
		msg: UserMessage{
			Message: "A newer upload finished first",
			Action:  "The newest sheet is live. No action needed",
			Code:    "UPL006",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// Support staff should check application logs for the original technical
// error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := errors.New("no record matches \"X-42\"")
//	msg := MapError(err)
//	// msg.Code == "LKP001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be
// shown to users as-is. Returns false for the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while the display path gets a
// clean message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}

package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Action: Remove unneeded columns or split the file
//	          Patterns: "file too large"
//
//	FILE002 - No file: A file was not selected
//	          Action: Select both CSV files to compare
//	          Patterns: "no file provided"
//
//	FILE003 - Encoding error: File is not readable in the chosen encoding
//	          Action: Save the file as UTF-8 or pick its encoding
//	          Patterns: "encoding error"
//
//	FILE004 - Empty file: No header row was found
//	          Action: Check the file has a header row and the skip rows setting
//	          Patterns: "empty file"
//
// # CSV Errors (CSV001-CSV099)
//
//	CSV001 - Invalid option: A loader setting is not usable
//	         Action: Check the delimiter, skip rows and encoding settings
//	         Patterns: "invalid option"
//
//	CSV002 - Duplicate columns: Header repeats a column name
//	         Action: Rename the repeated columns
//	         Patterns: "duplicate column"
//
//	CSV003 - Invalid header: Header row is unusable
//	         Action: Check the first row after skipped lines
//	         Patterns: "invalid header"
//
//	CSV004 - Invalid CSV: File could not be parsed as delimited text
//	         Action: Check the delimiter and quoting
//	         Patterns: "invalid csv"
//
// # Schema Errors (SCH001-SCH099)
//
//	SCH001 - Schema mismatch: The files have different columns
//	         Action: Align the headers or compare with override enabled
//	         Patterns: "schema mismatch"
//
// # Comparison Errors (CMP001-CMP099)
//
//	CMP001 - System busy: Too many comparisons in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many comparisons"
//
//	CMP002 - Unknown export: Export target is not recognised
//	         Action: Use first, second or combined
//	         Patterns: "unknown export target"
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	UPL002 - Request timeout: Request timed out
//	         Action: Try smaller files or check your connection
//	         Patterns: "context deadline exceeded"
//
//	UPL003 - Bad form: Upload form could not be read
//	         Action: Submit the form again
//	         Patterns: "invalid form"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Typed errors in the chain (LoadError, SchemaMismatchError, the sentinels)
// pick the code first. Text patterns are the fallback for untyped errors and
// are matched against the error with any InputError stripped, so a file name
// never decides the code. Patterns are matched case-insensitively using
// strings.Contains and the first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: the first match wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE004)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unneeded columns or split the file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "A file was not selected",
			Action:  "Select both CSV files to compare",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid option",
		msg: UserMessage{
			Message: "A loader setting is not usable",
			Action:  "Check the delimiter, skip rows and encoding settings",
			Code:    "CSV001",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File is not readable in the chosen encoding",
			Action:  "Save the file as UTF-8 or pick its encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "No header row was found",
			Action:  "Check the file has a header row and the skip rows setting",
			Code:    "FILE004",
		},
	},

	// =========================================================================
	// CSV Errors (CSV002-CSV004)
	// =========================================================================
	{
		pattern: "duplicate column",
		msg: UserMessage{
			Message: "The header repeats a column name",
			Action:  "Rename the repeated columns",
			Code:    "CSV002",
		},
	},
	{
		pattern: "invalid header",
		msg: UserMessage{
			Message: "The header row is unusable",
			Action:  "Check the first row after skipped lines",
			Code:    "CSV003",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File could not be parsed as delimited text",
			Action:  "Check the delimiter and quoting",
			Code:    "CSV004",
		},
	},

	// =========================================================================
	// Schema and Comparison Errors (SCH001, CMP001-CMP002)
	// =========================================================================
	{
		pattern: "schema mismatch",
		msg: UserMessage{
			Message: "The files have different columns",
			Action:  "Align the headers or compare with override enabled",
			Code:    "SCH001",
		},
	},
	{
		pattern: "too many comparisons",
		msg: UserMessage{
			Message: "System is busy processing other comparisons",
			Action:  "Please wait a moment and try again",
			Code:    "CMP001",
		},
	},
	{
		pattern: "unknown export target",
		msg: UserMessage{
			Message: "Export target is not recognised",
			Action:  "Use first, second or combined",
			Code:    "CMP002",
		},
	},

	// =========================================================================
	// Upload Errors (UPL001-UPL003)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try smaller files or check your connection",
			Code:    "UPL002",
		},
	},
	{
		pattern: "invalid form",
		msg: UserMessage{
			Message: "The upload form could not be read",
			Action:  "Submit the form again",
			Code:    "UPL003",
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
//	_, err := CompareTables(a, b, ModeStrict)
//	msg := MapError(err)
//	// msg.Code == "SCH001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if code := typedCode(err); code != "" {
		if msg, ok := messageFor(code); ok {
			return msg
		}
	}

	var inErr *InputError
	if errors.As(err, &inErr) && inErr.Err != nil {
		err = inErr.Err
	}
	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// typedCode returns the code for the first known error type in err's chain,
// or "" when only text matching can classify it.
func typedCode(err error) string {
	var (
		optErr    *InvalidOptionError
		dupErr    *DuplicateColumnsError
		schemaErr *SchemaMismatchError
		loadErr   *LoadError
	)
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return "FILE001"
	case errors.As(err, &optErr):
		return "CSV001"
	case errors.As(err, &dupErr):
		return "CSV002"
	case errors.As(err, &schemaErr):
		return "SCH001"
	case errors.As(err, &loadErr):
		switch loadErr.Kind {
		case KindDecode:
			return "FILE003"
		case KindEmpty:
			return "FILE004"
		case KindHeader:
			return "CSV003"
		default:
			return "CSV004"
		}
	case errors.Is(err, ErrTooManyComparisons):
		return "CMP001"
	case errors.Is(err, ErrUnknownExportTarget):
		return "CMP002"
	case errors.Is(err, context.Canceled):
		return "UPL001"
	case errors.Is(err, context.DeadlineExceeded):
		return "UPL002"
	}
	return ""
}

func messageFor(code string) (UserMessage, bool) {
	for _, ep := range errorPatterns {
		if ep.msg.Code == code {
			return ep.msg, true
		}
	}
	return UserMessage{}, false
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

// IsUserFacing reports whether err matches a known pattern, i.e. whether
// its mapped message is more useful than the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

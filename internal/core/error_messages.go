// Package core provides the business logic for KPI spreadsheet imports.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// The import report prints the code next to every rejected row, and the CLI
// prints it next to any fatal error, so operators can quote it.
//
// Typed errors from this package are matched first with errors.Is/As; anything
// else falls back to case-insensitive pattern matching on the message text.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A snapshot with this key already exists
//	        Patterns: "duplicate key", "duplicate entry"
//
//	DB002 - Unique constraint: This value must be unique but already exists
//	        Patterns: "unique constraint", "violates unique"
//
//	DB003 - Foreign key: Referenced company does not exist
//	        Patterns: "foreign key constraint", "violates foreign key",
//	        "foreign key constraint fails"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB005 - Connection lost: Database connection was interrupted
//	        Matches: store.ErrConnectionLost
//	        Patterns: "connection reset", "broken pipe", "bad connection"
//
//	DB006 - Timeout: Operation timed out
//	        Patterns: "timeout"
//
//	DB007 - Deadlock: Database was busy with conflicting operations
//	        Patterns: "deadlock"
//
//	DB008 - Missing table: The snapshot table does not exist
//	        Patterns: "does not exist", "doesn't exist"
//
//	DB009 - Authentication: Database rejected the credentials
//	        Patterns: "password authentication failed", "access denied"
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date: Date cell is not in YYYY-MM-DD format
//	         Matches: *CoercionError with a date type
//
//	VAL002 - Invalid number: Numeric cell could not be read
//	         Matches: *CoercionError with a numeric type
//
//	VAL007 - Unknown company: Company name is not in the entity table
//	         Matches: ErrUnknownEntity
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: Workbook exceeds the configured size limit
//	          Patterns: "file too large"
//
//	FILE002 - Invalid workbook: File is not a valid xlsx workbook
//	          Patterns: "not a valid zip file", "unsupported workbook file format"
//
//	FILE006 - File not found: The workbook path does not exist
//	          Matches: os.ErrNotExist
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Commit failed: Nothing from this run was saved
//	         Matches: *CommitError
//
//	IMP002 - Source unavailable: The workbook or database could not be opened
//	         Matches: *SourceOpenError not covered by a more specific code
//
//	IMP003 - Cancelled: The import was cancelled before finishing
//	         Patterns: "context canceled"
//
//	IMP004 - Deadline: The import ran out of time
//	         Patterns: "context deadline exceeded"
//
// # Configuration Errors (CFG001-CFG099)
//
//	CFG001 - Database not configured: DATABASE_URL is missing
//	         Patterns: "database_url is not set"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check the logs for the technical error.
package core

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/JonMunkholm/kpiimport/internal/store"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgInvalidDate = UserMessage{
		Message: "Invalid date format detected",
		Action:  "Write dates as YYYY-MM-DD, for example 2024-09-01",
		Code:    "VAL001",
	}
	msgInvalidNumber = UserMessage{
		Message: "Invalid number format detected",
		Action:  "Remove currency symbols and thousands separators, use a dot for decimals",
		Code:    "VAL002",
	}
	msgUnknownEntity = UserMessage{
		Message: "Company name is not recognized",
		Action:  "Use one of the configured company names exactly as written",
		Code:    "VAL007",
	}
	msgConnectionLost = UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Nothing was saved. Please run the import again",
		Code:    "DB005",
	}
	msgFileNotFound = UserMessage{
		Message: "Workbook file not found",
		Action:  "Check the path passed to the importer",
		Code:    "FILE006",
	}
	msgCommitFailed = UserMessage{
		Message: "Import could not be committed and was rolled back",
		Action:  "Nothing was saved. Check the database and run the import again",
		Code:    "IMP001",
	}
	msgSourceOpen = UserMessage{
		Message: "Import source could not be opened",
		Action:  "Check that the workbook is readable and the database is reachable",
		Code:    "IMP002",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so more specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Constraint Errors (DB001-DB003)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A snapshot with this key already exists",
			Action:  "Check whether this workbook was already imported",
			Code:    "DB001",
		},
	},
	{
		pattern: "duplicate entry",
		msg: UserMessage{
			Message: "A snapshot with this key already exists",
			Action:  "Check whether this workbook was already imported",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate dates for the same company",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Check for duplicate dates for the same company",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key constraint",
		msg: UserMessage{
			Message: "Referenced company does not exist",
			Action:  "Create the company before importing its snapshots",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced company does not exist",
			Action:  "Create the company before importing its snapshots",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Database Connection Errors (DB004-DB009)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg:     msgConnectionLost,
	},
	{
		pattern: "broken pipe",
		msg:     msgConnectionLost,
	},
	{
		pattern: "bad connection",
		msg:     msgConnectionLost,
	},
	{
		pattern: "password authentication failed",
		msg: UserMessage{
			Message: "Database rejected the credentials",
			Action:  "Check the user and password in DATABASE_URL",
			Code:    "DB009",
		},
	},
	{
		pattern: "access denied",
		msg: UserMessage{
			Message: "Database rejected the credentials",
			Action:  "Check the user and password in DATABASE_URL",
			Code:    "DB009",
		},
	},

	// =========================================================================
	// Import Errors (IMP003-IMP004)
	// Checked before "timeout" so cancellation is not reported as a DB issue.
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Import was cancelled",
			Action:  "Nothing was saved. Run the import again when ready",
			Code:    "IMP003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Import ran out of time",
			Action:  "Nothing was saved. Run the import again",
			Code:    "IMP004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
	{
		pattern: "does not exist",
		msg: UserMessage{
			Message: "The snapshot table does not exist",
			Action:  "Run the database migrations or set SNAPSHOT_TABLE",
			Code:    "DB008",
		},
	},
	{
		pattern: "doesn't exist",
		msg: UserMessage{
			Message: "The snapshot table does not exist",
			Action:  "Run the database migrations or set SNAPSHOT_TABLE",
			Code:    "DB008",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE002)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "Workbook exceeds the maximum size limit",
			Action:  "Raise IMPORT_MAX_FILE_SIZE or split the workbook",
			Code:    "FILE001",
		},
	},
	{
		pattern: "not a valid zip file",
		msg: UserMessage{
			Message: "File is not a valid xlsx workbook",
			Action:  "Save the file as an Excel workbook (.xlsx)",
			Code:    "FILE002",
		},
	},
	{
		pattern: "unsupported workbook file format",
		msg: UserMessage{
			Message: "File is not a valid xlsx workbook",
			Action:  "Save the file as an Excel workbook (.xlsx)",
			Code:    "FILE002",
		},
	},

	// =========================================================================
	// Configuration Errors (CFG001)
	// =========================================================================
	{
		pattern: "database_url is not set",
		msg: UserMessage{
			Message: "Database is not configured",
			Action:  "Set DATABASE_URL or run with --dry-run",
			Code:    "CFG001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Typed errors are matched first, then the known patterns (case-insensitive).
// If nothing matches, a generic fallback message with code ERR000 is returned.
//
// Example:
//
//	err := &UnknownEntityError{Name: "Acme"}
//	msg := MapError(err)
//	// msg.Code == "VAL007"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	if msg, ok := mapTypedError(err); ok {
		return msg
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	var soe *SourceOpenError
	if errors.As(err, &soe) {
		return msgSourceOpen
	}

	return defaultMessage
}

func mapTypedError(err error) (UserMessage, bool) {
	var (
		commitErr *CommitError
		coerceErr *CoercionError
	)

	switch {
	case errors.As(err, &commitErr):
		return msgCommitFailed, true
	case errors.Is(err, os.ErrNotExist):
		return msgFileNotFound, true
	case errors.Is(err, store.ErrConnectionLost):
		return msgConnectionLost, true
	case errors.Is(err, ErrUnknownEntity):
		return msgUnknownEntity, true
	case errors.As(err, &coerceErr):
		if coerceErr.Type == FieldDate {
			return msgInvalidDate, true
		}
		return msgInvalidNumber, true
	}
	return UserMessage{}, false
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error maps to a specific code (not the generic ERR000 fallback).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
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

// Detail formats the message for display as "Message (Code: XXX). Action".
func (e *UserError) Detail() string {
	return fmt.Sprintf("%s (Code: %s). %s", e.User.Message, e.User.Code, e.User.Action)
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}

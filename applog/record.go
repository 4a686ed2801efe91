// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package applog

import (
	"errors"
	"fmt"
)

// Category is the error type of a record. It selects the destination file
// and the console color.
type Category string

const (
	CategorySQL        Category = "SQL_ERROR"
	CategoryValidation Category = "VALIDATION_ERROR"
	CategoryRoute      Category = "ROUTE_ERROR"
	CategorySecurity   Category = "SECURITY_ERROR"
	CategoryGeneral    Category = "GENERAL_ERROR"
)

// Categories lists every category, in display order.
var Categories = []Category{CategorySQL, CategoryValidation, CategoryRoute, CategorySecurity, CategoryGeneral}

// Log file names inside the log directory.
const (
	ErrorLogFile      = "error.log"
	SQLLogFile        = "sql.log"
	ValidationLogFile = "validation.log"
	AccessLogFile     = "access.log"
)

// File returns the log file a category is appended to.
func (c Category) File() string {
	switch c {
	case CategorySQL:
		return SQLLogFile
	case CategoryValidation:
		return ValidationLogFile
	}
	return ErrorLogFile
}

// TimeFormat matches JavaScript's toISOString output.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// Record is one logged failure. Records are never mutated once returned.
type Record struct {
	ID        string   `json:"id"`
	Timestamp string   `json:"timestamp"`
	Type      Category `json:"type"`
	Context   string   `json:"context"`
	Message   string   `json:"message"`
	Stack     string   `json:"stack,omitempty"`
	Details   any      `json:"details"`
}

// StackError is an error that carries a captured stack trace.
type StackError struct {
	Err   error
	Trace string
}

func (e *StackError) Error() string { return e.Err.Error() }
func (e *StackError) Unwrap() error { return e.Err }

// WithStack attaches trace to err. A nil err stays nil.
func WithStack(err error, trace string) error {
	if err == nil {
		return nil
	}
	return &StackError{Err: err, Trace: trace}
}

// describe extracts the message and optional stack from whatever the caller
// handed in as the error.
func describe(err any) (message, stack string) {
	switch e := err.(type) {
	case nil:
		return "unknown error", ""
	case string:
		return e, ""
	case error:
		var se *StackError
		if errors.As(e, &se) {
			stack = se.Trace
		}
		return e.Error(), stack
	case fmt.Stringer:
		return e.String(), ""
	}
	return fmt.Sprint(err), ""
}

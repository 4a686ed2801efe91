// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/danielhkuo/mentoria/applog"
	"github.com/danielhkuo/mentoria/models"
)

// GenericMessage is shown to the user for failures without their own message.
const GenericMessage = "Internal server error"

// AppHandler is a handler that reports failures by returning them.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// HTTPError is a failure with the status and log category it maps to.
type HTTPError struct {
	Status   int
	Message  string
	Category applog.Category
	Context  string
	// SQL is set for SQL_ERROR failures.
	SQL *applog.SQLDetails
	// ValidationErrors and RequestData are set for VALIDATION_ERROR failures.
	ValidationErrors any
	RequestData      any
	// Details is attached to GENERAL_ERROR records.
	Details map[string]any
	Err     error
}

func (e *HTTPError) Error() string {
	switch {
	case e.Err != nil:
		return e.Err.Error()
	case e.Message != "":
		return e.Message
	}
	return http.StatusText(e.status())
}

func (e *HTTPError) Unwrap() error { return e.Err }

func (e *HTTPError) status() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// SQLError wraps a failed statement as a 500.
func SQLError(context, message string, err error, d applog.SQLDetails) *HTTPError {
	return &HTTPError{
		Status:   http.StatusInternalServerError,
		Message:  message,
		Category: applog.CategorySQL,
		Context:  context,
		SQL:      &d,
		Err:      err,
	}
}

// ValidationError rejects request input with a 400.
func ValidationError(context, message string, validationErrors, requestData any) *HTTPError {
	return &HTTPError{
		Status:           http.StatusBadRequest,
		Message:          message,
		Category:         applog.CategoryValidation,
		Context:          context,
		ValidationErrors: validationErrors,
		RequestData:      requestData,
	}
}

// WithErrors adapts an AppHandler. Every returned error (or panic) is logged
// exactly once and answered with its status and the diagnostic record.
func WithErrors(logger *applog.Logger, next AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				if p == http.ErrAbortHandler {
					panic(p)
				}
				err := applog.WithStack(fmt.Errorf("panic: %v", p), string(debug.Stack()))
				HandleError(logger, w, r, err)
			}
		}()

		if err := next(w, r); err != nil {
			HandleError(logger, w, r, err)
		}
	}
}

// HandleError is the terminal error stage: it writes one log record for err
// and replies {error, message, debugInfo}.
func HandleError(logger *applog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var he *HTTPError
	if !errors.As(err, &he) {
		he = &HTTPError{Err: err}
	}

	status := he.status()
	message := he.Message
	if message == "" {
		message = GenericMessage
	}
	context := he.Context
	if context == "" {
		context = r.Method + " " + r.URL.Path
	}

	var rec applog.Record
	switch he.Category {
	case applog.CategorySQL:
		d := applog.SQLDetails{}
		if he.SQL != nil {
			d = *he.SQL
		}
		if d.Extra == nil {
			d.Extra = map[string]any{}
		}
		d.Extra["request"] = r.URL.RequestURI()
		rec = logger.LogSQLError(context, err, d)
	case applog.CategoryValidation:
		rec = logger.LogValidationError(context, he.ValidationErrors, he.RequestData)
	case applog.CategoryRoute:
		rec = logger.LogRouteError(r)
	default:
		details := map[string]any{
			"method": r.Method,
			"url":    r.URL.RequestURI(),
			"remote": GetClientIP(r),
		}
		for k, v := range he.Details {
			details[k] = v
		}
		cat := he.Category
		if cat == "" {
			cat = applog.CategoryGeneral
		}
		rec = logger.LogError(context, err, details, cat)
	}

	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"type", rec.Type,
		"error_id", rec.ID,
	)
	SetAccessNote(r, fmt.Sprintf("%s %s", rec.Type, rec.ID))

	JSONResponse(w, status, models.DiagnosticResponse{
		Error:     true,
		Message:   message,
		DebugInfo: rec,
	})
}

// NotFound answers unmatched routes with 404 and a ROUTE_ERROR record.
func NotFound(logger *applog.Logger) http.HandlerFunc {
	return WithErrors(logger, func(w http.ResponseWriter, r *http.Request) error {
		return &HTTPError{
			Status:   http.StatusNotFound,
			Message:  "Route not found",
			Category: applog.CategoryRoute,
		}
	})
}

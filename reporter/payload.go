// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reporter

import (
	"errors"
	"fmt"
	"strings"
)

// Viewport is the client window size.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Environment describes the client the error happened on.
type Environment struct {
	UserAgent string    `json:"userAgent,omitempty"`
	Language  string    `json:"language,omitempty"`
	Platform  string    `json:"platform,omitempty"`
	Viewport  *Viewport `json:"viewport,omitempty"`
}

// Payload is the body posted to /api/log-error and the unit the pending
// queue stores. ID identifies a queued entry across retries.
type Payload struct {
	ID             string         `json:"id"`
	Timestamp      string         `json:"timestamp"`
	Context        string         `json:"context"`
	Message        string         `json:"message"`
	Stack          string         `json:"stack,omitempty"`
	ErrorType      string         `json:"errorType"`
	URL            string         `json:"url,omitempty"`
	HTTPStatus     int            `json:"httpStatus,omitempty"`
	HTTPStatusText string         `json:"httpStatusText,omitempty"`
	BrowserInfo    Environment    `json:"browserInfo"`
	AppState       map[string]any `json:"appState,omitempty"`
	AdditionalInfo map[string]any `json:"additionalInfo"`
}

// StatusError is a failed HTTP exchange seen by the client.
type StatusError struct {
	Code int
	Text string
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.URL, e.Code, e.Text)
}

// stackTracer is an error carrying its own trace.
type stackTracer interface {
	StackTrace() string
}

type panicError struct {
	value any
	stack string
}

func (e *panicError) Error() string      { return fmt.Sprintf("panic: %v", e.value) }
func (e *panicError) StackTrace() string { return e.stack }

// errorType names err the way a stack trace would, without pointer marks.
func errorType(err error) string {
	if err == nil {
		return "Error"
	}
	switch err.(type) {
	case *panicError:
		return "Panic"
	case *StatusError:
		return "HTTPError"
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
}

func fillError(p *Payload, err error) {
	if err == nil {
		p.Message = "unknown error"
		p.ErrorType = errorType(nil)
		return
	}
	p.Message = err.Error()
	p.ErrorType = errorType(err)

	var st stackTracer
	if errors.As(err, &st) {
		p.Stack = st.StackTrace()
	}
	var se *StatusError
	if errors.As(err, &se) {
		p.HTTPStatus = se.Code
		p.HTTPStatusText = se.Text
		if p.URL == "" {
			p.URL = se.URL
		}
	}
}

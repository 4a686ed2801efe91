// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package applog

import (
	"fmt"
	"net/http"
	"strings"
)

// SQLDetails describes a failing statement.
type SQLDetails struct {
	Query     string
	Params    []any
	Table     string
	Operation string
	// Extra is merged into the record details.
	Extra map[string]any
}

func (d SQLDetails) fields() map[string]any {
	out := make(map[string]any, len(d.Extra)+4)
	for k, v := range d.Extra {
		out[k] = v
	}
	params := d.Params
	if params == nil {
		params = []any{}
	}
	out["query"] = d.Query
	out["params"] = params
	out["table"] = d.Table
	out["operation"] = d.Operation
	return out
}

// LogSQLError records a failed statement in sql.log.
func (l *Logger) LogSQLError(context string, err error, d SQLDetails) Record {
	return l.LogError(context, err, d.fields(), CategorySQL)
}

// LogValidationError records rejected request input in validation.log.
func (l *Logger) LogValidationError(context string, validationErrors any, requestData any) Record {
	if requestData == nil {
		requestData = map[string]any{}
	}
	return l.LogError(context, "validation failed", map[string]any{
		"validationErrors": validationErrors,
		"requestData":      requestData,
	}, CategoryValidation)
}

// redactedHeaders never reach the log files.
var redactedHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
}

// LogRouteError records a request that matched no route.
func (l *Logger) LogRouteError(r *http.Request) Record {
	url := r.URL.RequestURI()
	return l.LogError("Route not found", fmt.Sprintf("Route %s %s not found", r.Method, url), map[string]any{
		"method":  r.Method,
		"url":     url,
		"params":  map[string]string{},
		"query":   r.URL.Query(),
		"headers": headerMap(r.Header),
	}, CategoryRoute)
}

func headerMap(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if redactedHeaders[k] {
			out[strings.ToLower(k)] = "[redacted]"
			continue
		}
		out[strings.ToLower(k)] = strings.Join(v, ", ")
	}
	return out
}

// LogAccess appends one line to access.log. It never fails the request.
func (l *Logger) LogAccess(r *http.Request, status int, message string) {
	line := fmt.Sprintf("%s [%d] %s %s - %s\n", l.timestamp(), status, r.Method, r.URL.Path, message)
	l.append(AccessLogFile, []byte(line))
}

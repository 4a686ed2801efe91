// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package applog

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogSQLError(t *testing.T) {
	l, _ := newTestLogger(t, ColorNever)

	rec := l.LogSQLError("SQL Operation", errors.New("SQL error"), SQLDetails{
		Query:     "SELECT * FROM table",
		Params:    []any{"param1"},
		Table:     "test_table",
		Operation: "SELECT",
		Extra:     map[string]any{"request": "promedio=invalid"},
	})

	if rec.Type != CategorySQL {
		t.Errorf("Expected SQL_ERROR, got %s", rec.Type)
	}
	d := rec.Details.(map[string]any)
	if d["query"] != "SELECT * FROM table" || d["table"] != "test_table" || d["operation"] != "SELECT" {
		t.Errorf("Unexpected details: %#v", d)
	}
	if p := d["params"].([]any); len(p) != 1 || p[0] != "param1" {
		t.Errorf("Unexpected params: %#v", d["params"])
	}
	if d["request"] != "promedio=invalid" {
		t.Errorf("Expected extra fields merged, got %#v", d)
	}

	l.Flush()
	content := readLog(t, l, SQLLogFile)
	if !strings.Contains(content, "SQL_ERROR") || !strings.Contains(content, "promedio=invalid") {
		t.Errorf("Expected SQL log entry, got %q", content)
	}
}

func TestLogSQLError_NilParamsEncodeAsArray(t *testing.T) {
	l, _ := newTestLogger(t, ColorNever)

	l.LogSQLError("no params", errors.New("x"), SQLDetails{Query: "SELECT 1"})
	l.Flush()

	if !strings.Contains(readLog(t, l, SQLLogFile), `"params": []`) {
		t.Error("Expected params to encode as an empty array")
	}
}

func TestLogValidationError(t *testing.T) {
	l, _ := newTestLogger(t, ColorNever)

	validationErrors := map[string]string{"field1": "Required", "field2": "Invalid format"}
	requestData := map[string]string{"field1": "", "field2": "bad-format"}

	rec := l.LogValidationError("Validation", validationErrors, requestData)

	if rec.Type != CategoryValidation {
		t.Errorf("Expected VALIDATION_ERROR, got %s", rec.Type)
	}
	d := rec.Details.(map[string]any)
	if _, ok := d["validationErrors"]; !ok {
		t.Error("Expected validationErrors in details")
	}
	if _, ok := d["requestData"]; !ok {
		t.Error("Expected requestData in details")
	}

	l.Flush()
	if !strings.Contains(readLog(t, l, ValidationLogFile), "VALIDATION_ERROR") {
		t.Error("Expected entry in validation.log")
	}
}

func TestLogRouteError(t *testing.T) {
	l, _ := newTestLogger(t, ColorNever)

	req := httptest.NewRequest("GET", "/invalid/path?test=param", nil)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer secret")

	rec := l.LogRouteError(req)

	if rec.Type != CategoryRoute {
		t.Errorf("Expected ROUTE_ERROR, got %s", rec.Type)
	}
	if rec.Message != "Route GET /invalid/path?test=param not found" {
		t.Errorf("Unexpected message '%s'", rec.Message)
	}

	d := rec.Details.(map[string]any)
	if d["method"] != "GET" {
		t.Errorf("Expected method GET, got %v", d["method"])
	}
	headers := d["headers"].(map[string]string)
	if headers["content-type"] != "application/json" {
		t.Errorf("Expected content-type header, got %v", headers)
	}
	if headers["authorization"] != "[redacted]" {
		t.Errorf("Expected authorization to be redacted, got %q", headers["authorization"])
	}

	l.Flush()
	content := readLog(t, l, ErrorLogFile)
	if !strings.Contains(content, "ROUTE_ERROR") || !strings.Contains(content, "/invalid/path") {
		t.Errorf("Expected route error in error.log, got %q", content)
	}
	if strings.Contains(content, "Bearer secret") {
		t.Error("Authorization header leaked into the log")
	}
}

func TestLogAccess(t *testing.T) {
	l, _ := newTestLogger(t, ColorNever)

	req := httptest.NewRequest("GET", "/api/especialidades?x=1", nil)
	l.LogAccess(req, 200, "5 specialties")
	l.Flush()

	expected := "2025-03-14T09:26:53.589Z [200] GET /api/especialidades - 5 specialties\n"
	if got := readLog(t, l, AccessLogFile); got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

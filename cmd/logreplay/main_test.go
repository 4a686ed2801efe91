// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/mentoria/models"
	"github.com/danielhkuo/mentoria/reporter"
)

func seedQueue(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pending.json")
	q := reporter.NewFileQueue(path)
	for i := 0; i < n; i++ {
		if err := q.Append(reporter.Payload{ID: string(rune('a' + i)), Message: "queued"}); err != nil {
			t.Fatalf("Failed to seed queue: %v", err)
		}
	}
	return path
}

func TestRun_DrainsQueue(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(models.LogErrorResponse{Success: true, ErrorID: "srv"})
	}))
	defer srv.Close()

	path := seedQueue(t, 3)
	if err := run([]string{"-queue", path, "-url", srv.URL}); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if hits.Load() != 3 {
		t.Errorf("Expected 3 deliveries, got %d", hits.Load())
	}
	left, err := reporter.NewFileQueue(path).List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("Expected empty queue, got %d entries", len(left))
	}
}

func TestRun_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	path := seedQueue(t, 2)
	err := run([]string{"-queue", path, "-url", srv.URL})
	if err == nil || !strings.Contains(err.Error(), "2 entries") {
		t.Fatalf("Expected undelivered error, got %v", err)
	}

	left, _ := reporter.NewFileQueue(path).List()
	if len(left) != 2 {
		t.Errorf("Expected entries kept, got %d", len(left))
	}
}

func TestRun_NoQueueFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	if err := run([]string{"-queue", path}); err != nil {
		t.Errorf("Expected no error for missing queue, got %v", err)
	}
}

func TestRun_BadFlag(t *testing.T) {
	if err := run([]string{"-nope"}); err == nil {
		t.Fatal("Expected flag error")
	}
}

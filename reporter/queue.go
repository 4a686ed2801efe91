// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Queue holds payloads whose delivery failed. Implementations must be safe
// for concurrent use. Entries leave the queue only through Remove.
type Queue interface {
	Append(p Payload) error
	List() ([]Payload, error)
	Remove(ids []string) error
}

// MemoryQueue is a Queue that lives as long as the process.
type MemoryQueue struct {
	mu      sync.Mutex
	entries []Payload
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

func (q *MemoryQueue) Append(p Payload) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, p)
	return nil
}

func (q *MemoryQueue) List() ([]Payload, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Payload(nil), q.entries...), nil
}

func (q *MemoryQueue) Remove(ids []string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = without(q.entries, ids)
	return nil
}

// FileQueue keeps pending payloads in a JSON file so they survive restarts.
type FileQueue struct {
	path string
	mu   sync.Mutex
}

func NewFileQueue(path string) *FileQueue {
	return &FileQueue{path: path}
}

func (q *FileQueue) Path() string { return q.path }

func (q *FileQueue) Append(p Payload) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.read()
	if err != nil {
		return err
	}
	return q.write(append(entries, p))
}

func (q *FileQueue) List() ([]Payload, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.read()
}

func (q *FileQueue) Remove(ids []string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	entries, err := q.read()
	if err != nil {
		return err
	}
	return q.write(without(entries, ids))
}

func (q *FileQueue) read() ([]Payload, error) {
	data, err := os.ReadFile(q.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Payload{}, nil
		}
		return nil, fmt.Errorf("read pending queue: %w", err)
	}
	if len(data) == 0 {
		return []Payload{}, nil
	}

	var entries []Payload
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode pending queue %s: %w", q.path, err)
	}
	return entries, nil
}

// write replaces the file atomically so a crash never leaves half a queue.
func (q *FileQueue) write(entries []Payload) error {
	if entries == nil {
		entries = []Payload{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pending queue: %w", err)
	}

	dir := filepath.Dir(q.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create queue dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(q.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp queue file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write pending queue: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write pending queue: %w", err)
	}
	if err := os.Rename(tmp.Name(), q.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace pending queue: %w", err)
	}
	return nil
}

func without(entries []Payload, ids []string) []Payload {
	if len(ids) == 0 {
		return entries
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := entries[:0:0]
	for _, e := range entries {
		if !drop[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

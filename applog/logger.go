// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package applog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

// ColorMode controls ANSI colors on the console sink.
type ColorMode int

const (
	ColorAuto ColorMode = iota // colors only when the console is a terminal
	ColorAlways
	ColorNever
)

const ansiReset = "\x1b[0m"

var categoryColors = map[Category]string{
	CategorySQL:        "\x1b[31m", // red
	CategoryValidation: "\x1b[33m", // yellow
	CategoryRoute:      "\x1b[35m", // magenta
	CategorySecurity:   "\x1b[41m", // red background
	CategoryGeneral:    "\x1b[36m", // cyan
}

// DefaultQueueSize bounds queued appends per log file before callers wait.
const DefaultQueueSize = 4096

type Options struct {
	// Dir holds the log files. Created on first write.
	Dir string
	// Console receives the colorized summary. Defaults to os.Stderr.
	Console io.Writer
	Color   ColorMode
	// OnRecord is called with every record after it is queued.
	OnRecord func(Record)
	// QueueSize overrides DefaultQueueSize.
	QueueSize int
	// Now overrides the clock (tests).
	Now func() time.Time
}

// Logger writes categorized error records and access lines to append-only
// files. It is safe for concurrent use.
type Logger struct {
	dir       string
	console   io.Writer
	color     bool
	onRecord  func(Record)
	queueSize int
	now       func() time.Time

	consoleMu sync.Mutex

	dirOnce sync.Once
	dirErr  error

	mu     sync.Mutex
	sinks  map[string]*sink
	closed bool
}

// New creates a Logger. The directory is not touched until the first write.
func New(opts Options) (*Logger, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("log directory required")
	}

	l := &Logger{
		dir:       opts.Dir,
		console:   opts.Console,
		onRecord:  opts.OnRecord,
		queueSize: opts.QueueSize,
		now:       opts.Now,
		sinks:     make(map[string]*sink),
	}
	if l.console == nil {
		l.console = os.Stderr
	}
	if l.queueSize <= 0 {
		l.queueSize = DefaultQueueSize
	}
	if l.now == nil {
		l.now = time.Now
	}

	switch opts.Color {
	case ColorAlways:
		l.color = true
	case ColorNever:
		l.color = false
	default:
		if f, ok := l.console.(*os.File); ok {
			l.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}

	return l, nil
}

// Dir returns the log directory.
func (l *Logger) Dir() string { return l.dir }

// Path returns the full path of a log file name.
func (l *Logger) Path(name string) string { return filepath.Join(l.dir, name) }

func (l *Logger) timestamp() string {
	return l.now().UTC().Format(TimeFormat)
}

// LogError builds a record, queues it on the category's log file and prints
// a summary to the console. It never fails: write errors are reported on
// the console.
func (l *Logger) LogError(context string, err any, details any, cat Category) Record {
	if cat == "" {
		cat = CategoryGeneral
	}
	if details == nil {
		details = map[string]any{}
	}

	msg, stack := describe(err)
	rec := Record{
		ID:        uuid.NewString(),
		Timestamp: l.timestamp(),
		Type:      cat,
		Context:   context,
		Message:   msg,
		Stack:     stack,
		Details:   details,
	}

	body, jerr := json.MarshalIndent(rec, "", "  ")
	if jerr != nil {
		// details held something unencodable; keep the record, drop the payload
		rec.Details = map[string]any{"unencodable": fmt.Sprint(details)}
		body, _ = json.MarshalIndent(rec, "", "  ")
	}

	l.printConsole(cat, context, body)

	entry := fmt.Sprintf("%s [%s] %s: %s\n", rec.Timestamp, cat, context, body)
	l.append(cat.File(), []byte(entry))

	if l.onRecord != nil {
		l.onRecord(rec)
	}
	return rec
}

func (l *Logger) printConsole(cat Category, context string, body []byte) {
	color, reset := "", ""
	if l.color {
		color, reset = categoryColors[cat], ansiReset
	}

	l.consoleMu.Lock()
	defer l.consoleMu.Unlock()
	fmt.Fprintf(l.console, "%s[%s] %s:%s %s\n", color, cat, context, reset, body)
}

func (l *Logger) consoleError(format string, args ...any) {
	l.consoleMu.Lock()
	defer l.consoleMu.Unlock()
	fmt.Fprintf(l.console, format+"\n", args...)
}

func (l *Logger) ensureDir() error {
	l.dirOnce.Do(func() {
		l.dirErr = os.MkdirAll(l.dir, 0o755)
	})
	return l.dirErr
}

// append queues data on the writer for name. After Close the write happens
// inline so nothing is dropped.
func (l *Logger) append(name string, data []byte) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.writeFile(name, data)
		return
	}
	s, ok := l.sinks[name]
	if !ok {
		s = newSink(l, name, l.queueSize)
		l.sinks[name] = s
	}
	// send under the lock so Close cannot close the channel mid-send
	s.ch <- writeReq{data: data}
	l.mu.Unlock()
}

func (l *Logger) writeFile(name string, data []byte) {
	if err := l.ensureDir(); err != nil {
		l.consoleError("failed to create log directory %s: %v", l.dir, err)
		return
	}
	path := l.Path(name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.consoleError("failed to open log file %s: %v", path, err)
		return
	}
	if _, err := f.Write(data); err != nil {
		l.consoleError("failed to write log file %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		l.consoleError("failed to close log file %s: %v", path, err)
	}
}

// Flush blocks until every append queued before the call is on disk.
func (l *Logger) Flush() {
	l.mu.Lock()
	waits := make([]chan struct{}, 0, len(l.sinks))
	for _, s := range l.sinks {
		done := make(chan struct{})
		s.ch <- writeReq{flushed: done}
		waits = append(waits, done)
	}
	l.mu.Unlock()

	for _, done := range waits {
		<-done
	}
}

// Close drains every queue and stops the writers. Later records are written
// synchronously.
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	sinks := l.sinks
	l.sinks = map[string]*sink{}
	for _, s := range sinks {
		close(s.ch)
	}
	l.mu.Unlock()

	for _, s := range sinks {
		<-s.done
	}
	return nil
}

type writeReq struct {
	data    []byte
	flushed chan struct{}
}

// sink serializes appends to one file on a single goroutine.
type sink struct {
	ch   chan writeReq
	done chan struct{}
}

func newSink(l *Logger, name string, size int) *sink {
	s := &sink{
		ch:   make(chan writeReq, size),
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		for req := range s.ch {
			if req.flushed != nil {
				close(req.flushed)
				continue
			}
			l.writeFile(name, req.data)
		}
	}()
	return s
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/mentoria/applog"
	"github.com/danielhkuo/mentoria/models"
)

// Context labels for errors captured by Guard.
const (
	UncaughtContext  = "Uncaught error"
	UnhandledContext = "Unhandled rejection"
)

type Options struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client
	// Queue defaults to a MemoryQueue.
	Queue Queue
	// State snapshots the application state attached to every payload.
	State func() map[string]any
	Env   Environment
	// URL of the page or view the client is on.
	URL string
	Now func() time.Time
}

// Reporter posts client errors to the server's log-error endpoint and
// queues the ones that could not be delivered. A queued payload is only
// removed after the server accepted it, so it may be delivered twice but
// is never lost.
type Reporter struct {
	endpoint string
	client   *http.Client
	queue    Queue
	state    func() map[string]any
	env      Environment
	url      string
	now      func() time.Time
}

func New(endpoint string, opts Options) *Reporter {
	r := &Reporter{
		endpoint: endpoint,
		client:   opts.Client,
		queue:    opts.Queue,
		state:    opts.State,
		env:      opts.Env,
		url:      opts.URL,
		now:      opts.Now,
	}
	if r.client == nil {
		r.client = http.DefaultClient
	}
	if r.queue == nil {
		r.queue = NewMemoryQueue()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Queue returns the pending queue.
func (r *Reporter) Queue() Queue { return r.queue }

// Build assembles the payload for err without sending it.
func (r *Reporter) Build(errContext string, err error, extra map[string]any) Payload {
	p := Payload{
		ID:             uuid.NewString(),
		Timestamp:      r.now().UTC().Format(applog.TimeFormat),
		Context:        errContext,
		URL:            r.url,
		BrowserInfo:    r.env,
		AdditionalInfo: extra,
	}
	if p.AdditionalInfo == nil {
		p.AdditionalInfo = map[string]any{}
	}
	if r.state != nil {
		p.AppState = r.state()
	}
	fillError(&p, err)
	return p
}

// Report sends err to the server. On any delivery failure the payload is
// queued and the failure returned; the payload is returned either way.
func (r *Reporter) Report(ctx context.Context, errContext string, err error, extra map[string]any) (Payload, error) {
	p := r.Build(errContext, err, extra)

	id, sendErr := r.send(ctx, p)
	if sendErr == nil {
		slog.Debug("client error reported", "id", p.ID, "error_id", id)
		return p, nil
	}

	if qerr := r.queue.Append(p); qerr != nil {
		return p, errors.Join(sendErr, fmt.Errorf("queue payload: %w", qerr))
	}
	slog.Warn("client error queued for retry", "id", p.ID, "error", sendErr)
	return p, sendErr
}

// send posts one payload and returns the server's record id.
func (r *Reporter) send(ctx context.Context, p Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post log: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", &StatusError{Code: resp.StatusCode, Text: http.StatusText(resp.StatusCode), URL: r.endpoint}
	}

	var ack models.LogErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		// accepted anyway
		return "", nil
	}
	return ack.ErrorID, nil
}

// Flush resends every queued payload once. Delivered entries are removed by
// id, so failures and entries queued while the flush runs stay queued.
func (r *Reporter) Flush(ctx context.Context) (sent, remaining int, err error) {
	pending, err := r.queue.List()
	if err != nil {
		return 0, 0, err
	}
	if len(pending) == 0 {
		return 0, 0, nil
	}

	var delivered []string
	for _, p := range pending {
		if ctx.Err() != nil {
			break
		}
		if _, serr := r.send(ctx, p); serr != nil {
			slog.Warn("retry of client error failed", "id", p.ID, "error", serr)
			continue
		}
		delivered = append(delivered, p.ID)
	}

	if err := r.queue.Remove(delivered); err != nil {
		return len(delivered), 0, fmt.Errorf("remove delivered entries: %w", err)
	}

	left, err := r.queue.List()
	if err != nil {
		return len(delivered), 0, err
	}
	return len(delivered), len(left), ctx.Err()
}

// Watch flushes the queue every time online fires, until ctx ends or
// online is closed.
func (r *Reporter) Watch(ctx context.Context, online <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-online:
			if !ok {
				return
			}
			sent, remaining, err := r.Flush(ctx)
			if err != nil {
				slog.Warn("flush of pending client errors failed", "error", err)
			}
			if sent > 0 || remaining > 0 {
				slog.Info("pending client errors flushed", "sent", sent, "remaining", remaining)
			}
		}
	}
}

// Guard runs fn and reports what escapes it: a panic as an uncaught error,
// a returned error as an unhandled rejection. The error is returned to the
// caller after reporting.
func (r *Reporter) Guard(ctx context.Context, fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &panicError{value: v, stack: string(debug.Stack())}
			r.Report(ctx, UncaughtContext, err, nil)
		}
	}()

	if err = fn(); err != nil {
		r.Report(ctx, UnhandledContext, err, nil)
	}
	return err
}

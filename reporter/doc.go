// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package reporter sends client-side errors to the API's log-error endpoint.

# Reporting

	r := reporter.New("http://localhost:3000/api/log-error", reporter.Options{
		Queue: reporter.NewFileQueue("pending-errors.json"),
		State: func() map[string]any { return map[string]any{"currentTab": tab} },
	})
	r.Report(ctx, "Carga de planes", err, nil)

Every payload carries an id, the error message, stack (when the error has
one), the environment, an application state snapshot and any extra fields.
*StatusError values also fill httpStatus and httpStatusText.

# Pending Queue

A payload the server did not accept (transport failure or non-2xx) is
appended to the Queue and Report returns the failure. Flush resends every
queued payload and removes the delivered ones by id:

  - failed retries stay queued
  - payloads queued while a flush runs are kept
  - a payload may be delivered twice, never dropped

Watch calls Flush each time its online channel fires. Guard reports panics
and returned errors from a function body.

# Queues

  - MemoryQueue: lost with the process
  - FileQueue: JSON array on disk, replaced atomically on every change
*/
package reporter

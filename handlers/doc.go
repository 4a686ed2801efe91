// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Mentoria API.

# Handler Types

  - StudentsHandler: lookups, listings and exports
  - LogHandler: client error ingestion

Handlers are middleware.AppHandler methods; they return errors instead of
writing them, and the terminal error handler turns them into a log record
and a diagnostic response:

	func (h *StudentsHandler) Participants(w http.ResponseWriter, r *http.Request) error

# Listings

Query parameters are parsed by query.ParseFilters. Malformed thresholds and
the "todos"/"todas" sentinels mean no constraint. A failed query is an
SQL_ERROR carrying the statement, its parameters and the request query.

# Exports

	GET /api/export-csv?type=participantes&promedio=7
	GET /api/export-xlsx?type=no-participantes

The attachment is named <type>_<unix millis>.csv (or .xlsx). A missing or
unknown type is a validation error.

# Client Errors

	POST /api/log-error {"message": "...", "context": "...", "stack": "..."}

Writes a GENERAL_ERROR record under "Frontend Error - <context>" and
replies {"success": true, "errorId": "<record id>"}.
*/
package handlers

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/planes", middleware.WithLogging(logger, handler))

Logs request start and completion through slog and appends one line per
response to access.log. Handlers describe what they served with

	middleware.SetAccessNote(r, "12 participants")

# Error Handling

Handlers that can fail are written as AppHandler and adapted:

	mux.HandleFunc("GET /api/participantes",
		middleware.WithLogging(logger, middleware.WithErrors(logger, h.Participants)))

A returned error (or a panic) goes through HandleError, which writes exactly
one log record chosen by the error's category and replies

	{"error": true, "message": "...", "debugInfo": {<log record>}}

with the error's status (default 500). debugInfo feeds the dashboard's
developer panel; it echoes internals on purpose since this is an internal
tool.

Build typed failures with SQLError and ValidationError, or a plain
HTTPError for anything else.

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ParseJSONBody(r, &v)

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Handles X-Forwarded-For and X-Real-IP; recorded with general errors.
*/
package middleware

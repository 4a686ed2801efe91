// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Mentoria API server.

Mentoria backs the mentorship dashboard: it lists students who are (or are
not yet) enrolled in the mentoring program, filtered by name, specialty,
study plan, average and approved activities, and exports those listings as
CSV or XLSX. Failures are written to categorized log files under the log
directory.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=./data/mentoria.db go run main.go

Or with flags:

	go run main.go -p 3000 -d ./data/mentoria.db -logs ./logs

A .env file in the working directory is loaded first; real environment
variables win over it.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string

Optional settings:

  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - PORT (-p): Server port (default: 3000)
  - LOG_DIR (-logs): Log directory (default: logs)
  - REDIS_ADDR (-redis): Redis address for the shared lookup cache
  - LOOKUP_TTL (-lookup-ttl): Lookup cache lifetime (default: 10m)

# Startup

The database is opened read-only and checked for the Estudiantes,
Participantes and Especialidades tables; a missing table aborts startup.
The specialty and plan lookups are loaded before the listener starts.

# Architecture

  - handlers: HTTP request handlers (listings, exports, client errors)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, access logging, terminal error handling
  - applog: Categorized error records and log files
  - query: Filter parsing and parameterized listing queries
  - students: Listing store and row normalization
  - rowset: Column-ordered result rows
  - export: CSV and XLSX encoders
  - lookup: Cached specialty and plan catalogs (memory or Redis)
  - metrics: Prometheus instrumentation
  - reporter: Client side error reporting with an offline queue
  - models: Request/response types
  - db: Database opening and table checks
  - cliparse: Configuration parsing

The cmd/logreplay tool drains a reporter queue file into a running server.

See package documentation for each component.
*/
package main

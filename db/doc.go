// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the mentorship database and verifies its layout.

# Opening

Open connects with the driver matching the configured type and fails fast
when the store is unusable:

	conn, err := db.Open(ctx, cfg.DatabaseURL, cfg.DatabaseType)
	if err != nil {
		log.Fatal(err)
	}

SQLite paths (plain or "file:" prefixed) must point at an existing file,
otherwise ErrDatabaseNotFound is returned. They are opened with mode=ro; the
service never writes student data. PostgreSQL URLs are handed to lib/pq.

# Required Tables

CheckSchema lists the tables of the current schema and returns a
*MissingTablesError naming every absent one of:

  - Estudiantes: one row per student, averages and counts stored as text
  - Participantes: student keys enrolled in the mentorship activity
  - Especialidades: specialty lookup

# Schema Creation

CreateSchema creates the same layout. It is used for fixtures and local
development databases, never by the server.
*/
package db

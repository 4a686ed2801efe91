// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package applog records application errors and access events to append-only
log files.

# Files

All files live in one directory, created on the first write:

  - error.log: GENERAL_ERROR, ROUTE_ERROR and SECURITY_ERROR records
  - sql.log: SQL_ERROR records
  - validation.log: VALIDATION_ERROR records
  - access.log: one line per handled request

Error entries are

	<ISO timestamp> [<TYPE>] <context>: <indented JSON record>

and access entries are

	<ISO timestamp> [<status>] <METHOD> <path> - <message>

# Usage

	logger, err := applog.New(applog.Options{Dir: "logs"})
	defer logger.Close()

	rec := logger.LogSQLError("Consulta participantes", err, applog.SQLDetails{
		Query: q.SQL, Params: q.Args, Table: "Estudiantes", Operation: "SELECT",
	})

LogError returns the record immediately. The append itself is queued on a
per-file writer goroutine, which serializes writes to that file. Flush waits
for queued writes; Close drains and stops the writers.

# Console

Every error record is also printed to the console writer (stderr by
default), colored by category when the console is a terminal. Write
failures are reported there instead of being returned.
*/
package applog

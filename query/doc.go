// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package query composes the parameterized student listing statements.

# Filters

Filters are parsed from the listing query string:

	f := query.ParseFilters(r.URL.Query())

The sentinels "todas", "todos" and "all" mean no constraint for specialty
and plan. Non-numeric or negative promedio/actividades values become 0.

# Building

	q, err := query.BuildFor(query.Postgres, query.NonParticipants, f)
	rows, err := db.QueryContext(ctx, q.SQL, q.Args...)

Participants inner-join the Participantes relation; non-participants are
the anti-join (LEFT JOIN ... WHERE p.Legajo IS NULL). Every filter value is
bound as a positional argument. Results are ordered by apellido, nombre.

# Dialects

SQLite keeps ? placeholders and LIKE (case-insensitive for ASCII).
Postgres rebinds to $1..$n and uses ILIKE.
*/
package query

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package students reads and normalizes student rows.

The store returns ordered rows from the database; Normalize coerces the two
text-stored numeric columns and Decode maps each row onto models.Student:

	store := students.NewStore(conn, query.SQLite)
	list, err := store.List(ctx, query.Participants, filters)

Failures are returned as *QueryError with the statement and arguments.
*/
package students

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package export turns ordered rows into downloadable files.

# CSV

	body := export.ToCSV(rows)

The header comes from the first row; every field is wrapped in double quotes
and embedded quotes are doubled. Rows are joined with \n and there is no
trailing newline. No rows produce an empty string.

# XLSX

	data, err := export.ToXLSX(rows)

Writes the same grid to the "Alumnos" sheet of a new workbook.
*/
package export

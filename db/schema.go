// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// RequiredTables must exist before the server accepts requests.
var RequiredTables = []string{"Estudiantes", "Participantes", "Especialidades"}

// MissingTablesError lists the required tables the database lacks.
type MissingTablesError struct {
	Tables []string
}

func (e *MissingTablesError) Error() string {
	return "missing required tables: " + strings.Join(e.Tables, ", ")
}

// CheckSchema verifies that every required table exists. Names compare
// case-insensitively since Postgres folds unquoted identifiers.
func CheckSchema(ctx context.Context, conn *sql.DB, databaseType string) error {
	q := `SELECT name FROM sqlite_master WHERE type = 'table'`
	if databaseType == "postgres" {
		q = `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema()`
	}

	rows, err := conn.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	present := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan table name: %w", err)
		}
		present[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	var missing []string
	for _, t := range RequiredTables {
		if !present[strings.ToLower(t)] {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &MissingTablesError{Tables: missing}
	}
	return nil
}

// CreateSchema creates the tables the dashboard reads. The service itself
// never writes; this builds fixtures and local development databases.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(conn *sql.DB) error {
	_, err := conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Averages and activity counts are TEXT in the source database; queries
// compare them through CAST.
const schema = `
CREATE TABLE IF NOT EXISTS Especialidades (
    id_especialidad INTEGER PRIMARY KEY,
    nombre_especialidad TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS Estudiantes (
    Legajo INTEGER PRIMARY KEY,
    apellido TEXT NOT NULL,
    nombre TEXT NOT NULL,
    email_personal TEXT,
    telefono TEXT,
    plan_estudios TEXT,
    id_especialidad INTEGER REFERENCES Especialidades(id_especialidad),
    promedio_sin_aplazos TEXT,
    actividades_aprobadas TEXT
);

CREATE INDEX IF NOT EXISTS idx_estudiantes_especialidad ON Estudiantes(id_especialidad);
CREATE INDEX IF NOT EXISTS idx_estudiantes_apellido ON Estudiantes(apellido, nombre);

CREATE TABLE IF NOT EXISTS Participantes (
    Legajo INTEGER PRIMARY KEY REFERENCES Estudiantes(Legajo)
);
`

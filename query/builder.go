// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind selects which side of the participation partition is listed.
type Kind string

const (
	Participants    Kind = "participantes"
	NonParticipants Kind = "no-participantes"
)

var ErrUnknownKind = errors.New("unknown listing kind")

// ParseKind maps the path/query spelling to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Participants:
		return Participants, nil
	case NonParticipants:
		return NonParticipants, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Table is the relation a kind is read from, for error reports.
func (k Kind) Table() string {
	if k == NonParticipants {
		return "Estudiantes LEFT JOIN Participantes"
	}
	return "Estudiantes INNER JOIN Participantes"
}

// Query is a parameterized statement and its positional arguments.
type Query struct {
	SQL  string
	Args []any
}

// Dialect adapts placeholder, LIKE and numeric cast syntax to a driver.
type Dialect interface {
	Name() string
	Rebind(sql string) string
	Like() string
	// Numeric converts a text column to a number of type typ (REAL or
	// INTEGER). Text that is not a number compares as 0.
	Numeric(col, typ string) string
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string             { return "sqlite" }
func (sqliteDialect) Rebind(sql string) string { return sql }
func (sqliteDialect) Like() string             { return "LIKE" }

// SQLite's CAST already yields 0 for non-numeric text.
func (sqliteDialect) Numeric(col, typ string) string {
	return "CAST(" + col + " AS " + typ + ")"
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }
func (postgresDialect) Like() string { return "ILIKE" }

// numericPattern avoids ? so Rebind leaves it alone.
const numericPattern = `'^-{0,1}[0-9]+(\.[0-9]+){0,1}$'`

// Numeric guards the cast since Postgres rejects non-numeric text. NUMERIC
// serves both types: '25.0' must still compare against an integer threshold.
func (postgresDialect) Numeric(col, _ string) string {
	v := "trim(CAST(" + col + " AS TEXT))"
	return "CASE WHEN " + v + " ~ " + numericPattern + " THEN CAST(" + v + " AS NUMERIC) ELSE 0 END"
}

// Rebind rewrites ? placeholders as $1..$n. Statements built here never
// carry literal question marks.
func (postgresDialect) Rebind(sql string) string {
	var b strings.Builder
	b.Grow(len(sql) + 8)
	n := 0
	for i := 0; i < len(sql); i++ {
		if sql[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(sql[i])
	}
	return b.String()
}

var (
	SQLite   Dialect = sqliteDialect{}
	Postgres Dialect = postgresDialect{}
)

// DialectFor returns the dialect for a cliparse database type.
func DialectFor(databaseType string) Dialect {
	if databaseType == "postgres" {
		return Postgres
	}
	return SQLite
}

const studentColumns = `
	SELECT e.Legajo, e.apellido, e.nombre, e.email_personal, e.telefono,
	       e.plan_estudios, e.id_especialidad, esp.nombre_especialidad,
	       e.promedio_sin_aplazos, e.actividades_aprobadas`

const participantsFrom = `
	FROM Estudiantes e
	INNER JOIN Participantes p ON e.Legajo = p.Legajo
	INNER JOIN Especialidades esp ON e.id_especialidad = esp.id_especialidad
	WHERE 1=1`

const nonParticipantsFrom = `
	FROM Estudiantes e
	LEFT JOIN Participantes p ON e.Legajo = p.Legajo
	INNER JOIN Especialidades esp ON e.id_especialidad = esp.id_especialidad
	WHERE p.Legajo IS NULL`

const orderBy = `
	ORDER BY e.apellido, e.nombre`

// Build composes the listing statement for kind with the SQLite dialect.
func Build(kind Kind, f Filters) (Query, error) {
	return BuildFor(SQLite, kind, f)
}

// BuildFor composes the listing statement for kind. Each active filter adds
// one AND clause, in the order specialty, plan, average, activities, search.
func BuildFor(d Dialect, kind Kind, f Filters) (Query, error) {
	var b strings.Builder
	b.WriteString(studentColumns)

	switch kind {
	case Participants:
		b.WriteString(participantsFrom)
	case NonParticipants:
		b.WriteString(nonParticipantsFrom)
	default:
		return Query{}, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}

	args := []any{}

	if f.SpecialtyID != "" && !IsSentinel(f.SpecialtyID) {
		b.WriteString("\n\tAND e.id_especialidad = ?")
		args = append(args, f.SpecialtyID)
	}
	if f.PlanCode != "" && !IsSentinel(f.PlanCode) {
		b.WriteString("\n\tAND e.plan_estudios = ?")
		args = append(args, f.PlanCode)
	}
	if f.MinAverage > 0 {
		b.WriteString("\n\tAND " + d.Numeric("e.promedio_sin_aplazos", "REAL") + " >= ?")
		args = append(args, f.MinAverage)
	}
	if f.MinActivities > 0 {
		b.WriteString("\n\tAND " + d.Numeric("e.actividades_aprobadas", "INTEGER") + " >= ?")
		args = append(args, f.MinActivities)
	}
	if f.Search != "" {
		fmt.Fprintf(&b, "\n\tAND (CAST(e.Legajo AS TEXT) %[1]s ? ESCAPE '\\' OR e.apellido %[1]s ? ESCAPE '\\' OR e.nombre %[1]s ? ESCAPE '\\')", d.Like())
		term := "%" + EscapeLike(f.Search) + "%"
		args = append(args, term, term, term)
	}

	b.WriteString(orderBy)

	return Query{SQL: d.Rebind(b.String()), Args: args}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes s match literally inside a LIKE pattern escaped with
// a backslash.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Specialties lists the specialty lookup set by display name.
func Specialties() Query {
	return Query{SQL: `SELECT id_especialidad, nombre_especialidad FROM Especialidades ORDER BY nombre_especialidad`}
}

// Plans lists the distinct study plan codes.
func Plans() Query {
	return Query{SQL: `SELECT DISTINCT plan_estudios FROM Estudiantes WHERE plan_estudios IS NOT NULL AND plan_estudios <> '' ORDER BY plan_estudios`}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package students

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/mentoria/models"
	"github.com/danielhkuo/mentoria/query"
	"github.com/danielhkuo/mentoria/rowset"
)

// QueryError carries the failing statement so the error handler can write a
// complete SQL log record.
type QueryError struct {
	Operation string
	Table     string
	Query     query.Query
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Table, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Store runs read queries against the mentorship database.
type Store struct {
	db      *sql.DB
	dialect query.Dialect
}

func NewStore(db *sql.DB, dialect query.Dialect) *Store {
	if dialect == nil {
		dialect = query.SQLite
	}
	return &Store{db: db, dialect: dialect}
}

// List returns the normalized students of kind matching f, ordered by
// apellido then nombre.
func (s *Store) List(ctx context.Context, kind query.Kind, f query.Filters) ([]models.Student, error) {
	q, err := query.BuildFor(s.dialect, kind, f)
	if err != nil {
		return nil, err
	}

	raw, err := s.rows(ctx, q)
	if err != nil {
		return nil, &QueryError{Operation: "SELECT", Table: kind.Table(), Query: q, Err: err}
	}

	return DecodeAll(Normalize(raw)), nil
}

// Specialties returns the specialty lookup ordered by name.
func (s *Store) Specialties(ctx context.Context) ([]models.Specialty, error) {
	q := query.Specialties()
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(q.SQL), q.Args...)
	if err != nil {
		return nil, &QueryError{Operation: "SELECT", Table: "Especialidades", Query: q, Err: err}
	}
	defer rows.Close()

	out := []models.Specialty{}
	for rows.Next() {
		var sp models.Specialty
		if err := rows.Scan(&sp.ID, &sp.Nombre); err != nil {
			return nil, &QueryError{Operation: "SELECT", Table: "Especialidades", Query: q, Err: err}
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Operation: "SELECT", Table: "Especialidades", Query: q, Err: err}
	}
	return out, nil
}

// Plans returns the distinct study plan codes in ascending order.
func (s *Store) Plans(ctx context.Context) ([]models.StudyPlan, error) {
	q := query.Plans()
	raw, err := s.rows(ctx, q)
	if err != nil {
		return nil, &QueryError{Operation: "SELECT DISTINCT", Table: "Estudiantes", Query: q, Err: err}
	}

	out := make([]models.StudyPlan, 0, len(raw))
	for _, r := range raw {
		v, _ := r.GetFold(models.ColPlan)
		// plan codes may be stored as integers (e.g. 2008)
		out = append(out, models.StudyPlan{Code: fmt.Sprint(v)})
	}
	return out, nil
}

func (s *Store) rows(ctx context.Context, q query.Query) ([]rowset.Row, error) {
	rows, err := s.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rowset.Scan(rows)
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/danielhkuo/mentoria/applog"
	"github.com/danielhkuo/mentoria/cliparse"
	"github.com/danielhkuo/mentoria/db"
	_ "modernc.org/sqlite"
)

// Fixture students. Participants sorted by apellido, nombre are
// Alvarez Luis, Gomez Ana, Gomez Bruno, Perez Juan. Non-participants are
// Benitez Carla, Diaz Maria, Romero Sofia.
const seed = `
INSERT INTO Especialidades (id_especialidad, nombre_especialidad) VALUES
    (1, 'Ingeniería en Sistemas'),
    (2, 'Ingeniería Civil'),
    (3, 'Ingeniería Mecánica');

INSERT INTO Estudiantes (Legajo, apellido, nombre, email_personal, telefono, plan_estudios, id_especialidad, promedio_sin_aplazos, actividades_aprobadas) VALUES
    (1001, 'Gomez',   'Ana',   'ana.gomez@mail.com',     '3511111111', '2008', 1, '8.50', '30'),
    (1002, 'Perez',   'Juan',  'juan.perez@mail.com',    '3512222222', '2008', 1, '6.90', '12'),
    (1003, 'Alvarez', 'Luis',  'luis.alvarez@mail.com',  '3513333333', '2023', 2, '7.50', '20'),
    (1004, 'Diaz',    'Maria', 'maria.diaz@mail.com',    '3514444444', '2023', 2, '9.10', '45'),
    (1005, 'Romero',  'Sofia', 'sofia.romero@mail.com',  NULL,         '2008', 3, 'abc',  NULL),
    (1006, 'Benitez', 'Carla', 'carla.benitez@mail.com', '3516666666', '',     1, '7.5',  '25.0'),
    (1007, 'Gomez',   'Bruno', 'bruno.gomez@mail.com',   '3517777777', '2023', 3, '7.49', '8');

INSERT INTO Participantes (Legajo) VALUES (1001), (1002), (1003), (1007);
`

// Counts of the fixture partition.
const (
	ParticipantCount    = 4
	NonParticipantCount = 3
)

// Seed fills a database that already has the schema with the fixture rows.
func Seed(t *testing.T, conn *sql.DB) {
	t.Helper()
	if _, err := conn.Exec(seed); err != nil {
		t.Fatalf("Failed to seed fixture: %v", err)
	}
}

// SetupTestDB creates a fresh in-memory SQLite database with the schema and
// fixture rows.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// every connection to :memory: is its own database
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	Seed(t, conn)

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig(t *testing.T) cliparse.Config {
	return cliparse.Config{
		Port:         3000,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		LogDir:       t.TempDir(),
		LookupTTL:    time.Minute,
	}
}

// NewTestLogger returns a logger writing to a temporary directory with the
// console discarded.
func NewTestLogger(t *testing.T) *applog.Logger {
	t.Helper()
	logger, err := applog.New(applog.Options{
		Dir:     t.TempDir(),
		Console: io.Discard,
		Color:   applog.ColorNever,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

// ReadLog flushes logger and returns the contents of one of its files, or
// "" if it was never written.
func ReadLog(t *testing.T, logger *applog.Logger, name string) string {
	t.Helper()
	logger.Flush()
	data, err := os.ReadFile(logger.Path(name))
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("Failed to read %s: %v", name, err)
	}
	return string(data)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

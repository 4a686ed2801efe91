// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/xuri/excelize/v2"

	"github.com/danielhkuo/mentoria/applog"
	"github.com/danielhkuo/mentoria/lookup"
	"github.com/danielhkuo/mentoria/metrics"
	"github.com/danielhkuo/mentoria/middleware"
	"github.com/danielhkuo/mentoria/models"
	"github.com/danielhkuo/mentoria/query"
	"github.com/danielhkuo/mentoria/students"
	"github.com/danielhkuo/mentoria/testutil"
)

type fixture struct {
	handler *StudentsHandler
	logger  *applog.Logger
	metrics *metrics.Metrics
	store   *students.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	store := students.NewStore(conn, query.SQLite)
	catalog := lookup.NewCatalog(store, lookup.Options{})
	if err := catalog.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load catalog: %v", err)
	}
	m := metrics.New()
	h := NewStudentsHandler(store, catalog, m)
	h.now = func() time.Time { return time.UnixMilli(1735689600000) }
	return &fixture{handler: h, logger: testutil.NewTestLogger(t), metrics: m, store: store}
}

func (f *fixture) serve(h middleware.AppHandler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	middleware.WithLogging(f.logger, middleware.WithErrors(f.logger, h))(w, req)
	return w
}

func studentNames(list []models.Student) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Apellido + " " + s.Nombre
	}
	return out
}

func TestSpecialties(t *testing.T) {
	f := newFixture(t)

	w := f.serve(f.handler.Specialties, testutil.MakeRequest("GET", "/api/especialidades", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var list []models.Specialty
	testutil.AssertJSON(t, w, &list)
	if len(list) != 3 || list[0].Nombre != "Ingeniería Civil" || list[0].ID != 2 {
		t.Errorf("Unexpected specialties %+v", list)
	}

	access := testutil.ReadLog(t, f.logger, applog.AccessLogFile)
	if !strings.Contains(access, "[200] GET /api/especialidades - 3 especialidades") {
		t.Errorf("Expected access line, got %q", access)
	}
}

func TestSpecialties_WithoutCatalog(t *testing.T) {
	f := newFixture(t)
	h := NewStudentsHandler(f.store, nil, nil)

	w := f.serve(h.Specialties, testutil.MakeRequest("GET", "/api/especialidades", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestSpecialties_CatalogNotLoaded(t *testing.T) {
	f := newFixture(t)
	h := NewStudentsHandler(f.store, lookup.NewCatalog(f.store, lookup.Options{}), nil)

	w := f.serve(h.Specialties, testutil.MakeRequest("GET", "/api/especialidades", nil, nil))
	testutil.AssertStatus(t, w, http.StatusServiceUnavailable)
}

func TestPlans(t *testing.T) {
	f := newFixture(t)

	w := f.serve(f.handler.Plans, testutil.MakeRequest("GET", "/api/planes", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var list []models.StudyPlan
	testutil.AssertJSON(t, w, &list)
	if len(list) != 2 || list[0].Code != "2008" || list[1].Code != "2023" {
		t.Errorf("Unexpected plans %+v", list)
	}
}

func TestParticipants(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"no filters", "/api/participantes", []string{"Alvarez Luis", "Gomez Ana", "Gomez Bruno", "Perez Juan"}},
		{"min average 7.5", "/api/participantes?promedio=7.5", []string{"Alvarez Luis", "Gomez Ana"}},
		{"sentinels", "/api/participantes?especialidad=todas&plan=todos", []string{"Alvarez Luis", "Gomez Ana", "Gomez Bruno", "Perez Juan"}},
		{"malformed threshold degrades", "/api/participantes?promedio=invalid&actividades=abc", []string{"Alvarez Luis", "Gomez Ana", "Gomez Bruno", "Perez Juan"}},
		{"search", "/api/participantes?search=gomez", []string{"Gomez Ana", "Gomez Bruno"}},
		{"specialty and activities", "/api/participantes?especialidad=1&actividades=20", []string{"Gomez Ana"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.serve(f.handler.Participants, testutil.MakeRequest("GET", tt.path, nil, nil))
			testutil.AssertStatus(t, w, http.StatusOK)

			var list []models.Student
			testutil.AssertJSON(t, w, &list)
			got := studentNames(list)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParticipants_NormalizedJSON(t *testing.T) {
	f := newFixture(t)

	w := f.serve(f.handler.Participants, testutil.MakeRequest("GET", "/api/participantes?search=1001", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	body := w.Body.String()
	for _, want := range []string{`"Legajo":"1001"`, `"promedio_sin_aplazos":8.5`, `"actividades_aprobadas":30`, `"nombre_especialidad":"Ingeniería en Sistemas"`} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %s in %s", want, body)
		}
	}
}

func TestNonParticipants(t *testing.T) {
	f := newFixture(t)

	w := f.serve(f.handler.NonParticipants, testutil.MakeRequest("GET", "/api/no-participantes?promedio=7.5", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var list []models.Student
	testutil.AssertJSON(t, w, &list)
	if got := strings.Join(studentNames(list), ","); got != "Benitez Carla,Diaz Maria" {
		t.Errorf("Unexpected non-participants %s", got)
	}
}

func TestNonParticipants_EmptyIsArray(t *testing.T) {
	f := newFixture(t)

	w := f.serve(f.handler.NonParticipants, testutil.MakeRequest("GET", "/api/no-participantes?search=nadie", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("Expected empty JSON array, got %s", w.Body.String())
	}
}

func TestParticipants_SQLError(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	if _, err := conn.Exec(`DROP TABLE Participantes`); err != nil {
		t.Fatal(err)
	}
	logger := testutil.NewTestLogger(t)
	h := NewStudentsHandler(students.NewStore(conn, query.SQLite), nil, nil)

	w := httptest.NewRecorder()
	middleware.WithLogging(logger, middleware.WithErrors(logger, h.Participants))(w,
		testutil.MakeRequest("GET", "/api/participantes?promedio=invalid&especialidad=1", nil, nil))

	testutil.AssertStatus(t, w, http.StatusInternalServerError)

	var resp models.DiagnosticResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Error || resp.Message != middleware.GenericMessage {
		t.Errorf("Expected generic error body, got %+v", resp)
	}

	sqlLog := testutil.ReadLog(t, logger, applog.SQLLogFile)
	for _, want := range []string{"SQL_ERROR", "Consulta participantes", "promedio=invalid", "Participantes", `"operation": "SELECT"`} {
		if !strings.Contains(sqlLog, want) {
			t.Errorf("Expected sql.log to contain %q:\n%s", want, sqlLog)
		}
	}
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t)

	w := f.serve(f.handler.ExportCSV, testutil.MakeRequest("GET", "/api/export-csv?type=participantes&promedio=7.5", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if ct := w.Header().Get("Content-Type"); ct != csvContentType {
		t.Errorf("Expected CSV content type, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=participantes_1735689600000.csv" {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}

	records, err := csv.NewReader(strings.NewReader(w.Body.String())).ReadAll()
	if err != nil {
		t.Fatalf("Export is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(records))
	}
	if records[0][0] != models.ColLegajo || records[0][9] != models.ColActividades {
		t.Errorf("Unexpected header %v", records[0])
	}
	if records[1][1] != "Alvarez" || records[2][1] != "Gomez" {
		t.Errorf("Expected rows sorted by apellido, got %v / %v", records[1], records[2])
	}
	if records[1][8] != "7.5" {
		t.Errorf("Expected normalized average, got %q", records[1][8])
	}

	if got := promtest.ToFloat64(f.metrics.ExportRows.WithLabelValues("participantes", "csv")); got != 2 {
		t.Errorf("Expected 2 exported rows counted, got %v", got)
	}
	access := testutil.ReadLog(t, f.logger, applog.AccessLogFile)
	if !regexp.MustCompile(`\[200\] GET /api/export-csv - exported 2 rows to participantes_\d+\.csv \(\d+ B\)`).MatchString(access) {
		t.Errorf("Unexpected access line %q", access)
	}
}

func TestExportCSV_Empty(t *testing.T) {
	f := newFixture(t)

	w := f.serve(f.handler.ExportCSV, testutil.MakeRequest("GET", "/api/export-csv?type=no-participantes&search=nadie", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", w.Body.String())
	}
}

func TestExportCSV_InvalidType(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/export-csv", "/api/export-csv?type=alumnos"} {
		w := f.serve(f.handler.ExportCSV, testutil.MakeRequest("GET", path, nil, nil))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	}

	if !strings.Contains(testutil.ReadLog(t, f.logger, applog.ValidationLogFile), "Exportación CSV") {
		t.Error("Expected validation record for bad export type")
	}
}

func TestExportXLSX(t *testing.T) {
	f := newFixture(t)

	w := f.serve(f.handler.ExportXLSX, testutil.MakeRequest("GET", "/api/export-xlsx?type=no-participantes", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if cd := w.Header().Get("Content-Disposition"); cd != "attachment; filename=no-participantes_1735689600000.xlsx" {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("Export is not a workbook: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows(wb.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1+testutil.NonParticipantCount {
		t.Errorf("Expected header plus %d rows, got %d", testutil.NonParticipantCount, len(rows))
	}
	if rows[1][1] != "Benitez" {
		t.Errorf("Expected first row Benitez, got %v", rows[1])
	}
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/mentoria/applog"
	"github.com/danielhkuo/mentoria/export"
	"github.com/danielhkuo/mentoria/lookup"
	"github.com/danielhkuo/mentoria/metrics"
	"github.com/danielhkuo/mentoria/middleware"
	"github.com/danielhkuo/mentoria/models"
	"github.com/danielhkuo/mentoria/query"
	"github.com/danielhkuo/mentoria/rowset"
	"github.com/danielhkuo/mentoria/students"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// ParamType selects the listing an export is built from.
	ParamType = "type"
)

type StudentsHandler struct {
	store   *students.Store
	catalog *lookup.Catalog
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewStudentsHandler creates the listing and export handlers. catalog and m
// may be nil: lookups then go straight to the store and nothing is counted.
func NewStudentsHandler(store *students.Store, catalog *lookup.Catalog, m *metrics.Metrics) *StudentsHandler {
	return &StudentsHandler{store: store, catalog: catalog, metrics: m, now: time.Now}
}

// Specialties handles GET /api/especialidades
func (h *StudentsHandler) Specialties(w http.ResponseWriter, r *http.Request) error {
	var list []models.Specialty
	var err error
	if h.catalog != nil {
		list, err = h.catalog.Specialties(r.Context())
	} else {
		list, err = h.store.Specialties(r.Context())
	}
	if err != nil {
		return storeError("Consulta especialidades", err)
	}

	middleware.SetAccessNote(r, fmt.Sprintf("%d especialidades", len(list)))
	middleware.JSONResponse(w, http.StatusOK, list)
	return nil
}

// Plans handles GET /api/planes
func (h *StudentsHandler) Plans(w http.ResponseWriter, r *http.Request) error {
	var list []models.StudyPlan
	var err error
	if h.catalog != nil {
		list, err = h.catalog.Plans(r.Context())
	} else {
		list, err = h.store.Plans(r.Context())
	}
	if err != nil {
		return storeError("Consulta planes", err)
	}

	middleware.SetAccessNote(r, fmt.Sprintf("%d planes", len(list)))
	middleware.JSONResponse(w, http.StatusOK, list)
	return nil
}

// Participants handles GET /api/participantes
func (h *StudentsHandler) Participants(w http.ResponseWriter, r *http.Request) error {
	return h.list(w, r, query.Participants, "Consulta participantes")
}

// NonParticipants handles GET /api/no-participantes
func (h *StudentsHandler) NonParticipants(w http.ResponseWriter, r *http.Request) error {
	return h.list(w, r, query.NonParticipants, "Consulta no participantes")
}

func (h *StudentsHandler) list(w http.ResponseWriter, r *http.Request, kind query.Kind, errContext string) error {
	// malformed thresholds degrade to no constraint
	f := query.ParseFilters(r.URL.Query())

	list, err := h.store.List(r.Context(), kind, f)
	if err != nil {
		return storeError(errContext, err)
	}

	middleware.SetAccessNote(r, fmt.Sprintf("%d %s", len(list), kind))
	middleware.JSONResponse(w, http.StatusOK, list)
	return nil
}

// ExportCSV handles GET /api/export-csv?type=participantes|no-participantes
func (h *StudentsHandler) ExportCSV(w http.ResponseWriter, r *http.Request) error {
	kind, rows, err := h.exportRows(r, "Exportación CSV")
	if err != nil {
		return err
	}

	body := []byte(export.ToCSV(rows))
	h.writeExport(w, r, kind, "csv", csvContentType, body, len(rows))
	return nil
}

// ExportXLSX handles GET /api/export-xlsx with the same parameters as
// ExportCSV.
func (h *StudentsHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) error {
	kind, rows, err := h.exportRows(r, "Exportación XLSX")
	if err != nil {
		return err
	}

	body, err := export.ToXLSX(rows)
	if err != nil {
		return &middleware.HTTPError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build workbook",
			Context: "Exportación XLSX",
			Details: map[string]any{"type": string(kind), "rows": len(rows)},
			Err:     err,
		}
	}

	h.writeExport(w, r, kind, "xlsx", xlsxContentType, body, len(rows))
	return nil
}

func (h *StudentsHandler) exportRows(r *http.Request, errContext string) (query.Kind, []rowset.Row, error) {
	values := r.URL.Query()
	kind, err := query.ParseKind(values.Get(ParamType))
	if err != nil {
		return "", nil, middleware.ValidationError(errContext, "type must be participantes or no-participantes",
			map[string]string{ParamType: "must be one of participantes, no-participantes"},
			map[string]any{"query": values})
	}

	list, err := h.store.List(r.Context(), kind, query.ParseFilters(values))
	if err != nil {
		return "", nil, storeError(errContext, err)
	}

	rows := make([]rowset.Row, len(list))
	for i, s := range list {
		rows[i] = students.ToRow(s)
	}
	return kind, rows, nil
}

func (h *StudentsHandler) writeExport(w http.ResponseWriter, r *http.Request, kind query.Kind, ext, contentType string, body []byte, n int) {
	filename := fmt.Sprintf("%s_%d.%s", kind, h.now().UnixMilli(), ext)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write export", "filename", filename, "error", err)
	}

	if h.metrics != nil {
		h.metrics.ObserveExport(string(kind), ext, n)
	}
	note := fmt.Sprintf("exported %d rows to %s (%s)", n, filename, humanize.Bytes(uint64(len(body))))
	middleware.SetAccessNote(r, note)
	slog.Info("export served", "kind", kind, "format", ext, "rows", n, "bytes", len(body))
}

// storeError maps a store failure to the error the terminal stage logs.
func storeError(errContext string, err error) error {
	var qe *students.QueryError
	if errors.As(err, &qe) {
		return middleware.SQLError(errContext, middleware.GenericMessage, err, applog.SQLDetails{
			Query:     qe.Query.SQL,
			Params:    qe.Query.Args,
			Table:     qe.Table,
			Operation: qe.Operation,
		})
	}

	status := http.StatusInternalServerError
	if errors.Is(err, lookup.ErrNotLoaded) || errors.Is(err, context.Canceled) {
		status = http.StatusServiceUnavailable
	}
	return &middleware.HTTPError{
		Status:  status,
		Message: middleware.GenericMessage,
		Context: errContext,
		Err:     err,
	}
}

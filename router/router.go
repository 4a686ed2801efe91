// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/mentoria/applog"
	"github.com/danielhkuo/mentoria/cliparse"
	"github.com/danielhkuo/mentoria/handlers"
	"github.com/danielhkuo/mentoria/lookup"
	"github.com/danielhkuo/mentoria/metrics"
	"github.com/danielhkuo/mentoria/middleware"
	"github.com/danielhkuo/mentoria/query"
	"github.com/danielhkuo/mentoria/students"
)

// Deps are the shared services the routes are built from. Catalog and
// Metrics are optional.
type Deps struct {
	DB      *sql.DB
	Config  cliparse.Config
	Logger  *applog.Logger
	Catalog *lookup.Catalog
	Metrics *metrics.Metrics
}

func NewRouter(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	store := students.NewStore(d.DB, query.DialectFor(d.Config.DatabaseType))
	studentsHandler := handlers.NewStudentsHandler(store, d.Catalog, d.Metrics)
	logHandler := handlers.NewLogHandler(d.Logger)

	handle := func(pattern string, h middleware.AppHandler) {
		next := middleware.WithErrors(d.Logger, h)
		if d.Metrics != nil {
			next = d.Metrics.Instrument(pattern, next)
		}
		mux.HandleFunc(pattern, middleware.WithLogging(d.Logger, next))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	// Lookups
	handle("GET /api/especialidades", studentsHandler.Specialties)
	handle("GET /api/planes", studentsHandler.Plans)

	// Listings
	handle("GET /api/participantes", studentsHandler.Participants)
	handle("GET /api/no-participantes", studentsHandler.NonParticipants)

	// Exports
	handle("GET /api/export-csv", studentsHandler.ExportCSV)
	handle("GET /api/export-xlsx", studentsHandler.ExportXLSX)

	// Client error ingestion
	handle("POST /api/log-error", logHandler.LogError)

	// Everything else is a ROUTE_ERROR
	notFound := middleware.NotFound(d.Logger)
	if d.Metrics != nil {
		notFound = d.Metrics.Instrument("not_found", notFound)
	}
	mux.HandleFunc("/", middleware.WithLogging(d.Logger, notFound))

	return mux
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Mentoria API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{DB: db, Config: cfg, Logger: logger, Catalog: catalog, Metrics: m})

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Lookups (served from the catalog):

	GET /api/especialidades
	GET /api/planes

Listings (filters: especialidad, plan, promedio, actividades, search):

	GET /api/participantes
	GET /api/no-participantes

Exports (type=participantes|no-participantes plus the listing filters):

	GET /api/export-csv
	GET /api/export-xlsx

Client errors:

	POST /api/log-error

Any other path answers 404 and writes a ROUTE_ERROR record.

# Handler Chain

Every API route is wrapped the same way:

	WithLogging(logger, metrics.Instrument(pattern, WithErrors(logger, h)))

so each response gets one access line, one request metric, and at most one
error record.
*/
package router

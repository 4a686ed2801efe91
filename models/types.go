// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Column names as stored in the mentorship database.
const (
	ColLegajo         = "Legajo"
	ColApellido       = "apellido"
	ColNombre         = "nombre"
	ColEmail          = "email_personal"
	ColTelefono       = "telefono"
	ColPlan           = "plan_estudios"
	ColEspecialidadID = "id_especialidad"
	ColEspecialidad   = "nombre_especialidad"
	ColPromedio       = "promedio_sin_aplazos"
	ColActividades    = "actividades_aprobadas"
)

// Domain types

// Student is a normalized student row as served by the listing endpoints.
type Student struct {
	Legajo             string  `json:"Legajo"`
	Apellido           string  `json:"apellido"`
	Nombre             string  `json:"nombre"`
	EmailPersonal      string  `json:"email_personal"`
	Telefono           string  `json:"telefono"`
	PlanEstudios       string  `json:"plan_estudios"`
	IDEspecialidad     int     `json:"id_especialidad"`
	NombreEspecialidad string  `json:"nombre_especialidad"`
	PromedioSinAplazos float64 `json:"promedio_sin_aplazos"`
	ActividadesAprob   int     `json:"actividades_aprobadas"`
}

type Specialty struct {
	ID     int    `json:"id_especialidad"`
	Nombre string `json:"nombre_especialidad"`
}

type StudyPlan struct {
	Code string `json:"plan_estudios"`
}

// Request types

// ClientErrorRequest is the body of POST /api/log-error. Message is checked
// separately since a non-string value must be rejected, not coerced.
type ClientErrorRequest struct {
	Message        string         `json:"message"`
	Context        string         `json:"context,omitempty"`
	Stack          string         `json:"stack,omitempty"`
	AdditionalInfo map[string]any `json:"additionalInfo,omitempty"`
}

// Response types

type LogErrorResponse struct {
	Success bool   `json:"success"`
	ErrorID string `json:"errorId"`
}

// DiagnosticResponse is the body written by the terminal error handler.
// DebugInfo carries the full log record for the developer panel.
type DiagnosticResponse struct {
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	DebugInfo any    `json:"debugInfo,omitempty"`
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response and domain types of the API.

# Domain Types

  - Student: normalized listing row (numeric average and activity count)
  - Specialty: id_especialidad + nombre_especialidad lookup entry
  - StudyPlan: distinct plan_estudios code

JSON field names keep the database column spelling the front end expects:

	{"Legajo":"1001","apellido":"Gomez","promedio_sin_aplazos":7.5, ...}

# Request Types

  - ClientErrorRequest: POST /api/log-error

# Response Types

  - LogErrorResponse: {"success":true,"errorId":"..."}
  - DiagnosticResponse: {"error":true,"message":"...","debugInfo":{...}}

# Column Constants

Col* constants name the stored columns; they are the keys of the ordered
rows produced at the store boundary and the CSV header.
*/
package models

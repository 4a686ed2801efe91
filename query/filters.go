// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Filters is the immutable filter set applied to a student listing.
// Zero values impose no constraint.
type Filters struct {
	SpecialtyID   string
	PlanCode      string
	MinAverage    float64
	MinActivities int
	Search        string
}

// Query-string parameter names.
const (
	ParamSpecialty  = "especialidad"
	ParamPlan       = "plan"
	ParamAverage    = "promedio"
	ParamActivities = "actividades"
	ParamSearch     = "search"
)

// IsSentinel reports whether v is one of the "no constraint" markers the
// front end sends for the select boxes.
func IsSentinel(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all", "todas", "todos":
		return true
	}
	return false
}

// ParseFilters builds Filters from query-string values. Malformed numeric
// thresholds degrade to 0 instead of failing the request.
func ParseFilters(values url.Values) Filters {
	f := Filters{
		Search: strings.TrimSpace(values.Get(ParamSearch)),
	}

	if v := strings.TrimSpace(values.Get(ParamSpecialty)); !IsSentinel(v) {
		f.SpecialtyID = v
	}
	if v := strings.TrimSpace(values.Get(ParamPlan)); !IsSentinel(v) {
		f.PlanCode = v
	}

	f.MinAverage = parseAverage(values.Get(ParamAverage))
	f.MinActivities = parseActivities(values.Get(ParamActivities))

	return f
}

func parseAverage(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func parseActivities(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	// range inputs may send "20.0"
	if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 && v < 1e9 {
		return int(v)
	}
	return 0
}

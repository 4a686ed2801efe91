// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package students

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/danielhkuo/mentoria/models"
	"github.com/danielhkuo/mentoria/rowset"
)

// Normalize returns copies of rows with the average parsed as float64 and the
// activity count parsed as int. Unparseable or missing values become 0.
// Input rows are left untouched.
func Normalize(rows []rowset.Row) []rowset.Row {
	out := make([]rowset.Row, len(rows))
	for i, row := range rows {
		n := row.Clone()
		for j := range n {
			switch {
			case strings.EqualFold(n[j].Key, models.ColPromedio):
				n[j].Value = ParseAverage(n[j].Value)
			case strings.EqualFold(n[j].Key, models.ColActividades):
				n[j].Value = ParseCount(n[j].Value)
			}
		}
		out[i] = n
	}
	return out
}

// ParseAverage coerces a stored average to float64.
func ParseAverage(v any) float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int64:
		f = float64(x)
	case int:
		f = float64(x)
	case string:
		// stored averages sometimes use a decimal comma
		p, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(x), ",", "."), 64)
		if err != nil {
			return 0
		}
		f = p
	case []byte:
		return ParseAverage(string(x))
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseCount coerces a stored activity count to int. Text with a fractional
// part is truncated the way the dashboard always displayed it.
func ParseCount(v any) int {
	switch x := v.(type) {
	case nil:
		return 0
	case int64:
		return int(x)
	case int:
		return x
	case float64:
		return truncate(x)
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return truncate(f)
		}
		return 0
	case []byte:
		return ParseCount(string(x))
	}
	return 0
}

// truncate converts f to int, treating values outside the int range as
// invalid.
func truncate(f float64) int {
	if math.IsNaN(f) || f >= math.MaxInt || f < math.MinInt {
		return 0
	}
	return int(f)
}

// Decode maps a normalized row onto the typed Student record. Column lookup
// ignores case because Postgres folds unquoted identifiers.
func Decode(row rowset.Row) models.Student {
	str := func(col string) string {
		v, ok := row.GetFold(col)
		if !ok || v == nil {
			return ""
		}
		switch x := v.(type) {
		case string:
			return x
		case int64:
			return strconv.FormatInt(x, 10)
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
		return fmt.Sprint(v)
	}
	val := func(col string) any {
		v, _ := row.GetFold(col)
		return v
	}

	return models.Student{
		Legajo:             str(models.ColLegajo),
		Apellido:           str(models.ColApellido),
		Nombre:             str(models.ColNombre),
		EmailPersonal:      str(models.ColEmail),
		Telefono:           str(models.ColTelefono),
		PlanEstudios:       str(models.ColPlan),
		IDEspecialidad:     ParseCount(val(models.ColEspecialidadID)),
		NombreEspecialidad: str(models.ColEspecialidad),
		PromedioSinAplazos: ParseAverage(val(models.ColPromedio)),
		ActividadesAprob:   ParseCount(val(models.ColActividades)),
	}
}

// DecodeAll maps every row through Decode.
func DecodeAll(rows []rowset.Row) []models.Student {
	out := make([]models.Student, len(rows))
	for i, r := range rows {
		out[i] = Decode(r)
	}
	return out
}

// ToRow renders a Student in the listing column order, for exporters.
func ToRow(s models.Student) rowset.Row {
	return rowset.Row{
		{Key: models.ColLegajo, Value: s.Legajo},
		{Key: models.ColApellido, Value: s.Apellido},
		{Key: models.ColNombre, Value: s.Nombre},
		{Key: models.ColEmail, Value: s.EmailPersonal},
		{Key: models.ColTelefono, Value: s.Telefono},
		{Key: models.ColPlan, Value: s.PlanEstudios},
		{Key: models.ColEspecialidadID, Value: s.IDEspecialidad},
		{Key: models.ColEspecialidad, Value: s.NombreEspecialidad},
		{Key: models.ColPromedio, Value: s.PromedioSinAplazos},
		{Key: models.ColActividades, Value: s.ActividadesAprob},
	}
}

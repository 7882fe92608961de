package filter

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain"
)

// Parámetros de query del endpoint de métricas.
const (
	ParamProperty = "property"
	ParamArea     = "area"
	ParamMode     = "mode"
	ParamYear     = "year"
	ParamQuarter  = "quarter"
	ParamMonth    = "month"
	ParamDay      = "day"
)

// EncodeQuery serializa el filtro como parámetros discretos. Los niveles
// ausentes se omiten y el modo viaja explícito, así el backend puede saber
// qué nivel está activo.
func EncodeQuery(s State) url.Values {
	q := url.Values{}
	q.Set(ParamProperty, string(s.Property))
	q.Set(ParamArea, string(s.Area))
	q.Set(ParamMode, string(s.Date.Mode))
	setInt := func(key string, v int) {
		if v != 0 {
			q.Set(key, strconv.Itoa(v))
		}
	}
	setInt(ParamYear, s.Date.Year)
	setInt(ParamQuarter, s.Date.Quarter)
	setInt(ParamMonth, s.Date.Month)
	setInt(ParamDay, s.Date.Day)
	return q
}

// DecodeQuery operación inversa de EncodeQuery. Números o enums mal formados
// devuelven ErrInvalidInput; combinaciones inconsistentes se reparan.
func DecodeQuery(q url.Values) (State, error) {
	prop, ok := ParseProperty(q.Get(ParamProperty))
	if !ok {
		return State{}, fmt.Errorf("%w: propiedad %q", domain.ErrInvalidInput, q.Get(ParamProperty))
	}
	area, ok := ParseArea(q.Get(ParamArea))
	if !ok {
		return State{}, fmt.Errorf("%w: área %q", domain.ErrInvalidInput, q.Get(ParamArea))
	}

	var d DateSelection
	fields := []struct {
		key string
		dst *int
	}{
		{ParamYear, &d.Year},
		{ParamQuarter, &d.Quarter},
		{ParamMonth, &d.Month},
		{ParamDay, &d.Day},
	}
	for _, f := range fields {
		raw := q.Get(f.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return State{}, fmt.Errorf("%w: %s=%q", domain.ErrInvalidInput, f.key, raw)
		}
		*f.dst = n
	}
	if raw := q.Get(ParamMode); raw != "" {
		if _, ok := ParseMode(raw); !ok {
			return State{}, fmt.Errorf("%w: mode=%q", domain.ErrInvalidInput, raw)
		}
		d.Mode = Mode(raw)
	}

	return State{Date: d, Property: prop, Area: area}.Repair(), nil
}

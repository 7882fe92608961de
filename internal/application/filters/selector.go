package filters

import (
	"strconv"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/dto"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
)

// BuildSelector arma la vista del selector para el estado dado. years es el
// rango disponible en orden ascendente (ver filter.AvailableYears); la vista
// los lista del más reciente al más antiguo.
func BuildSelector(state filter.State, years []int) dto.SelectorView {
	d := state.Date
	hasYear := d.Year != 0
	hasMonth := hasYear && d.Month != 0

	yearLevel := dto.SelectorLevel{Level: string(filter.ModeYear), Label: "Año", Enabled: true, Selected: d.Year}
	yearLevel.Options = make([]dto.Option, 0, len(years))
	for i := len(years) - 1; i >= 0; i-- {
		y := strconv.Itoa(years[i])
		yearLevel.Options = append(yearLevel.Options, dto.Option{Value: y, Label: y})
	}

	quarterLevel := dto.SelectorLevel{Level: string(filter.ModeQuarter), Label: "Trimestre", Enabled: hasYear, Options: []dto.Option{}}
	monthLevel := dto.SelectorLevel{Level: string(filter.ModeMonth), Label: "Mes", Enabled: hasYear, Options: []dto.Option{}}
	dayLevel := dto.SelectorLevel{Level: string(filter.ModeDay), Label: "Día", Enabled: hasMonth, Options: []dto.Option{}}

	if hasYear {
		quarterLevel.Selected = d.Quarter
		for _, q := range filter.QuartersOf(d.Year) {
			quarterLevel.Options = append(quarterLevel.Options, dto.Option{Value: strconv.Itoa(q.Value), Label: q.Label})
		}
		monthLevel.Selected = d.Month
		for _, m := range filter.MonthsOf(d.Quarter) {
			monthLevel.Options = append(monthLevel.Options, dto.Option{Value: strconv.Itoa(m.Value), Label: m.Label})
		}
	}
	if hasMonth {
		dayLevel.Selected = d.Day
		for _, day := range filter.DaysOf(d.Year, d.Month) {
			v := strconv.Itoa(day)
			dayLevel.Options = append(dayLevel.Options, dto.Option{Value: v, Label: v})
		}
	}

	return dto.SelectorView{
		Summary:    d.Summary(),
		Breadcrumb: d.Breadcrumb(),
		Mode:       string(d.Mode),
		Levels:     []dto.SelectorLevel{yearLevel, quarterLevel, monthLevel, dayLevel},
	}
}

// PropertyOptions catálogo de propiedades para el selector.
func PropertyOptions() []dto.Option {
	out := make([]dto.Option, 0, len(filter.Properties()))
	for _, p := range filter.Properties() {
		out = append(out, dto.Option{Value: string(p), Label: p.Label()})
	}
	return out
}

// AreaOptions catálogo de áreas para el selector.
func AreaOptions() []dto.Option {
	out := make([]dto.Option, 0, len(filter.Areas()))
	for _, a := range filter.Areas() {
		out = append(out, dto.Option{Value: string(a), Label: a.Label()})
	}
	return out
}

// Describe respuesta completa de GET /api/filters.
func Describe(state filter.State, years []int) dto.FilterResponse {
	return dto.FilterResponse{
		State:         state,
		PropertyLabel: state.Property.Label(),
		AreaLabel:     state.Area.Label(),
		Selector:      BuildSelector(state, years),
		Query:         filter.EncodeQuery(state).Encode(),
	}
}

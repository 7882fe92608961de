package dto

import "github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"

// Option opción de un control del selector.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SelectorLevel un control de la jerarquía (year | quarter | month | day).
// Un nivel deshabilitado no trae opciones.
type SelectorLevel struct {
	Level    string   `json:"level"`
	Label    string   `json:"label"`
	Enabled  bool     `json:"enabled"`
	Selected int      `json:"selected,omitempty"`
	Options  []Option `json:"options"`
}

// SelectorView modelo de vista del selector jerárquico de fechas.
type SelectorView struct {
	Summary    string          `json:"summary"`
	Breadcrumb string          `json:"breadcrumb"`
	Mode       string          `json:"mode"`
	Levels     []SelectorLevel `json:"levels"`
}

// FilterResponse respuesta de GET /api/filters.
type FilterResponse struct {
	State         filter.State `json:"state"`
	PropertyLabel string       `json:"property_label"`
	AreaLabel     string       `json:"area_label"`
	Selector      SelectorView `json:"selector"`
	Query         string       `json:"query"` // filtro como query string, para compartir el enlace
}

// FilterOptionsResponse catálogos de GET /api/filters/options.
type FilterOptionsResponse struct {
	Properties []Option `json:"properties"`
	Areas      []Option `json:"areas"`
	Years      []int    `json:"years"`
}

// DateChangeRequest cuerpo de PATCH /api/filters/date. Campos en cero no cambian.
type DateChangeRequest struct {
	Year    int  `json:"year"`
	Quarter int  `json:"quarter"`
	Month   int  `json:"month"`
	Day     int  `json:"day"`
	Clear   bool `json:"clear"`
}

// ToChange convierte el cuerpo HTTP al cambio de dominio.
func (r DateChangeRequest) ToChange() filter.DateChange {
	return filter.DateChange{Year: r.Year, Quarter: r.Quarter, Month: r.Month, Day: r.Day, Clear: r.Clear}
}

// PropertyRequest cuerpo de PUT /api/filters/property.
type PropertyRequest struct {
	Property string `json:"property"`
}

// AreaRequest cuerpo de PUT /api/filters/area.
type AreaRequest struct {
	Area string `json:"area"`
}

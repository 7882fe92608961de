package dto

import (
	"time"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/entity"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
)

// MetricsResponse respuesta de GET /api/dashboard/metrics: el triple
// {data, loading, error} del fetcher más el filtro al que corresponde.
type MetricsResponse struct {
	Status     string         `json:"status"` // idle | loading | success | failure
	Data       entity.Metrics `json:"data"`
	Loading    bool           `json:"loading"`
	Error      string         `json:"error,omitempty"`
	Stale      bool           `json:"stale"`
	Filter     filter.State   `json:"filter"`
	DataFilter *filter.State  `json:"data_filter,omitempty"` // filtro al que pertenece data
	UpdatedAt  *time.Time     `json:"updated_at,omitempty"`
}

// KPICard tarjeta de KPI lista para renderizar.
type KPICard struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Value      string `json:"value"`
	Subtitle   string `json:"subtitle"`
	Trend      string `json:"trend,omitempty"` // positive | negative
	TrendValue string `json:"trend_value,omitempty"`
	Section    string `json:"section"`
}

// KPIResponse respuesta de GET /api/dashboard/kpis.
type KPIResponse struct {
	Role      string    `json:"role"`
	Period    string    `json:"period"` // filtro al que pertenecen las tarjetas
	Property  string    `json:"property"`
	Area      string    `json:"area"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	Stale     bool      `json:"stale"`               // true si las tarjetas no son del filtro actual
	Requested string    `json:"requested,omitempty"` // breadcrumb del filtro actual cuando Stale
	Cards     []KPICard `json:"cards"`
}

package ports

import (
	"context"
	"time"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/dto"
)

// KPIReport datos de entrada del reporte PDF del tablero.
type KPIReport struct {
	Title       string
	GeneratedBy string
	GeneratedAt time.Time
	Period      string // breadcrumb del filtro al que pertenecen las tarjetas
	Property    string
	Area        string
	Notice      string // aviso cuando los datos no son del filtro actual
	Cards       []dto.KPICard
}

// ReportGenerator genera el PDF con las tarjetas de KPI.
type ReportGenerator interface {
	GenerateKPIReport(ctx context.Context, report KPIReport) ([]byte, error)
}

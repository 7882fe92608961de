package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/metrics"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/ports"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/entity"
)

// ReportUseCase genera el PDF de KPIs con los datos del último fetch exitoso.
type ReportUseCase struct {
	generator ports.ReportGenerator
	kpis      *KPIUseCase
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(generator ports.ReportGenerator, kpis *KPIUseCase) *ReportUseCase {
	return &ReportUseCase{generator: generator, kpis: kpis, now: time.Now}
}

// Generate devuelve los bytes del PDF. Solo el admin puede generarlo y se
// necesita al menos una carga exitosa de métricas. El periodo del reporte es
// el de esa carga; si el filtro actual es otro el PDF lo avisa.
func (uc *ReportUseCase) Generate(ctx context.Context, user entity.User, fs metrics.State) ([]byte, error) {
	if user.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if fs.Data == nil {
		return nil, fmt.Errorf("%w: todavía no hay métricas cargadas", domain.ErrNotFound)
	}

	generatedBy := user.FullName()
	if generatedBy == "" {
		generatedBy = user.Email
	}
	report := ports.KPIReport{
		Title:       "Reporte de indicadores - Sites Hotels",
		GeneratedBy: generatedBy,
		GeneratedAt: uc.now(),
		Period:      fs.DataKey.Date.Breadcrumb(),
		Property:    fs.DataKey.Property.Label(),
		Area:        fs.DataKey.Area.Label(),
		Cards:       uc.kpis.Cards(user.Role, fs.Data),
	}
	if fs.Stale() {
		report.Notice = staleNotice(fs)
	}
	pdf, err := uc.generator.GenerateKPIReport(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("generar reporte: %w", err)
	}
	return pdf, nil
}

func staleNotice(fs metrics.State) string {
	requested := fmt.Sprintf("%s (%s, %s)", fs.Key.Date.Breadcrumb(), fs.Key.Property.Label(), fs.Key.Area.Label())
	if fs.Status == metrics.StatusFailure {
		return fmt.Sprintf("No se pudieron cargar los datos de %s; se muestran los últimos disponibles.", requested)
	}
	return fmt.Sprintf("Los datos de %s todavía se están cargando; se muestran los últimos disponibles.", requested)
}

// Package dashboard arma las tarjetas de KPI del tablero y el reporte PDF a
// partir del último resultado del Fetcher de la sesión.
package dashboard

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/dto"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/metrics"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/entity"
)

// Secciones del tablero.
const (
	SectionPrincipales = "principales"
	SectionPresupuesto = "presupuesto"
	SectionResultados  = "resultados"
)

const (
	trendPositive = "positive"
	trendNegative = "negative"
)

var hundred = decimal.NewFromInt(100)

// KPIUseCase convierte métricas crudas en tarjetas según el rol del usuario.
type KPIUseCase struct {
	printer *message.Printer
}

// NewKPIUseCase usa formato numérico en español de Colombia.
func NewKPIUseCase() *KPIUseCase {
	return &KPIUseCase{printer: message.NewPrinter(language.MustParse("es-CO"))}
}

// Cards tarjetas en orden de presentación. El inversionista solo ve los KPIs
// principales; el admin ve también presupuesto y resultados.
func (uc *KPIUseCase) Cards(role string, m entity.Metrics) []dto.KPICard {
	get := m.Get
	cards := []dto.KPICard{
		{
			Key:        entity.MetricOcupacion,
			Title:      "% Ocupación",
			Value:      uc.percent(get(entity.MetricOcupacion)),
			Subtitle:   "Tasa promedio de ocupación",
			Trend:      trendIf(get(entity.MetricCumplimientoOcup).GreaterThanOrEqual(hundred)),
			TrendValue: uc.percent(get(entity.MetricCumplimientoOcup)),
			Section:    SectionPrincipales,
		},
		{
			Key:        entity.MetricVentasTotales,
			Title:      "Ventas",
			Value:      uc.money(get(entity.MetricVentasTotales)),
			Subtitle:   "Revenue total",
			Trend:      trendIf(get(entity.MetricCumplimientoVentas).GreaterThanOrEqual(hundred)),
			TrendValue: uc.percent(get(entity.MetricCumplimientoVentas)),
			Section:    SectionPrincipales,
		},
		{
			Key:        entity.MetricADR,
			Title:      "ADR",
			Value:      uc.money(get(entity.MetricADR)),
			Subtitle:   "Tarifa diaria promedio",
			Trend:      trendIf(get(entity.MetricADRForecast).GreaterThan(get(entity.MetricADR))),
			TrendValue: uc.money(get(entity.MetricADRForecast)),
			Section:    SectionPrincipales,
		},
		{
			Key:        entity.MetricRevPAR,
			Title:      "RevPAR",
			Value:      uc.money(get(entity.MetricRevPAR)),
			Subtitle:   "Ingreso por habitación disponible",
			Trend:      trendIf(get(entity.MetricRevPARForecast).GreaterThan(get(entity.MetricRevPAR))),
			TrendValue: uc.money(get(entity.MetricRevPARForecast)),
			Section:    SectionPrincipales,
		},
	}
	if role != entity.RoleAdmin {
		return cards
	}

	return append(cards,
		dto.KPICard{
			Key:        entity.MetricPptoHoy,
			Title:      "Presupuesto a hoy",
			Value:      uc.money(get(entity.MetricPptoHoy)),
			Subtitle:   "Alojamiento",
			Trend:      trendIf(get(entity.MetricCumplimientoVentas).GreaterThanOrEqual(hundred)),
			TrendValue: uc.percent(get(entity.MetricCumplimientoVentas)),
			Section:    SectionPresupuesto,
		},
		dto.KPICard{
			Key:      entity.MetricForecastVentas,
			Title:    "Forecast de ventas",
			Value:    uc.money(get(entity.MetricForecastVentas)),
			Subtitle: "Alojamiento",
			Section:  SectionPresupuesto,
		},
		dto.KPICard{
			Key:      entity.MetricTarifaPer,
			Title:    "Tarifa promedio (Per)",
			Value:    uc.money(get(entity.MetricTarifaPer)),
			Subtitle: "Tarifa promedio por persona",
			Section:  SectionPresupuesto,
		},
		dto.KPICard{
			Key:      entity.MetricGastosCostos,
			Title:    "Gastos y costos",
			Value:    uc.money(get(entity.MetricGastosCostos)),
			Subtitle: "Total de egresos operativos",
			Section:  SectionResultados,
		},
		dto.KPICard{
			Key:        entity.MetricUtilidad,
			Title:      "Utilidad / Pérdida",
			Value:      uc.money(get(entity.MetricUtilidad)),
			Subtitle:   "Resultado operativo (GOP)",
			Trend:      trendIf(!get(entity.MetricUtilidad).IsNegative()),
			TrendValue: uc.percent(get(entity.MetricGOP)),
			Section:    SectionResultados,
		},
		dto.KPICard{
			Key:      entity.MetricFARA,
			Title:    "FARA",
			Value:    uc.money(get(entity.MetricFARA)),
			Subtitle: "Factor de administración y reserva",
			Section:  SectionResultados,
		},
	)
}

// Summary respuesta de GET /api/dashboard/kpis a partir del estado del Fetcher.
// Tras un fallo se muestran los últimos valores conocidos marcados como stale.
func (uc *KPIUseCase) Summary(role string, fs metrics.State) dto.KPIResponse {
	labels := fs.Key
	if fs.Data != nil {
		labels = fs.DataKey
	}
	resp := dto.KPIResponse{
		Role:     role,
		Period:   labels.Date.Breadcrumb(),
		Property: labels.Property.Label(),
		Area:     labels.Area.Label(),
		Loading:  fs.Loading(),
		Error:    fs.Error,
		Stale:    fs.Stale(),
		Cards:    []dto.KPICard{},
	}
	if resp.Stale {
		resp.Requested = fs.Key.Date.Breadcrumb()
	}
	if fs.Data != nil {
		resp.Cards = uc.Cards(role, fs.Data)
	}
	return resp
}

func (uc *KPIUseCase) money(d decimal.Decimal) string {
	return uc.printer.Sprintf("$%.2f", d.Round(2).InexactFloat64())
}

func (uc *KPIUseCase) percent(d decimal.Decimal) string {
	return uc.printer.Sprintf("%.2f%%", d.Round(2).InexactFloat64())
}

func trendIf(ok bool) string {
	if ok {
		return trendPositive
	}
	return trendNegative
}

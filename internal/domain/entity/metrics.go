package entity

import "github.com/shopspring/decimal"

// Claves de KPI devueltas por el endpoint de métricas del backend.
const (
	MetricOcupacion          = "%ocupacion"
	MetricOcupacionPpto      = "%ocupacion_ppto"
	MetricCumplimientoOcup   = "%cumplimiento_ocup"
	MetricVentasTotales      = "ventas_totales"
	MetricADR                = "adr"
	MetricADRPpto            = "adr_ppto"
	MetricCumplimientoADR    = "%cumplimiento_adr"
	MetricRevPAR             = "revpar"
	MetricRevPARForecast     = "revpar_forecast"
	MetricADRForecast        = "adr_forecast"
	MetricOcupForecast       = "%ocup_forecast"
	MetricTarifaPer          = "tarifa_per"
	MetricForecastVentas     = "forecast_ventas"
	MetricPptoHoy            = "ppto_hoy"
	MetricPptoTotal          = "ppto_total"
	MetricCumplimientoVentas = "%cumplimiento_ventas"
	MetricGastosCostos       = "gastos_costos"
	MetricUtilidad           = "utilidad"
	MetricGOP                = "%gop"
	MetricFARA               = "fara"
)

// Metrics KPIs agregados para un filtro. Las claves ausentes valen cero.
type Metrics map[string]decimal.Decimal

// Get devuelve el valor del KPI o cero si no vino en la respuesta.
func (m Metrics) Get(key string) decimal.Decimal {
	if v, ok := m[key]; ok {
		return v
	}
	return decimal.Zero
}

// Clone copia independiente (los consumidores no deben ver mutaciones).
func (m Metrics) Clone() Metrics {
	if m == nil {
		return nil
	}
	out := make(Metrics, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Summary texto de resumen según el modo activo, ej: "10 de Mayo 2024",
// "Mayo 2024", "Q2 (Abr-Jun) 2024", "Año 2024".
func (d DateSelection) Summary() string {
	switch {
	case d.Mode == ModeDay && d.Year != 0 && d.Month != 0 && d.Day != 0:
		return fmt.Sprintf("%d de %s %d", d.Day, MonthLabel(d.Month), d.Year)
	case d.Mode == ModeMonth && d.Year != 0 && d.Month != 0:
		return fmt.Sprintf("%s %d", MonthLabel(d.Month), d.Year)
	case d.Mode == ModeQuarter && d.Year != 0 && d.Quarter != 0:
		return fmt.Sprintf("%s %d", QuarterLabel(d.Quarter), d.Year)
	case d.Mode == ModeYear && d.Year != 0:
		return fmt.Sprintf("Año %d", d.Year)
	default:
		return "Seleccionar fecha"
	}
}

// Breadcrumb ruta de la selección, ej: "2024 > Q2 > Mayo > 10".
func (d DateSelection) Breadcrumb() string {
	parts := make([]string, 0, 4)
	if d.Year != 0 {
		parts = append(parts, strconv.Itoa(d.Year))
	}
	if d.Quarter != 0 {
		parts = append(parts, "Q"+strconv.Itoa(d.Quarter))
	}
	if d.Month != 0 {
		parts = append(parts, MonthLabel(d.Month))
	}
	if d.Day != 0 {
		parts = append(parts, strconv.Itoa(d.Day))
	}
	if len(parts) == 0 {
		return "Todas las fechas"
	}
	return strings.Join(parts, " > ")
}

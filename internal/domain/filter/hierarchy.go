// Package filter contiene el modelo del filtro jerárquico del dashboard:
// Año > Trimestre > Mes > Día, más la propiedad (sede) y el área del hotel.
//
// Todo el paquete es puro: sin I/O, sin estado global mutable.
package filter

import (
	"fmt"
	"time"
)

// DefaultEpochYear primer año con datos operativos.
const DefaultEpochYear = 2012

// QuarterInfo describe un trimestre y sus meses.
type QuarterInfo struct {
	Value  int
	Label  string
	Months [3]int
}

// MonthInfo describe un mes del calendario.
type MonthInfo struct {
	Value   int
	Label   string
	Quarter int
}

var quarters = [4]QuarterInfo{
	{Value: 1, Label: "Q1 (Ene-Mar)", Months: [3]int{1, 2, 3}},
	{Value: 2, Label: "Q2 (Abr-Jun)", Months: [3]int{4, 5, 6}},
	{Value: 3, Label: "Q3 (Jul-Sep)", Months: [3]int{7, 8, 9}},
	{Value: 4, Label: "Q4 (Oct-Dic)", Months: [3]int{10, 11, 12}},
}

var monthLabels = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// QuartersOf devuelve los 4 trimestres del año. No hay año fiscal: el
// resultado no depende de year.
func QuartersOf(_ int) []QuarterInfo {
	out := make([]QuarterInfo, len(quarters))
	copy(out, quarters[:])
	return out
}

// QuarterOf devuelve el trimestre (1..4) que contiene el mes, o 0 si el mes
// está fuera de rango.
func QuarterOf(month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	return (month-1)/3 + 1
}

// QuarterLabel etiqueta del trimestre, ej: "Q2 (Abr-Jun)".
func QuarterLabel(quarter int) string {
	if quarter < 1 || quarter > 4 {
		return ""
	}
	return quarters[quarter-1].Label
}

// MonthLabel nombre del mes en español, ej: "Mayo".
func MonthLabel(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthLabels[month-1]
}

// MonthsOf devuelve los meses del trimestre en orden de calendario.
// Con quarter == 0 devuelve los 12 meses.
func MonthsOf(quarter int) []MonthInfo {
	out := make([]MonthInfo, 0, 12)
	for m := 1; m <= 12; m++ {
		q := QuarterOf(m)
		if quarter != 0 && q != quarter {
			continue
		}
		out = append(out, MonthInfo{Value: m, Label: monthLabels[m-1], Quarter: q})
	}
	return out
}

// IsLeapYear regla gregoriana: divisible por 4 y (no por 100, o sí por 400).
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth número de días del mes gregoriano. Devuelve 0 si el mes es inválido.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

// DaysOf devuelve [1..N] para el (año, mes). El llamador debe verificar que
// ambos estén presentes; llamarlo sin ellos es un error de programación.
func DaysOf(year, month int) []int {
	if year < 1 || month < 1 || month > 12 {
		panic(fmt.Sprintf("filter.DaysOf: año/mes ausente o inválido (%d, %d)", year, month))
	}
	n := DaysInMonth(year, month)
	days := make([]int, n)
	for i := range days {
		days[i] = i + 1
	}
	return days
}

// AvailableYears años seleccionables: desde epoch hasta el año actual + 1
// (datos de forecast), en orden ascendente.
func AvailableYears(epoch int, now time.Time) []int {
	if epoch <= 0 {
		epoch = DefaultEpochYear
	}
	last := now.Year() + 1
	if last < epoch {
		return []int{}
	}
	years := make([]int, 0, last-epoch+1)
	for y := epoch; y <= last; y++ {
		years = append(years, y)
	}
	return years
}

// YearRange rango cerrado de años seleccionables.
type YearRange struct {
	First int
	Last  int
}

// SelectableYears mismos límites que AvailableYears(epoch, now).
func SelectableYears(epoch int, now time.Time) YearRange {
	if epoch <= 0 {
		epoch = DefaultEpochYear
	}
	return YearRange{First: epoch, Last: now.Year() + 1}
}

// Contains true si year está dentro del rango.
func (r YearRange) Contains(year int) bool {
	return year >= r.First && year <= r.Last
}

// WithinYears descarta toda la selección de fecha si su año queda fuera del
// rango. Una selección vacía se devuelve igual.
func (d DateSelection) WithinYears(r YearRange) DateSelection {
	if d.Year == 0 || r.Contains(d.Year) {
		return d
	}
	return NewDateSelection()
}

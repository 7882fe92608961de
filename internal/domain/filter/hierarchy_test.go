package filter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
)

func TestDaysInMonth_Bisiestos(t *testing.T) {
	cases := []struct {
		year, month, want int
	}{
		{2024, 2, 29},
		{2023, 2, 28},
		{2000, 2, 29},
		{1900, 2, 28},
		{2025, 4, 30},
		{2025, 12, 31},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, filter.DaysInMonth(tc.year, tc.month), "%d-%02d", tc.year, tc.month)
		assert.Len(t, filter.DaysOf(tc.year, tc.month), tc.want, "DaysOf(%d, %d)", tc.year, tc.month)
	}
}

func TestDaysOf_OrdenadoDesdeUno(t *testing.T) {
	days := filter.DaysOf(2024, 2)
	require.Len(t, days, 29)
	for i, d := range days {
		assert.Equal(t, i+1, d)
	}
}

// Llamar DaysOf sin año o mes es un error del llamador, no un caso de negocio.
func TestDaysOf_SinMesEsViolacionDeContrato(t *testing.T) {
	assert.Panics(t, func() { filter.DaysOf(2024, 0) })
	assert.Panics(t, func() { filter.DaysOf(0, 5) })
}

func TestQuarterOf_ContieneAlMes(t *testing.T) {
	for m := 1; m <= 12; m++ {
		q := filter.QuarterOf(m)
		var found bool
		for _, info := range filter.MonthsOf(q) {
			if info.Value == m {
				found = true
			}
			assert.Equal(t, q, info.Quarter)
		}
		assert.True(t, found, "MonthsOf(QuarterOf(%d)) debe contener %d", m, m)
	}
	assert.Equal(t, 0, filter.QuarterOf(13))
}

func TestMonthsOf(t *testing.T) {
	all := filter.MonthsOf(0)
	require.Len(t, all, 12)
	assert.Equal(t, "Enero", all[0].Label)
	assert.Equal(t, "Diciembre", all[11].Label)

	q3 := filter.MonthsOf(3)
	require.Len(t, q3, 3)
	assert.Equal(t, []int{7, 8, 9}, []int{q3[0].Value, q3[1].Value, q3[2].Value})
}

func TestQuartersOf_FijosEIndependientesDelAnio(t *testing.T) {
	a := filter.QuartersOf(2020)
	b := filter.QuartersOf(2031)
	require.Len(t, a, 4)
	assert.Equal(t, a, b)
	assert.Equal(t, [3]int{10, 11, 12}, a[3].Months)
	assert.Equal(t, "Q2 (Abr-Jun)", a[1].Label)

	// Modificar la copia no debe afectar el catálogo.
	a[0].Label = "x"
	assert.Equal(t, "Q1 (Ene-Mar)", filter.QuartersOf(2020)[0].Label)
}

func TestAvailableYears_HastaAnioSiguiente(t *testing.T) {
	now := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	years := filter.AvailableYears(2012, now)
	require.NotEmpty(t, years)
	assert.Equal(t, 2012, years[0])
	assert.Equal(t, 2027, years[len(years)-1])
	assert.Len(t, years, 16)

	assert.Equal(t, filter.DefaultEpochYear, filter.AvailableYears(0, now)[0])
	assert.Empty(t, filter.AvailableYears(2030, now))
}

func TestSelectableYears_DescartaFechaFueraDeRango(t *testing.T) {
	now := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)
	r := filter.SelectableYears(0, now)
	assert.Equal(t, filter.YearRange{First: filter.DefaultEpochYear, Last: 2027}, r)

	// Caso 1: dentro del rango se conserva
	d := filter.DateSelection{Year: 2024, Quarter: 2, Mode: filter.ModeQuarter}
	assert.Equal(t, d, d.WithinYears(r))

	// Caso 2: fuera del rango queda "todas las fechas"
	assert.Equal(t, filter.NewDateSelection(), filter.DateSelection{Year: 9999, Mode: filter.ModeYear}.WithinYears(r))
	assert.Equal(t, filter.NewDateSelection(), filter.DateSelection{Year: 1999, Month: 4, Quarter: 2, Mode: filter.ModeMonth}.WithinYears(r))
}

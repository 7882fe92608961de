package filter

import (
	"fmt"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain"
)

// Mode nivel más profundo elegido explícitamente por el usuario.
type Mode string

const (
	ModeYear    Mode = "year"
	ModeQuarter Mode = "quarter"
	ModeMonth   Mode = "month"
	ModeDay     Mode = "day"
)

// depth orden jerárquico del nivel (year=1 … day=4). 0 si el modo es desconocido.
func (m Mode) depth() int {
	switch m {
	case ModeYear:
		return 1
	case ModeQuarter:
		return 2
	case ModeMonth:
		return 3
	case ModeDay:
		return 4
	default:
		return 0
	}
}

// Valid indica si el modo es uno de los cuatro niveles.
func (m Mode) Valid() bool { return m.depth() > 0 }

// ParseMode convierte el string del query/persistencia a Mode.
func ParseMode(s string) (Mode, bool) {
	m := Mode(s)
	return m, m.Valid()
}

// DateSelection punto o rango en la jerarquía Año > Trimestre > Mes > Día.
// Un campo en cero significa "ausente". El tipo es comparable con ==, y esa
// igualdad estructural es la que usa el fetcher para decidir si re-consultar.
type DateSelection struct {
	Year    int  `json:"year,omitempty"`
	Quarter int  `json:"quarter,omitempty"`
	Month   int  `json:"month,omitempty"`
	Day     int  `json:"day,omitempty"`
	Mode    Mode `json:"mode"`
}

// NewDateSelection selección vacía ("todas las fechas").
func NewDateSelection() DateSelection {
	return DateSelection{Mode: ModeYear}
}

// IsEmpty true si no hay ningún nivel seleccionado.
func (d DateSelection) IsEmpty() bool {
	return d.Year == 0 && d.Quarter == 0 && d.Month == 0 && d.Day == 0
}

// Deepest nivel más profundo presente. Una selección vacía devuelve ModeYear.
func (d DateSelection) Deepest() Mode {
	switch {
	case d.Day != 0:
		return ModeDay
	case d.Month != 0:
		return ModeMonth
	case d.Quarter != 0:
		return ModeQuarter
	default:
		return ModeYear
	}
}

// Validate verifica los invariantes de la jerarquía.
func (d DateSelection) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", domain.ErrInvalidDateSelection, fmt.Sprintf(format, args...))
	}

	if !d.Mode.Valid() {
		return fail("modo desconocido %q", d.Mode)
	}
	if d.Year < 0 {
		return fail("año %d", d.Year)
	}
	if d.Quarter != 0 {
		if d.Quarter < 1 || d.Quarter > 4 {
			return fail("trimestre %d fuera de rango", d.Quarter)
		}
		if d.Year == 0 {
			return fail("trimestre sin año")
		}
	}
	if d.Month != 0 {
		if d.Month < 1 || d.Month > 12 {
			return fail("mes %d fuera de rango", d.Month)
		}
		if d.Year == 0 {
			return fail("mes sin año")
		}
		if d.Quarter != 0 && QuarterOf(d.Month) != d.Quarter {
			return fail("el mes %d no pertenece al trimestre %d", d.Month, d.Quarter)
		}
	}
	if d.Day != 0 {
		if d.Year == 0 || d.Month == 0 {
			return fail("día sin año y mes")
		}
		if d.Day < 1 || d.Day > DaysInMonth(d.Year, d.Month) {
			return fail("el día %d no existe en %d-%02d", d.Day, d.Year, d.Month)
		}
	}
	if d.Mode.depth() != d.Deepest().depth() {
		return fail("modo %q no corresponde al nivel seleccionado %q", d.Mode, d.Deepest())
	}
	return nil
}

// Repair corrige una selección inconsistente (ej. leída de persistencia) sin
// confiar en ella: descarta campos fuera de rango y descendientes huérfanos,
// recalcula el trimestre desde el mes y ajusta el modo al nivel más profundo.
func (d DateSelection) Repair() DateSelection {
	out := DateSelection{Year: d.Year, Quarter: d.Quarter, Month: d.Month, Day: d.Day}

	if out.Year < 1 {
		return NewDateSelection()
	}
	if out.Quarter < 1 || out.Quarter > 4 {
		out.Quarter = 0
	}
	if out.Month < 1 || out.Month > 12 {
		out.Month = 0
		out.Day = 0
	}
	if out.Month != 0 {
		out.Quarter = QuarterOf(out.Month)
	}
	if out.Day != 0 && (out.Month == 0 || out.Day < 1 || out.Day > DaysInMonth(out.Year, out.Month)) {
		out.Day = 0
	}
	out.Mode = out.Deepest()
	return out
}

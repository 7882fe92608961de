package filter

// DateChange actualización parcial de la selección. Un campo en cero no forma
// parte del cambio. Clear limpia toda la selección e ignora el resto.
type DateChange struct {
	Year    int  `json:"year,omitempty"`
	Quarter int  `json:"quarter,omitempty"`
	Month   int  `json:"month,omitempty"`
	Day     int  `json:"day,omitempty"`
	Clear   bool `json:"clear,omitempty"`
}

// IsZero true si el cambio no toca ningún campo.
func (c DateChange) IsZero() bool {
	return c == DateChange{}
}

// ApplyDateUpdate aplica el cambio con reseteo en cascada:
//
//	año      → resetea trimestre, mes y día;  mode = year
//	trimestre → resetea mes y día;             mode = quarter
//	mes      → resetea día, recalcula trimestre; mode = month
//	día      → no resetea nada;                mode = day
//
// Los campos se aplican en orden jerárquico sobre el resultado intermedio.
// Un campo igual al valor actual no tiene efecto, y un campo que rompería los
// invariantes (trimestre sin año, día 31 en abril, …) se ignora, de modo que
// el resultado siempre es válido si current lo es. La función es pura e idempotente.
func ApplyDateUpdate(current DateSelection, change DateChange) DateSelection {
	if change.Clear {
		return NewDateSelection()
	}
	next := current
	if !next.Mode.Valid() {
		next.Mode = next.Deepest()
	}

	if change.Year > 0 && change.Year != next.Year {
		next = DateSelection{Year: change.Year, Mode: ModeYear}
	}

	if change.Quarter >= 1 && change.Quarter <= 4 && change.Quarter != next.Quarter && next.Year != 0 {
		next.Quarter = change.Quarter
		next.Month = 0
		next.Day = 0
		next.Mode = ModeQuarter
	}

	if change.Month >= 1 && change.Month <= 12 && change.Month != next.Month && next.Year != 0 {
		next.Month = change.Month
		next.Quarter = QuarterOf(change.Month)
		next.Day = 0
		next.Mode = ModeMonth
	}

	if change.Day > 0 && change.Day != next.Day && next.Year != 0 && next.Month != 0 &&
		change.Day <= DaysInMonth(next.Year, next.Month) {
		next.Day = change.Day
		next.Mode = ModeDay
	}

	return next
}

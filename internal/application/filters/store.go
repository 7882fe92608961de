// Package filters mantiene el estado de filtros de una sesión del tablero y
// arma la vista del selector jerárquico de fechas.
package filters

import (
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
)

// Listener recibe el estado nuevo después de cada cambio efectivo.
// No debe escribir en el mismo Store de forma síncrona.
type Listener func(filter.State)

// Store estado de filtros de una sesión. Los escritores se serializan y los
// observadores se notifican dentro de la sección de escritura, así reciben
// los cambios en el mismo orden en que se aplicaron.
type Store struct {
	writeMu sync.Mutex

	mu     sync.RWMutex
	state  filter.State
	subs   map[int]Listener
	nextID int

	epoch int
	now   func() time.Time
}

// Option configura un Store.
type Option func(*Store)

// WithYears limita los años seleccionables a epoch..now().Year()+1, los
// mismos que ofrece el selector.
func WithYears(epoch int, now func() time.Time) Option {
	return func(s *Store) {
		s.epoch = epoch
		if now != nil {
			s.now = now
		}
	}
}

// NewStore crea un Store con el estado inicial reparado y acotado al rango
// de años.
func NewStore(initial filter.State, opts ...Option) *Store {
	s := &Store{
		subs:  make(map[int]Listener),
		epoch: filter.DefaultEpochYear,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = s.sanitize(initial)
	return s
}

// Years rango de años que el Store acepta en este momento.
func (s *Store) Years() filter.YearRange {
	return filter.SelectableYears(s.epoch, s.now())
}

func (s *Store) sanitize(st filter.State) filter.State {
	st = st.Repair()
	st.Date = st.Date.WithinYears(s.Years())
	return st
}

// Snapshot estado actual.
func (s *Store) Snapshot() filter.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// UpdateDate aplica un cambio parcial de fecha con la cascada jerárquica.
// Un cambio con año fuera de Years se ignora completo.
func (s *Store) UpdateDate(change filter.DateChange) filter.State {
	if change.Year != 0 && !change.Clear && !s.Years().Contains(change.Year) {
		return s.Snapshot()
	}
	return s.apply(func(cur filter.State) filter.State {
		cur.Date = filter.ApplyDateUpdate(cur.Date, change)
		return cur
	})
}

// ClearDate vuelve la selección de fecha a "todas las fechas".
func (s *Store) ClearDate() filter.State {
	return s.UpdateDate(filter.DateChange{Clear: true})
}

// SetProperty cambia la propiedad sin tocar la fecha ni el área.
func (s *Store) SetProperty(p filter.Property) (filter.State, error) {
	if !p.Valid() {
		return s.Snapshot(), fmt.Errorf("%w: propiedad %q", domain.ErrInvalidInput, p)
	}
	return s.apply(func(cur filter.State) filter.State {
		cur.Property = p
		return cur
	}), nil
}

// SetArea cambia el área sin tocar la fecha ni la propiedad.
func (s *Store) SetArea(a filter.Area) (filter.State, error) {
	if !a.Valid() {
		return s.Snapshot(), fmt.Errorf("%w: área %q", domain.ErrInvalidInput, a)
	}
	return s.apply(func(cur filter.State) filter.State {
		cur.Area = a
		return cur
	}), nil
}

// Reset vuelve a los valores por defecto (logout o limpieza explícita).
func (s *Store) Reset() filter.State {
	return s.apply(func(filter.State) filter.State { return filter.DefaultState() })
}

// Restore reemplaza el estado por uno persistido, reparándolo antes. Un año
// fuera de rango descarta la fecha.
func (s *Store) Restore(st filter.State) filter.State {
	repaired := s.sanitize(st)
	return s.apply(func(filter.State) filter.State { return repaired })
}

// Subscribe registra un observador. La función devuelta lo da de baja y
// puede llamarse más de una vez.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Watch registra fn y la llama con el estado actual de forma atómica respecto
// de los escritores: no se pierde ni se reordena ningún cambio intermedio.
func (s *Store) Watch(fn Listener) (unsubscribe func()) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	unsubscribe = s.Subscribe(fn)
	fn(s.Snapshot())
	return unsubscribe
}

func (s *Store) apply(mutate func(filter.State) filter.State) filter.State {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next := mutate(prev)
	if next == prev {
		s.mu.Unlock()
		return prev
	}
	s.state = next
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
	return next
}

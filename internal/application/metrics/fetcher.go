// Package metrics mantiene los KPIs del tablero sincronizados con el filtro
// activo de la sesión.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/filters"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/ports"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/entity"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
)

// Status fase del ciclo de carga.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Resultados registrados por el Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeStale   = "stale"
)

// Recorder recibe eventos de las peticiones al backend (Prometheus en producción).
type Recorder interface {
	RequestStarted()
	RequestFinished(outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RequestStarted()                       {}
func (nopRecorder) RequestFinished(string, time.Duration) {}

// State lo que ve la vista: datos, carga y error para la clave Key.
// Tras un fallo Data conserva los últimos valores conocidos, que pertenecen
// a DataKey y no necesariamente a Key.
type State struct {
	Status    Status
	Data      entity.Metrics
	DataKey   filter.State
	Error     string
	Key       filter.State
	UpdatedAt time.Time
}

// Loading indica si hay una petición en curso para la clave actual.
func (s State) Loading() bool { return s.Status == StatusLoading }

// Stale true si hay datos pero no corresponden al filtro actual.
func (s State) Stale() bool { return s.Data != nil && s.DataKey != s.Key }

// Listener recibe cada transición del Fetcher.
type Listener func(State)

// Fetcher ejecuta una petición por cada clave de filtro distinta. Solo el
// resultado de la petición más reciente se aplica; las anteriores se cancelan
// y, si igual responden, se descartan.
type Fetcher struct {
	source ports.MetricsSource
	rec    Recorder
	log    zerolog.Logger
	now    func() time.Time

	writeMu sync.Mutex // serializa transiciones y notificaciones

	mu        sync.Mutex
	state     State
	hasKey    bool
	seq       uint64
	cancel    context.CancelFunc
	closed    bool
	subs      map[int]Listener
	nextID    int
	unobserve func()
	done      chan struct{}

	wg sync.WaitGroup
}

// NewFetcher construye el fetcher en estado idle. rec puede ser nil.
func NewFetcher(source ports.MetricsSource, log zerolog.Logger, rec Recorder) *Fetcher {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Fetcher{
		source: source,
		rec:    rec,
		log:    log.With().Str("component", "metrics_fetcher").Logger(),
		now:    time.Now,
		state:  State{Status: StatusIdle},
		subs:   make(map[int]Listener),
		done:   make(chan struct{}),
	}
}

// Observe se suscribe al Store y dispara la carga inicial con su estado actual.
func (f *Fetcher) Observe(store *filters.Store) {
	unobserve := store.Watch(f.OnFilterChange)
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		unobserve()
		return
	}
	if f.unobserve != nil {
		f.unobserve()
	}
	f.unobserve = unobserve
	f.mu.Unlock()
}

// OnFilterChange inicia una petición si la clave cambió. Con la misma clave
// no hace nada.
func (f *Fetcher) OnFilterChange(key filter.State) {
	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.mu.Lock()
	if f.closed || (f.hasKey && f.state.Key == key) {
		f.mu.Unlock()
		return
	}
	if f.cancel != nil {
		f.cancel()
	}
	f.seq++
	seq := f.seq
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.hasKey = true
	f.state.Key = key
	f.state.Status = StatusLoading
	f.state.Error = ""
	snap := f.state
	f.wg.Add(1)
	f.mu.Unlock()

	go f.run(ctx, seq, key)
	f.notify(snap)
}

func (f *Fetcher) run(ctx context.Context, seq uint64, key filter.State) {
	defer f.wg.Done()
	start := f.now()
	f.rec.RequestStarted()

	data, err := f.source.FetchMetrics(ctx, key)
	elapsed := f.now().Sub(start)

	f.writeMu.Lock()
	defer f.writeMu.Unlock()

	f.mu.Lock()
	if f.closed || seq != f.seq {
		f.mu.Unlock()
		f.rec.RequestFinished(OutcomeStale, elapsed)
		f.log.Debug().Uint64("seq", seq).Msg("respuesta de métricas descartada por obsoleta")
		return
	}
	f.cancel()
	f.cancel = nil
	if err != nil {
		f.state.Status = StatusFailure
		f.state.Error = err.Error()
	} else {
		f.state.Status = StatusSuccess
		f.state.Data = data
		f.state.DataKey = key
		f.state.Error = ""
	}
	f.state.UpdatedAt = f.now()
	snap := f.state
	f.mu.Unlock()

	if err != nil {
		f.rec.RequestFinished(OutcomeFailure, elapsed)
		f.log.Warn().Err(err).Str("breadcrumb", key.Date.Breadcrumb()).Msg("error al cargar métricas")
	} else {
		f.rec.RequestFinished(OutcomeSuccess, elapsed)
	}
	f.notify(snap)
}

// Snapshot copia del estado actual.
func (f *Fetcher) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.state
	s.Data = s.Data.Clone()
	return s
}

// Subscribe registra un observador de transiciones.
func (f *Fetcher) Subscribe(fn Listener) (unsubscribe func()) {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// Close cancela la petición en curso, deja de observar el Store y espera a
// que terminen las goroutines. Es idempotente.
func (f *Fetcher) Close() {
	f.writeMu.Lock()
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		close(f.done)
		if f.cancel != nil {
			f.cancel()
			f.cancel = nil
		}
	}
	unobserve := f.unobserve
	f.unobserve = nil
	f.mu.Unlock()
	f.writeMu.Unlock()

	if unobserve != nil {
		unobserve()
	}
	f.wg.Wait()
}

// Done se cierra cuando el Fetcher se cierra.
func (f *Fetcher) Done() <-chan struct{} { return f.done }

func (f *Fetcher) notify(s State) {
	f.mu.Lock()
	listeners := make([]Listener, 0, len(f.subs))
	for _, fn := range f.subs {
		listeners = append(listeners, fn)
	}
	f.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}

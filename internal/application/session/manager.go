// Package session administra una sesión de tablero por usuario: su Store de
// filtros, el Fetcher de métricas y la persistencia del último filtro.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/filters"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/metrics"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/ports"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/entity"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/repository"
)

// Session estado vivo de un usuario autenticado.
type Session struct {
	ID       string
	User     entity.User
	Store    *filters.Store
	Fetcher  *metrics.Fetcher
	OpenedAt time.Time

	persist   *persister
	unpersist func()
}

// Manager sesiones abiertas indexadas por userID. Un login nuevo reemplaza
// la sesión anterior del mismo usuario.
type Manager struct {
	repo    repository.FilterStateRepository
	backend ports.MetricsBackend
	rec     metrics.Recorder
	log     zerolog.Logger

	epochYear int
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// Option configura un Manager.
type Option func(*Manager)

// WithEpochYear primer año seleccionable en los filtros de cada sesión.
func WithEpochYear(epoch int) Option {
	return func(m *Manager) { m.epochYear = epoch }
}

// WithClock reloj usado para el último año seleccionable.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager construye el administrador. rec puede ser nil.
func NewManager(repo repository.FilterStateRepository, backend ports.MetricsBackend, rec metrics.Recorder, log zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		repo:      repo,
		backend:   backend,
		rec:       rec,
		log:       log.With().Str("component", "session_manager").Logger(),
		epochYear: filter.DefaultEpochYear,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open crea la sesión del usuario: restaura el filtro persistido (reparado),
// suscribe el persistidor y arranca la carga de métricas.
func (m *Manager) Open(ctx context.Context, user entity.User, tokens ports.BackendTokens) (*Session, error) {
	if user.ID == "" {
		return nil, errors.New("session: usuario sin ID")
	}
	log := m.log.With().Str("user_id", user.ID).Logger()

	// La sesión anterior escribe lo pendiente antes de leer el documento.
	m.mu.Lock()
	old := m.sessions[user.ID]
	m.mu.Unlock()
	if old != nil {
		old.persist.stop()
	}

	initial := filter.DefaultState()
	doc, err := m.repo.Load(ctx, user.ID)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("no se pudo leer el filtro guardado, se usan valores por defecto")
	case doc != nil:
		initial = filter.FromDocument(*doc)
	}

	store := filters.NewStore(initial, filters.WithYears(m.epochYear, m.now))
	sess := &Session{
		ID:       uuid.New().String(),
		User:     user,
		Store:    store,
		Fetcher:  metrics.NewFetcher(m.backend.MetricsFor(tokens), log, m.rec),
		OpenedAt: time.Now(),
		persist:  newPersister(m.repo, user.ID, log),
	}
	sess.unpersist = store.Subscribe(sess.persist.enqueue)
	if store.Snapshot() != initial {
		// el documento guardado traía un año fuera de rango
		sess.persist.enqueue(store.Snapshot())
	}

	m.mu.Lock()
	prev := m.sessions[user.ID]
	m.sessions[user.ID] = sess
	m.mu.Unlock()
	if prev != nil {
		prev.stop()
	}

	sess.Fetcher.Observe(store)
	log.Info().Str("session_id", sess.ID).Str("role", user.Role).Msg("sesión abierta")
	return sess, nil
}

// Get sesión activa del usuario o domain.ErrSessionNotFound.
func (m *Manager) Get(userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

// Close cierra la sesión (logout): vuelve el filtro a los valores por defecto,
// borra el documento persistido y detiene el Fetcher.
func (m *Manager) Close(ctx context.Context, userID string) error {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if !ok {
		return domain.ErrSessionNotFound
	}

	sess.stop()
	sess.Store.Reset()
	if err := m.repo.Delete(ctx, userID); err != nil {
		m.log.Error().Err(err).Str("user_id", userID).Msg("no se pudo borrar el filtro guardado")
	}
	m.log.Info().Str("user_id", userID).Str("session_id", sess.ID).Msg("sesión cerrada")
	return nil
}

// CloseAll detiene todas las sesiones sin borrar sus filtros (apagado del proceso).
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, sess := range m.sessions {
		all = append(all, sess)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, sess := range all {
		sess.stop()
	}
}

// Len número de sesiones abiertas.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (s *Session) stop() {
	s.unpersist()
	s.persist.stop()
	s.Fetcher.Close()
}

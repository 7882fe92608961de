package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/repository"
)

const persistTimeout = 3 * time.Second

// persister guarda el filtro de un usuario en segundo plano. Sólo conserva el
// último estado pendiente: ráfagas de cambios se escriben una vez.
type persister struct {
	repo   repository.FilterStateRepository
	userID string
	log    zerolog.Logger

	pending chan filter.State
	done    chan struct{}
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
	once   sync.Once
}

func newPersister(repo repository.FilterStateRepository, userID string, log zerolog.Logger) *persister {
	p := &persister{
		repo:    repo,
		userID:  userID,
		log:     log,
		pending: make(chan filter.State, 1),
		done:    make(chan struct{}),
	}
	p.wg.Add(1)
	go p.loop()
	return p
}

// enqueue reemplaza el estado pendiente sin bloquear al escritor del Store.
func (p *persister) enqueue(st filter.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	for {
		select {
		case p.pending <- st:
			return
		default:
		}
		select {
		case <-p.pending:
		default:
		}
	}
}

func (p *persister) loop() {
	defer p.wg.Done()
	for {
		select {
		case st := <-p.pending:
			p.save(st)
		case <-p.done:
			// último estado encolado antes del cierre
			select {
			case st := <-p.pending:
				p.save(st)
			default:
			}
			return
		}
	}
}

func (p *persister) save(st filter.State) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := p.repo.Save(ctx, p.userID, st.ToDocument()); err != nil {
		p.log.Error().Err(err).Msg("no se pudo guardar el filtro")
	}
}

// stop escribe lo pendiente y espera a la goroutine. Idempotente.
func (p *persister) stop() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.done)
		p.mu.Unlock()
	})
	p.wg.Wait()
}

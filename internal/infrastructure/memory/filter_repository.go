// Package memory implementa la persistencia de filtros en memoria del proceso
// (FILTER_STORE=memory, desarrollo y tests).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/repository"
)

var _ repository.FilterStateRepository = (*FilterRepository)(nil)

// FilterRepository mapa userID → documento protegido por mutex.
type FilterRepository struct {
	mu   sync.RWMutex
	docs map[string]filter.Document
}

// NewFilterRepository crea el repositorio vacío.
func NewFilterRepository() *FilterRepository {
	return &FilterRepository{docs: make(map[string]filter.Document)}
}

func (r *FilterRepository) Load(_ context.Context, userID string) (*filter.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[userID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (r *FilterRepository) Save(_ context.Context, userID string, doc filter.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[userID] = doc
	return nil
}

func (r *FilterRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, userID)
	return nil
}

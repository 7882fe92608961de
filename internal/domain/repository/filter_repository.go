package repository

import (
	"context"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
)

// FilterStateRepository puerto de persistencia del último filtro de cada usuario.
// Guarda el documento plano; quien lo lee debe reconstruirlo con filter.FromDocument.
type FilterStateRepository interface {
	// Load devuelve (nil, nil) si el usuario no tiene filtro guardado.
	Load(ctx context.Context, userID string) (*filter.Document, error)
	Save(ctx context.Context, userID string, doc filter.Document) error
	Delete(ctx context.Context, userID string) error
}

package ports

import (
	"context"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/entity"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
)

// MetricsSource puerto de salida hacia el endpoint de métricas agregadas.
// Un error devuelto debe traer un mensaje legible para el usuario final.
type MetricsSource interface {
	// FetchMetrics pide los KPIs para el filtro. El contexto se cancela
	// cuando el filtro cambia antes de que llegue la respuesta.
	FetchMetrics(ctx context.Context, state filter.State) (entity.Metrics, error)
}

// BackendTokens credenciales del usuario en el backend. Refresh se usa para
// renovar Access cuando el backend responde 401.
type BackendTokens struct {
	Access  string
	Refresh string
}

// MetricsBackend entrega un MetricsSource autenticado con los tokens del
// usuario en el backend.
type MetricsBackend interface {
	MetricsFor(tokens BackendTokens) MetricsSource
}

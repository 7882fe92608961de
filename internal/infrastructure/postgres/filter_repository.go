package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/repository"
)

var _ repository.FilterStateRepository = (*FilterRepo)(nil)

const createFiltersTable = `
	CREATE TABLE IF NOT EXISTS dashboard_filters (
		user_id    TEXT PRIMARY KEY,
		document   JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// FilterRepo implementación de FilterStateRepository sobre PostgreSQL
// (tabla dashboard_filters, documento en jsonb).
type FilterRepo struct {
	pool *pgxpool.Pool
}

// NewFilterRepository construye el adaptador.
func NewFilterRepository(pool *pgxpool.Pool) *FilterRepo {
	return &FilterRepo{pool: pool}
}

// EnsureSchema crea la tabla si no existe.
func (r *FilterRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createFiltersTable); err != nil {
		return fmt.Errorf("crear tabla dashboard_filters: %w", err)
	}
	return nil
}

// Load devuelve (nil, nil) si el usuario no tiene filtro guardado.
func (r *FilterRepo) Load(ctx context.Context, userID string) (*filter.Document, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT document FROM dashboard_filters WHERE user_id = $1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer filtro: %w", err)
	}
	var doc filter.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("filtro corrupto para %s: %w", userID, err)
	}
	return &doc, nil
}

// Save inserta o reemplaza el documento del usuario.
func (r *FilterRepo) Save(ctx context.Context, userID string, doc filter.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serializar filtro: %w", err)
	}
	query := `
		INSERT INTO dashboard_filters (user_id, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`
	if _, err := r.pool.Exec(ctx, query, userID, raw); err != nil {
		return fmt.Errorf("guardar filtro: %w", err)
	}
	return nil
}

// Delete borra el documento; no falla si no existía.
func (r *FilterRepo) Delete(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM dashboard_filters WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("borrar filtro: %w", err)
	}
	return nil
}

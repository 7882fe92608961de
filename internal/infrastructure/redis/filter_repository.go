package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/filter"
	"github.com/jhoicas/sites-hotels-dashboard/internal/domain/repository"
)

var _ repository.FilterStateRepository = (*FilterRepository)(nil)

const keyPrefix = "dashboard:filters:"

// FilterRepository guarda el documento de filtro como JSON bajo
// dashboard:filters:<userID>. ttl 0 significa sin expiración.
type FilterRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewFilterRepository construye el repositorio.
func NewFilterRepository(client *goredis.Client, ttl time.Duration) *FilterRepository {
	return &FilterRepository{client: client, ttl: ttl}
}

func key(userID string) string { return keyPrefix + userID }

func (r *FilterRepository) Load(ctx context.Context, userID string) (*filter.Document, error) {
	raw, err := r.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: leer filtro: %w", err)
	}
	var doc filter.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("redis: filtro corrupto para %s: %w", userID, err)
	}
	return &doc, nil
}

func (r *FilterRepository) Save(ctx context.Context, userID string, doc filter.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("redis: serializar filtro: %w", err)
	}
	if err := r.client.Set(ctx, key(userID), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis: guardar filtro: %w", err)
	}
	return nil
}

func (r *FilterRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("redis: borrar filtro: %w", err)
	}
	return nil
}

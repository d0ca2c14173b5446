package service

import (
	"context"
	"fmt"

	"github.com/aasthafoundation/careboard/internal/repository"
)

// DatabaseBackend proxies every resource to its table.
type DatabaseBackend struct {
	store *repository.Store
}

func NewDatabaseBackend(store *repository.Store) *DatabaseBackend {
	return &DatabaseBackend{store: store}
}

func (b *DatabaseBackend) Name() string   { return "database" }
func (b *DatabaseBackend) ReadOnly() bool { return false }

func (b *DatabaseBackend) table(resource string) (string, error) {
	r, ok := LookupResource(resource)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	return r.Table, nil
}

func (b *DatabaseBackend) List(ctx context.Context, resource string) ([]Record, error) {
	t, err := b.table(resource)
	if err != nil {
		return nil, err
	}
	return b.store.List(ctx, t)
}

func (b *DatabaseBackend) Create(ctx context.Context, resource string, fields Record) (Record, error) {
	t, err := b.table(resource)
	if err != nil {
		return nil, err
	}
	return b.store.Insert(ctx, t, fields)
}

func (b *DatabaseBackend) Update(ctx context.Context, resource, id string, fields Record) (Record, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	t, err := b.table(resource)
	if err != nil {
		return nil, err
	}
	return b.store.Update(ctx, t, id, fields)
}

func (b *DatabaseBackend) Delete(ctx context.Context, resource, id string) (Record, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	t, err := b.table(resource)
	if err != nil {
		return nil, err
	}
	return b.store.Delete(ctx, t, id)
}

func (b *DatabaseBackend) Ping(ctx context.Context) error {
	return b.store.Ping(ctx)
}

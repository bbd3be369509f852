package store

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Manager layers the idempotent ensure policy on top of a raw Client:
// collections are created only when absent (or recreated when forced) and
// the default vector index is registered exactly once.
type Manager struct {
	client Client
}

// NewManager wraps a Client.
func NewManager(client Client) *Manager {
	return &Manager{client: client}
}

// EnsureCollection makes sure the named collection exists with the given
// dimension. When force is set an existing collection is dropped and
// recreated, discarding its records. Returns true when a collection was
// created by this call.
func (m *Manager) EnsureCollection(ctx context.Context, name string, dimension int, force bool) (bool, error) {
	exists, err := m.client.HasCollection(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check collection %q: %w", name, err)
	}

	if exists {
		if !force {
			log.Printf("[store] collection %s already exists", name)
			return false, nil
		}
		log.Printf("[store] dropping collection %s for recreation", name)
		if err := m.client.DropCollection(ctx, name); err != nil {
			return false, fmt.Errorf("drop collection %q: %w", name, err)
		}
	}

	if err := m.client.CreateCollection(ctx, name, dimension); err != nil {
		return false, fmt.Errorf("create collection %q: %w", name, err)
	}
	log.Printf("[store] created collection %s dimension=%d", name, dimension)
	return true, nil
}

// EnsureIndex registers the default flat L2 index on the collection if it
// is not registered yet.
func (m *Manager) EnsureIndex(ctx context.Context, collection string) error {
	params := DefaultIndexParams()

	_, err := m.client.DescribeIndex(ctx, collection, params.Name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrIndexNotFound) {
		return fmt.Errorf("describe index on %q: %w", collection, err)
	}

	if err := m.client.CreateIndex(ctx, collection, params); err != nil {
		return fmt.Errorf("create index on %q: %w", collection, err)
	}
	log.Printf("[store] created index %s on %s", params.Name, collection)
	return nil
}

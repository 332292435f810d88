package hooks

import (
	"context"

	"medical-record-service/internal/storage"
)

// Dispatcher is the hooked view of a Store: every Save, Delete and Find it
// serves runs through the entity's registered chain before reaching storage.
// Callers that must bypass the chain (administrative restore and hard delete)
// talk to the underlying Store directly instead.
type Dispatcher struct {
	store    storage.Store
	registry *Registry
}

func NewDispatcher(store storage.Store, registry *Registry) *Dispatcher {
	return &Dispatcher{store: store, registry: registry}
}

func (d *Dispatcher) Save(ctx context.Context, entity string, input storage.Record) (storage.Record, error) {
	native := func(ctx context.Context, in storage.Record) (storage.Record, error) {
		return d.store.Save(ctx, entity, in)
	}
	return d.registry.ComposeSave(entity, native)(ctx, input)
}

func (d *Dispatcher) Delete(ctx context.Context, entity string, id string) (bool, error) {
	native := func(ctx context.Context, id string) (bool, error) {
		return d.store.Delete(ctx, entity, id)
	}
	return d.registry.ComposeDelete(entity, native)(ctx, id)
}

func (d *Dispatcher) Find(ctx context.Context, entity string, q storage.Query) ([]storage.Record, error) {
	native := func(ctx context.Context, q storage.Query) ([]storage.Record, error) {
		return d.store.Find(ctx, entity, q)
	}
	return d.registry.ComposeFind(entity, native)(ctx, q)
}

// Get fetches one row by id through the find chain, so default soft-delete
// filtering applies to point lookups too.
func (d *Dispatcher) Get(ctx context.Context, entity string, id string) (storage.Record, error) {
	rows, err := d.Find(ctx, entity, storage.Query{
		Where: []storage.Cond{{Field: "id", Op: storage.OpEq, Value: id}},
		Limit: 1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storage.ErrNotFound
	}
	return rows[0], nil
}

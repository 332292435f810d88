// Package hooks implements the entity-mutation hook pipeline: an ordered,
// named middleware chain per entity and operation, composed statically at
// startup. Hooks can transform arguments before calling through to storage
// and transform results on the way back; an entity with no registered hooks
// is a plain pass-through.
package hooks

import (
	"context"
	"fmt"

	"medical-record-service/internal/storage"
)

// SaveFunc persists a record (insert or update) and returns the stored row.
type SaveFunc func(ctx context.Context, input storage.Record) (storage.Record, error)

// DeleteFunc deletes the row with the given id and reports whether a row was
// affected. Whether "delete" means physical or logical depends on the hooks
// in front of it.
type DeleteFunc func(ctx context.Context, id string) (bool, error)

// FindFunc runs a query and returns the matching rows.
type FindFunc func(ctx context.Context, q storage.Query) ([]storage.Record, error)

// SaveHook wraps a SaveFunc with additional behavior.
type SaveHook func(next SaveFunc) SaveFunc

// DeleteHook wraps a DeleteFunc with additional behavior.
type DeleteHook func(next DeleteFunc) DeleteFunc

// FindHook wraps a FindFunc with additional behavior.
type FindHook func(next FindFunc) FindFunc

type stage[H any] struct {
	name string
	hook H
}

// Registry holds the per-entity hook chains. It is write-once: every stage is
// registered during startup wiring, then Freeze makes the registry immutable
// so lookups need no locking.
type Registry struct {
	frozen  bool
	saves   map[string][]stage[SaveHook]
	deletes map[string][]stage[DeleteHook]
	finds   map[string][]stage[FindHook]
}

func NewRegistry() *Registry {
	return &Registry{
		saves:   make(map[string][]stage[SaveHook]),
		deletes: make(map[string][]stage[DeleteHook]),
		finds:   make(map[string][]stage[FindHook]),
	}
}

// RegisterSave appends a named save stage to the entity's chain. Stages run
// in registration order: the first registered stage is the outermost.
func (r *Registry) RegisterSave(entity, name string, h SaveHook) {
	r.ensureMutable(entity, name)
	r.saves[entity] = append(r.saves[entity], stage[SaveHook]{name, h})
}

// RegisterDelete appends a named delete stage to the entity's chain.
func (r *Registry) RegisterDelete(entity, name string, h DeleteHook) {
	r.ensureMutable(entity, name)
	r.deletes[entity] = append(r.deletes[entity], stage[DeleteHook]{name, h})
}

// RegisterFind appends a named find stage to the entity's chain.
func (r *Registry) RegisterFind(entity, name string, h FindHook) {
	r.ensureMutable(entity, name)
	r.finds[entity] = append(r.finds[entity], stage[FindHook]{name, h})
}

// Freeze marks the end of startup wiring. Registration after Freeze panics:
// runtime mutation of the chains is a programming error, not a recoverable
// condition.
func (r *Registry) Freeze() {
	r.frozen = true
}

func (r *Registry) ensureMutable(entity, name string) {
	if r.frozen {
		panic(fmt.Sprintf("hooks: register %q stage %q after Freeze", entity, name))
	}
}

// ComposeSave builds the save chain for an entity around the native
// operation.
func (r *Registry) ComposeSave(entity string, native SaveFunc) SaveFunc {
	stages := r.saves[entity]
	fn := native
	for i := len(stages) - 1; i >= 0; i-- {
		fn = stages[i].hook(fn)
	}
	return fn
}

// ComposeDelete builds the delete chain for an entity around the native
// operation.
func (r *Registry) ComposeDelete(entity string, native DeleteFunc) DeleteFunc {
	stages := r.deletes[entity]
	fn := native
	for i := len(stages) - 1; i >= 0; i-- {
		fn = stages[i].hook(fn)
	}
	return fn
}

// ComposeFind builds the find chain for an entity around the native
// operation.
func (r *Registry) ComposeFind(entity string, native FindFunc) FindFunc {
	stages := r.finds[entity]
	fn := native
	for i := len(stages) - 1; i >= 0; i-- {
		fn = stages[i].hook(fn)
	}
	return fn
}

// Package softdelete turns physical deletes into logical ones and keeps
// logically-deleted rows out of default query results. Recovery and physical
// removal live in AdminService, which talks to storage directly so it cannot
// re-trigger the hooks it exists to bypass.
package softdelete

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"medical-record-service/internal/actor"
	"medical-record-service/internal/hooks"
	"medical-record-service/internal/storage"
)

// StageName identifies the interceptor's stages in the hook registry.
const StageName = "soft-delete"

// Interceptor provides the delete and find hooks for soft-deletable entities.
type Interceptor struct {
	store  storage.Store
	schema *storage.Schema
	logger *logrus.Logger
	now    func() time.Time
}

func NewInterceptor(store storage.Store, schema *storage.Schema, logger *logrus.Logger) *Interceptor {
	return &Interceptor{store: store, schema: schema, logger: logger, now: time.Now}
}

// Register wires the interceptor into every soft-deletable entity of the
// schema.
func (i *Interceptor) Register(reg *hooks.Registry) {
	for _, ent := range i.schema.Entities() {
		if !ent.SoftDelete {
			continue
		}
		reg.RegisterDelete(ent.Name, StageName, i.deleteHook(ent.Name))
		reg.RegisterFind(ent.Name, StageName, i.findHook())
		i.logger.WithField("entity", ent.Name).Info("soft-delete enabled")
	}
}

// deleteHook rewrites a delete into an update stamping deleted_at/deleted_by.
// The next stage is never invoked: rows below this stage would be physically
// removed.
func (i *Interceptor) deleteHook(entity string) hooks.DeleteHook {
	return func(next hooks.DeleteFunc) hooks.DeleteFunc {
		return func(ctx context.Context, id string) (bool, error) {
			act, err := actor.FromContext(ctx)
			if err != nil {
				return false, err
			}
			i.logger.WithFields(logrus.Fields{
				"entity": entity,
				"id":     id,
				"actor":  act.ID,
			}).Info("soft deleting record")

			_, err = i.store.Save(ctx, entity, storage.Record{
				"id":         id,
				"deleted_at": i.now().UTC(),
				"deleted_by": act.ID,
			})
			if err != nil {
				return false, err
			}
			return true, nil
		}
	}
}

// findHook consumes the IncludeDeleted flag and, unless set, narrows the
// query to live rows. A caller-supplied condition on deleted_at is left
// alone: the default filter is merged, never overriding an explicit one.
func (i *Interceptor) findHook() hooks.FindHook {
	return func(next hooks.FindFunc) hooks.FindFunc {
		return func(ctx context.Context, q storage.Query) ([]storage.Record, error) {
			include := q.IncludeDeleted
			q.IncludeDeleted = false // not a storage concept

			if !include && !constrains(q.Where, "deleted_at") {
				where := make([]storage.Cond, 0, len(q.Where)+1)
				where = append(where, q.Where...)
				q.Where = append(where, storage.Cond{Field: "deleted_at", Op: storage.OpIsNull})
			}
			return next(ctx, q)
		}
	}
}

func constrains(conds []storage.Cond, field string) bool {
	for _, c := range conds {
		if c.Field == field {
			return true
		}
	}
	return false
}

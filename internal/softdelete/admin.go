package softdelete

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"medical-record-service/internal/actor"
	"medical-record-service/internal/adapters"
	"medical-record-service/internal/storage"
)

// AdminService implements the recovery operations over soft-deleted rows.
// All three operations bypass the hook chain on purpose: listing must not
// re-trigger the default exclusion, restore must not re-enter the delete
// rewrite, and hard delete must reach physical storage.
type AdminService struct {
	store  storage.Store
	schema *storage.Schema
	audit  adapters.AuditPublisher
	logger *logrus.Logger
}

func NewAdminService(store storage.Store, schema *storage.Schema, audit adapters.AuditPublisher, logger *logrus.Logger) *AdminService {
	return &AdminService{store: store, schema: schema, audit: audit, logger: logger}
}

// ListDeleted returns every logically-deleted row of the entity.
func (s *AdminService) ListDeleted(ctx context.Context, entity string) ([]storage.Record, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return nil, err
	}
	return s.store.Find(ctx, ent.Name, storage.Where(
		storage.Cond{Field: "deleted_at", Op: storage.OpNotNull},
	))
}

// Restore clears the deletion metadata of a row. Restoring an already-active
// row is a no-op and not an error.
func (s *AdminService) Restore(ctx context.Context, entity string, id string) (storage.Record, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return nil, err
	}
	restored, err := s.store.Save(ctx, ent.Name, storage.Record{
		"id":         id,
		"deleted_at": nil,
		"deleted_by": nil,
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"entity": entity, "id": id}).Info("record restored")
	s.publish(ctx, "restore", entity, id)
	return restored, nil
}

// HardDelete physically removes the row. Irreversible; it does not cascade
// to dependent rows (versions of a hard-deleted report remain, caller-driven
// cleanup if ever needed).
func (s *AdminService) HardDelete(ctx context.Context, entity string, id string) (bool, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return false, err
	}
	deleted, err := s.store.Delete(ctx, ent.Name, id)
	if err != nil {
		return false, err
	}
	s.logger.WithFields(logrus.Fields{
		"entity": entity,
		"id":     id,
	}).Warn("HARD DELETE executed - record permanently removed")
	s.publish(ctx, "hard_delete", entity, id)
	return deleted, nil
}

// publish emits an audit event best-effort; audit transport problems must not
// fail an administrative operation that already happened.
func (s *AdminService) publish(ctx context.Context, action, entity, id string) {
	if s.audit == nil {
		return
	}
	act, _ := actor.FromContext(ctx)
	ev := adapters.AuditEvent{
		Action:   action,
		Entity:   entity,
		RecordID: id,
		ActorID:  act.ID,
		At:       time.Now().UTC(),
	}
	if err := s.audit.Publish(ctx, ev); err != nil {
		s.logger.WithError(err).WithField("action", action).Error("failed to publish audit event")
	}
}

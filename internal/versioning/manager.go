// Package versioning maintains the append-only version history of reports:
// every successful save produces an immutable snapshot, exactly one snapshot
// per report is current, and version numbers are contiguous starting at 1.
package versioning

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"medical-record-service/internal/actor"
	"medical-record-service/internal/hooks"
	"medical-record-service/internal/storage"
)

const (
	// StageName identifies the manager's stages in the hook registry.
	StageName = "versioning"

	reportEntity  = "report"
	versionEntity = "reportVersion"

	defaultChangeReason   = "Updated via API"
	preDeleteChangeReason = "pre-delete snapshot"

	// maxSaveAttempts bounds the retry loop on version number collisions.
	maxSaveAttempts = 3
)

// ErrVersionConflict is returned when concurrent saves kept colliding on the
// same version number and the retry budget ran out. The condition is
// transient; the caller may retry the whole save.
var ErrVersionConflict = errors.New("version number conflict")

// errNumberTaken marks a retryable collision inside one save attempt.
var errNumberTaken = errors.New("version number already taken")

// Manager provides the save and delete hooks for the report entity.
type Manager struct {
	store  storage.Store
	logger *logrus.Logger
}

func NewManager(store storage.Store, logger *logrus.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Register wires the manager into the report entity. It must be called
// before the soft-delete interceptor registers, so the pre-delete snapshot
// stage wraps outside the delete rewrite and still sees live data.
func (m *Manager) Register(reg *hooks.Registry) {
	reg.RegisterSave(reportEntity, StageName, m.SaveHook)
	reg.RegisterDelete(reportEntity, StageName, m.DeleteHook)
}

// SaveHook wraps a report save so the record mutation, the version snapshot
// and the current_version_id relink commit or fail as one transaction. A
// save whose audit trail cannot be written is a failed save.
//
// The critical section spans from reading max(version_number) through the
// snapshot insert; the unique (report_id, version_number) key detects
// concurrent saves that raced through it, and the whole attempt is retried.
func (m *Manager) SaveHook(next hooks.SaveFunc) hooks.SaveFunc {
	return func(ctx context.Context, input storage.Record) (storage.Record, error) {
		act, err := actor.FromContext(ctx)
		if err != nil {
			return nil, err
		}
		reason := storage.AsString(input, "change_reason")
		if reason == "" {
			reason = defaultChangeReason
		}
		// change_reason belongs to the version row, not the report table.
		in := make(storage.Record, len(input))
		for k, v := range input {
			if k != "change_reason" {
				in[k] = v
			}
		}

		for attempt := 1; attempt <= maxSaveAttempts; attempt++ {
			var saved storage.Record
			err = m.store.Transaction(ctx, func(txCtx context.Context) error {
				s, err := next(txCtx, in)
				if err != nil {
					return err
				}
				if s == nil {
					return nil // nothing was saved, nothing to version
				}
				ver, err := m.createVersionSnapshot(txCtx, s, act.ID, reason)
				if err != nil {
					return err
				}
				verID := storage.AsString(ver, "id")
				_, err = m.store.UpdateWhere(txCtx, reportEntity,
					[]storage.Cond{{Field: "id", Op: storage.OpEq, Value: storage.AsString(s, "id")}},
					storage.Record{"current_version_id": verID, "last_modified_by": act.ID},
				)
				if err != nil {
					return fmt.Errorf("relink current version: %w", err)
				}
				s["current_version_id"] = verID
				s["last_modified_by"] = act.ID
				saved = s
				return nil
			})
			if err == nil {
				return saved, nil
			}
			if !errors.Is(err, errNumberTaken) {
				return nil, err
			}
			m.logger.WithFields(logrus.Fields{
				"attempt": attempt,
			}).Warn("version number collision, retrying save")
		}
		return nil, fmt.Errorf("%w: gave up after %d attempts", ErrVersionConflict, maxSaveAttempts)
	}
}

// DeleteHook takes one final snapshot of the still-live report before
// delegating down the chain to the soft-delete rewrite. Snapshotting here is
// best-effort on purpose: failing to archive must not block a
// compliance-mandated delete.
func (m *Manager) DeleteHook(next hooks.DeleteFunc) hooks.DeleteFunc {
	return func(ctx context.Context, id string) (bool, error) {
		rec, err := m.store.Get(ctx, reportEntity, id)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return next(ctx, id)
		case err != nil:
			m.logger.WithError(err).WithField("report_id", id).
				Error("failed to load report for pre-delete snapshot")
			return next(ctx, id)
		}

		if act, actErr := actor.FromContext(ctx); actErr == nil {
			snapErr := m.store.Transaction(ctx, func(txCtx context.Context) error {
				_, err := m.createVersionSnapshot(txCtx, rec, act.ID, preDeleteChangeReason)
				return err
			})
			if snapErr != nil {
				m.logger.WithError(snapErr).WithField("report_id", id).
					Error("failed to create pre-delete snapshot")
			} else {
				m.logger.WithField("report_id", id).Info("pre-delete version snapshot created")
			}
		}
		return next(ctx, id)
	}
}

// createVersionSnapshot computes the next version number, demotes the
// previous current version and inserts the new snapshot, all on the caller's
// transaction context.
func (m *Manager) createVersionSnapshot(ctx context.Context, report storage.Record, changedBy, changeReason string) (storage.Record, error) {
	reportID := storage.AsString(report, "id")

	number, err := m.nextVersionNumber(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := m.clearCurrentFlags(ctx, reportID); err != nil {
		return nil, err
	}
	ver, err := m.store.Save(ctx, versionEntity, storage.Record{
		"report_id":      reportID,
		"version_number": number,
		"title":          storage.AsString(report, "title"),
		"content":        storage.AsString(report, "content"),
		"findings":       storage.AsString(report, "findings"),
		"diagnosis":      storage.AsString(report, "diagnosis"),
		"changed_by":     changedBy,
		"change_reason":  changeReason,
		"is_current":     true,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: report %s number %d", errNumberTaken, reportID, number)
		}
		return nil, fmt.Errorf("insert version snapshot: %w", err)
	}
	m.logger.WithFields(logrus.Fields{
		"report_id":      reportID,
		"version_number": number,
		"changed_by":     changedBy,
	}).Info("version snapshot created")
	return ver, nil
}

// nextVersionNumber returns max(version_number)+1 for the report, 1 when no
// versions exist. Alone it is read-then-write and racy; the uniqueness
// constraint plus the retry loop in SaveHook is what makes it safe.
func (m *Manager) nextVersionNumber(ctx context.Context, reportID string) (int, error) {
	rows, err := m.store.Find(ctx, versionEntity, storage.Query{
		Where:   []storage.Cond{{Field: "report_id", Op: storage.OpEq, Value: reportID}},
		OrderBy: "version_number desc",
		Limit:   1,
	})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 1, nil
	}
	return int(storage.AsInt64(rows[0], "version_number")) + 1, nil
}

// clearCurrentFlags demotes every current, non-deleted version of the report.
func (m *Manager) clearCurrentFlags(ctx context.Context, reportID string) error {
	_, err := m.store.UpdateWhere(ctx, versionEntity,
		[]storage.Cond{
			{Field: "report_id", Op: storage.OpEq, Value: reportID},
			{Field: "is_current", Op: storage.OpEq, Value: true},
			{Field: "deleted_at", Op: storage.OpIsNull},
		},
		storage.Record{"is_current": false},
	)
	return err
}

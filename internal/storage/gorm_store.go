package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GormStore implements Store on top of a *gorm.DB. Rows travel as generic
// maps so the hook pipeline stays entity-agnostic; the typed entity structs
// are only used for migrations.
type GormStore struct {
	db     *gorm.DB
	schema *Schema
	logger *logrus.Logger
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB, schema *Schema, logger *logrus.Logger) *GormStore {
	return &GormStore{db: db, schema: schema, logger: logger}
}

type gormTxKey struct{}

// conn returns the transaction carried by ctx, or the root handle.
func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

func (s *GormStore) Save(ctx context.Context, entity string, input Record) (Record, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return nil, err
	}

	id := AsString(input, "id")
	if id == "" {
		return s.insert(ctx, ent, input)
	}

	set := make(Record, len(input))
	for k, v := range input {
		if k != "id" {
			set[k] = v
		}
	}
	if ent.Timestamps {
		set["updated_at"] = time.Now().UTC()
	}
	if len(set) > 0 {
		res := s.conn(ctx).Table(ent.Table).Where("id = ?", id).Updates(map[string]any(set))
		if res.Error != nil {
			return nil, s.translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
		}
	}
	return s.Get(ctx, entity, id)
}

func (s *GormStore) insert(ctx context.Context, ent Entity, input Record) (Record, error) {
	row := make(Record, len(input)+3)
	for k, v := range input {
		row[k] = v
	}
	id := uuid.NewString()
	row["id"] = id
	now := time.Now().UTC()
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = now
	}
	if ent.Timestamps {
		row["updated_at"] = now
	}
	if err := s.conn(ctx).Table(ent.Table).Create(map[string]any(row)).Error; err != nil {
		return nil, s.translate(err)
	}
	return s.Get(ctx, ent.Name, id)
}

func (s *GormStore) Get(ctx context.Context, entity string, id string) (Record, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return nil, err
	}
	row := map[string]any{}
	if err := s.conn(ctx).Table(ent.Table).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, s.translate(err)
	}
	return Record(row), nil
}

func (s *GormStore) Find(ctx context.Context, entity string, q Query) ([]Record, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return nil, err
	}
	tx := s.conn(ctx).Table(ent.Table)
	tx, err = applyConds(tx, q.Where)
	if err != nil {
		return nil, err
	}
	if q.OrderBy != "" {
		tx = tx.Order(q.OrderBy)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	var rows []map[string]any
	if err := tx.Find(&rows).Error; err != nil {
		return nil, s.translate(err)
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = Record(r)
	}
	return out, nil
}

func (s *GormStore) UpdateWhere(ctx context.Context, entity string, where []Cond, set Record) (int64, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return 0, err
	}
	tx := s.conn(ctx).Table(ent.Table)
	tx, err = applyConds(tx, where)
	if err != nil {
		return 0, err
	}
	res := tx.Updates(map[string]any(set))
	if res.Error != nil {
		return 0, s.translate(res.Error)
	}
	return res.RowsAffected, nil
}

// Delete physically removes the row through the raw execution channel. The
// soft-delete interceptor never calls this; only administrative hard deletes
// reach it.
func (s *GormStore) Delete(ctx context.Context, entity string, id string) (bool, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return false, err
	}
	res := s.conn(ctx).Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", ent.Table), id)
	if res.Error != nil {
		return false, s.translate(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		// Already inside a transaction; join it.
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, gormTxKey{}, tx))
	})
}

func applyConds(tx *gorm.DB, conds []Cond) (*gorm.DB, error) {
	for _, c := range conds {
		switch c.Op {
		case OpEq:
			tx = tx.Where(fmt.Sprintf("%s = ?", c.Field), c.Value)
		case OpNeq:
			tx = tx.Where(fmt.Sprintf("%s <> ?", c.Field), c.Value)
		case OpIsNull:
			tx = tx.Where(fmt.Sprintf("%s IS NULL", c.Field))
		case OpNotNull:
			tx = tx.Where(fmt.Sprintf("%s IS NOT NULL", c.Field))
		default:
			return nil, fmt.Errorf("unsupported condition operator %q on %s", c.Op, c.Field)
		}
	}
	return tx, nil
}

func (s *GormStore) translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	default:
		return err
	}
}

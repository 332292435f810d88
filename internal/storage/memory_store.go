package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by tests and local runs. It enforces
// the same unique constraints the database schema does, and serializes
// transactions behind a single mutex with snapshot rollback, so the pipeline's
// concurrency properties can be exercised without a database.
type MemoryStore struct {
	mu     chan struct{} // acquired for the whole lifetime of a transaction
	schema *Schema
	tables map[string]map[string]Record
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(schema *Schema) *MemoryStore {
	s := &MemoryStore{
		mu:     make(chan struct{}, 1),
		schema: schema,
		tables: make(map[string]map[string]Record),
	}
	for _, e := range schema.Entities() {
		s.tables[e.Name] = make(map[string]Record)
	}
	return s
}

type memTxKey struct{}

// lock acquires the store mutex unless ctx already runs inside a transaction
// of this store, which holds it for its whole duration.
func (s *MemoryStore) lock(ctx context.Context) (unlock func()) {
	if ctx.Value(memTxKey{}) == any(s) {
		return func() {}
	}
	s.mu <- struct{}{}
	return func() { <-s.mu }
}

func (s *MemoryStore) Save(ctx context.Context, entity string, input Record) (Record, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(ctx)
	defer unlock()

	rows := s.tables[ent.Name]
	now := time.Now().UTC()

	id := AsString(input, "id")
	var row Record
	if id == "" {
		id = uuid.NewString()
		row = Record{"id": id, "created_at": now}
		if ent.Timestamps {
			row["updated_at"] = now
		}
	} else {
		existing, ok := rows[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
		}
		row = cloneRecord(existing)
		if ent.Timestamps {
			row["updated_at"] = now
		}
	}
	for k, v := range input {
		if k != "id" {
			row[k] = v
		}
	}
	if err := s.checkUnique(ent, rows, row); err != nil {
		return nil, err
	}
	rows[id] = row
	return cloneRecord(row), nil
}

func (s *MemoryStore) checkUnique(ent Entity, rows map[string]Record, candidate Record) error {
	check := func(keys [][]string, activeOnly bool) error {
		for _, key := range keys {
			if activeOnly && !isNil(candidate["deleted_at"]) {
				continue
			}
			if anyNilKey(candidate, key) {
				continue
			}
			for id, other := range rows {
				if id == AsString(candidate, "id") {
					continue
				}
				if activeOnly && !isNil(other["deleted_at"]) {
					continue
				}
				same := true
				for _, f := range key {
					if !equalValues(candidate[f], other[f]) {
						same = false
						break
					}
				}
				if same {
					return fmt.Errorf("%w: %s (%s)", ErrDuplicateKey, ent.Name, strings.Join(key, ","))
				}
			}
		}
		return nil
	}
	if err := check(ent.UniqueKeys, false); err != nil {
		return err
	}
	return check(ent.ActiveUniqueKeys, true)
}

func (s *MemoryStore) Get(ctx context.Context, entity string, id string) (Record, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(ctx)
	defer unlock()
	row, ok := s.tables[ent.Name][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, entity, id)
	}
	return cloneRecord(row), nil
}

func (s *MemoryStore) Find(ctx context.Context, entity string, q Query) ([]Record, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return nil, err
	}
	unlock := s.lock(ctx)
	defer unlock()

	var out []Record
	for _, row := range s.tables[ent.Name] {
		ok, err := matches(row, q.Where)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, cloneRecord(row))
		}
	}
	if err := orderRecords(out, q.OrderBy); err != nil {
		return nil, err
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) UpdateWhere(ctx context.Context, entity string, where []Cond, set Record) (int64, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return 0, err
	}
	unlock := s.lock(ctx)
	defer unlock()

	var n int64
	for id, row := range s.tables[ent.Name] {
		ok, err := matches(row, where)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		updated := cloneRecord(row)
		for k, v := range set {
			updated[k] = v
		}
		if ent.Timestamps {
			updated["updated_at"] = time.Now().UTC()
		}
		s.tables[ent.Name][id] = updated
		n++
	}
	return n, nil
}

func (s *MemoryStore) Delete(ctx context.Context, entity string, id string) (bool, error) {
	ent, err := s.schema.Lookup(entity)
	if err != nil {
		return false, err
	}
	unlock := s.lock(ctx)
	defer unlock()
	if _, ok := s.tables[ent.Name][id]; !ok {
		return false, nil
	}
	delete(s.tables[ent.Name], id)
	return true, nil
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) == any(s) {
		return fn(ctx)
	}
	s.mu <- struct{}{}
	defer func() { <-s.mu }()

	snapshot := make(map[string]map[string]Record, len(s.tables))
	for name, rows := range s.tables {
		cp := make(map[string]Record, len(rows))
		for id, row := range rows {
			cp[id] = cloneRecord(row)
		}
		snapshot[name] = cp
	}
	if err := fn(context.WithValue(ctx, memTxKey{}, any(s))); err != nil {
		s.tables = snapshot
		return err
	}
	return nil
}

func cloneRecord(r Record) Record {
	cp := make(Record, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

func matches(row Record, conds []Cond) (bool, error) {
	for _, c := range conds {
		v := row[c.Field]
		switch c.Op {
		case OpEq:
			if isNil(v) || !equalValues(v, c.Value) {
				return false, nil
			}
		case OpNeq:
			if isNil(v) || equalValues(v, c.Value) {
				return false, nil
			}
		case OpIsNull:
			if !isNil(v) {
				return false, nil
			}
		case OpNotNull:
			if isNil(v) {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported condition operator %q on %s", c.Op, c.Field)
		}
	}
	return true, nil
}

func orderRecords(rows []Record, orderBy string) error {
	if orderBy == "" {
		return nil
	}
	parts := strings.Fields(orderBy)
	field := parts[0]
	desc := len(parts) > 1 && strings.EqualFold(parts[1], "desc")
	sort.SliceStable(rows, func(i, j int) bool {
		less := lessValues(rows[i][field], rows[j][field])
		if desc {
			return lessValues(rows[j][field], rows[i][field])
		}
		return less
	})
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	if p, ok := v.(*time.Time); ok {
		return p == nil
	}
	return false
}

func anyNilKey(r Record, key []string) bool {
	for _, f := range key {
		if isNil(r[f]) {
			return true
		}
	}
	return false
}

func equalValues(a, b any) bool {
	if ta, ok := asTimeValue(a); ok {
		tb, ok := asTimeValue(b)
		return ok && ta.Equal(tb)
	}
	if na, ok := asNumber(a); ok {
		nb, ok := asNumber(b)
		return ok && na == nb
	}
	return a == b
}

func lessValues(a, b any) bool {
	if na, ok := asNumber(a); ok {
		nb, ok := asNumber(b)
		return ok && na < nb
	}
	if sa, ok := a.(string); ok {
		sb, _ := b.(string)
		return sa < sb
	}
	if ta, ok := asTimeValue(a); ok {
		tb, ok := asTimeValue(b)
		return ok && ta.Before(tb)
	}
	return false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func asTimeValue(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}

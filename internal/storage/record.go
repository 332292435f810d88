package storage

import (
	"context"
	"errors"
	"time"
)

// Record is a generic row keyed by snake_case column name. The hook pipeline
// operates on Records so the same interceptors can serve every entity without
// per-entity code.
type Record map[string]any

// Op is a comparison operator usable in a query condition.
type Op string

const (
	OpEq      Op = "eq"
	OpNeq     Op = "neq"
	OpIsNull  Op = "null"
	OpNotNull Op = "notnull"
)

// Cond is a single conjunctive filter on a column.
type Cond struct {
	Field string
	Op    Op
	Value any
}

// Query describes a find over an entity. IncludeDeleted is not a storage
// concept: it is consumed (and cleared) by the soft-delete interceptor before
// the query reaches a Store.
type Query struct {
	Where          []Cond
	IncludeDeleted bool
	OrderBy        string
	Limit          int
}

// Where returns a Query filtering on the given conditions.
func Where(conds ...Cond) Query {
	return Query{Where: conds}
}

// Store is the underlying record store the hook pipeline wraps. Save performs
// an insert when the input carries no id, otherwise an update of the given
// fields. Delete is a physical row deletion; logical deletion is a pipeline
// concern, not a storage one.
//
// Transaction runs fn with the transaction carried inside the derived
// context, so every Store call made with that context joins the transaction.
type Store interface {
	Save(ctx context.Context, entity string, input Record) (Record, error)
	Get(ctx context.Context, entity string, id string) (Record, error)
	Find(ctx context.Context, entity string, q Query) ([]Record, error)
	UpdateWhere(ctx context.Context, entity string, where []Cond, set Record) (int64, error)
	Delete(ctx context.Context, entity string, id string) (bool, error)
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

var (
	// ErrNotFound signals a missing row or an update that matched nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey signals a unique constraint violation.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUnknownEntity signals an entity name absent from the schema.
	ErrUnknownEntity = errors.New("unknown entity")
)

// AsString reads a string column from a Record, tolerating absent or nil
// values.
func AsString(r Record, key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// AsInt64 reads a numeric column from a Record. Different stores scan
// integers into different Go types, so every width is accepted.
func AsInt64(r Record, key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// AsBool reads a boolean column from a Record.
func AsBool(r Record, key string) bool {
	v, _ := r[key].(bool)
	return v
}

// AsTime reads a timestamp column from a Record. Nil and absent values
// return the zero time.
func AsTime(r Record, key string) time.Time {
	switch v := r[key].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	}
	return time.Time{}
}

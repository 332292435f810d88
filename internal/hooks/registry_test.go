package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"medical-record-service/internal/storage"
)

func TestRegistry_ComposeSave_RegistrationOrderIsOutermostFirst(t *testing.T) {
	reg := NewRegistry()
	var trace []string

	stage := func(name string) SaveHook {
		return func(next SaveFunc) SaveFunc {
			return func(ctx context.Context, in storage.Record) (storage.Record, error) {
				trace = append(trace, name+":before")
				out, err := next(ctx, in)
				trace = append(trace, name+":after")
				return out, err
			}
		}
	}
	reg.RegisterSave("report", "outer", stage("outer"))
	reg.RegisterSave("report", "inner", stage("inner"))
	reg.Freeze()

	native := func(ctx context.Context, in storage.Record) (storage.Record, error) {
		trace = append(trace, "native")
		return in, nil
	}
	_, err := reg.ComposeSave("report", native)(context.Background(), storage.Record{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"outer:before", "inner:before", "native", "inner:after", "outer:after"}, trace)
}

func TestRegistry_UnregisteredEntityIsPassThrough(t *testing.T) {
	reg := NewRegistry()
	reg.Freeze()

	called := false
	native := func(ctx context.Context, id string) (bool, error) {
		called = true
		return true, nil
	}
	ok, err := reg.ComposeDelete("tag", native)(context.Background(), "some-id")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, called, "native operation must run unmodified")
}

func TestRegistry_HooksTransformArgumentsAndResults(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFind("report", "narrow", func(next FindFunc) FindFunc {
		return func(ctx context.Context, q storage.Query) ([]storage.Record, error) {
			q.Limit = 1
			rows, err := next(ctx, q)
			if err != nil {
				return nil, err
			}
			for _, r := range rows {
				r["seen"] = true
			}
			return rows, err
		}
	})
	reg.Freeze()

	native := func(ctx context.Context, q storage.Query) ([]storage.Record, error) {
		assert.Equal(t, 1, q.Limit, "hook must transform arguments before storage sees them")
		return []storage.Record{{"id": "a"}}, nil
	}
	rows, err := reg.ComposeFind("report", native)(context.Background(), storage.Query{})
	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, true, rows[0]["seen"])
}

func TestRegistry_RegisterAfterFreezePanics(t *testing.T) {
	reg := NewRegistry()
	reg.Freeze()

	assert.Panics(t, func() {
		reg.RegisterSave("report", "late", func(next SaveFunc) SaveFunc { return next })
	})
}

func TestDispatcher_GetGoesThroughFindChain(t *testing.T) {
	schema := storage.DefaultSchema()
	store := storage.NewMemoryStore(schema)
	ctx := context.Background()

	rec, err := store.Save(ctx, "tag", storage.Record{"name": "urgent"})
	assert.NoError(t, err)

	reg := NewRegistry()
	filtered := false
	reg.RegisterFind("tag", "probe", func(next FindFunc) FindFunc {
		return func(ctx context.Context, q storage.Query) ([]storage.Record, error) {
			filtered = true
			return next(ctx, q)
		}
	})
	reg.Freeze()
	disp := NewDispatcher(store, reg)

	got, err := disp.Get(ctx, "tag", storage.AsString(rec, "id"))
	assert.NoError(t, err)
	assert.Equal(t, "urgent", storage.AsString(got, "name"))
	assert.True(t, filtered, "point lookups must pass the find chain")

	_, err = disp.Get(ctx, "tag", "missing-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

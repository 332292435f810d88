package services

import (
	"context"
	"errors"
	"sync/atomic"

	"medical-record-service/internal/storage"
)

// --- MockPipeline ---
// Compile-time check to ensure MockPipeline implements Pipeline
var _ Pipeline = (*MockPipeline)(nil)

// MockPipeline is a mock implementation of the hooked store surface.
type MockPipeline struct {
	SaveFunc   func(ctx context.Context, entity string, input storage.Record) (storage.Record, error)
	DeleteFunc func(ctx context.Context, entity string, id string) (bool, error)
	FindFunc   func(ctx context.Context, entity string, q storage.Query) ([]storage.Record, error)
	GetFunc    func(ctx context.Context, entity string, id string) (storage.Record, error)

	SaveFuncCallCount   int32
	DeleteFuncCallCount int32
}

func (m *MockPipeline) Save(ctx context.Context, entity string, input storage.Record) (storage.Record, error) {
	atomic.AddInt32(&m.SaveFuncCallCount, 1)
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, entity, input)
	}
	return nil, errors.New("SaveFunc not implemented in mock")
}

func (m *MockPipeline) Delete(ctx context.Context, entity string, id string) (bool, error) {
	atomic.AddInt32(&m.DeleteFuncCallCount, 1)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, entity, id)
	}
	return false, errors.New("DeleteFunc not implemented in mock")
}

func (m *MockPipeline) Find(ctx context.Context, entity string, q storage.Query) ([]storage.Record, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, entity, q)
	}
	return nil, errors.New("FindFunc not implemented in mock")
}

func (m *MockPipeline) Get(ctx context.Context, entity string, id string) (storage.Record, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, entity, id)
	}
	return nil, errors.New("GetFunc not implemented in mock")
}

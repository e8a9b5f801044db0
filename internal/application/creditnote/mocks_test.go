package creditnote

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/creditnote/backend/internal/domain/erp"
	"github.com/creditnote/backend/internal/domain/history"
)

// MockGateway is a mock implementation of erp.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Authenticate(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGateway) Search(ctx context.Context, model string, domain erp.Domain, opts *erp.Options) ([]int64, error) {
	args := m.Called(ctx, model, domain, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockGateway) Read(ctx context.Context, model string, ids []int64, fields []string) ([]erp.Record, error) {
	args := m.Called(ctx, model, ids, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erp.Record), args.Error(1)
}

func (m *MockGateway) SearchRead(ctx context.Context, model string, domain erp.Domain, opts *erp.Options) ([]erp.Record, error) {
	args := m.Called(ctx, model, domain, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erp.Record), args.Error(1)
}

func (m *MockGateway) Create(ctx context.Context, model string, values map[string]any) (int64, error) {
	args := m.Called(ctx, model, values)
	return args.Get(0).(int64), args.Error(1)
}

// MockHistoryRepository is a mock implementation of history.Repository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Save(ctx context.Context, submission *history.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockHistoryRepository) FindRecent(ctx context.Context, limit int) ([]history.Submission, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]history.Submission), args.Error(1)
}

func (m *MockHistoryRepository) FindByVendor(ctx context.Context, vendor string, limit int) ([]history.Submission, error) {
	args := m.Called(ctx, vendor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]history.Submission), args.Error(1)
}

func many2one(id int64, name string) []any {
	return []any{float64(id), name}
}

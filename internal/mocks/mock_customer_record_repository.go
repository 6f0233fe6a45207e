package mocks

import (
	"context"
	"time"

	"github.com/you/plumbsvc/domain"
)

// MockCustomerRecordRepository implements domain.CustomerRecordRepository interface for testing
type MockCustomerRecordRepository struct {
	UpsertBatchFunc         func(ctx context.Context, records []domain.SyncedCustomer) error
	ListDrippableFunc       func(ctx context.Context, notMailedSince time.Time, limit int) ([]domain.SyncedCustomer, error)
	MarkEmailedFunc         func(ctx context.Context, crmID int64, at time.Time) error
	SetDoNotMailByEmailFunc func(ctx context.Context, email string) error
	CountFunc               func(ctx context.Context) (int64, error)
}

// NewMockCustomerRecordRepository creates a new MockCustomerRecordRepository with default behaviors
func NewMockCustomerRecordRepository() *MockCustomerRecordRepository {
	return &MockCustomerRecordRepository{}
}

// UpsertBatch writes a page of synced customers
func (m *MockCustomerRecordRepository) UpsertBatch(ctx context.Context, records []domain.SyncedCustomer) error {
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, records)
	}
	return nil
}

// ListDrippable returns mailable customers not contacted since the cutoff
func (m *MockCustomerRecordRepository) ListDrippable(ctx context.Context, notMailedSince time.Time, limit int) ([]domain.SyncedCustomer, error) {
	if m.ListDrippableFunc != nil {
		return m.ListDrippableFunc(ctx, notMailedSince, limit)
	}
	return nil, nil
}

// MarkEmailed stamps the last-emailed time
func (m *MockCustomerRecordRepository) MarkEmailed(ctx context.Context, crmID int64, at time.Time) error {
	if m.MarkEmailedFunc != nil {
		return m.MarkEmailedFunc(ctx, crmID, at)
	}
	return nil
}

// SetDoNotMailByEmail opts an email out of the drip
func (m *MockCustomerRecordRepository) SetDoNotMailByEmail(ctx context.Context, email string) error {
	if m.SetDoNotMailByEmailFunc != nil {
		return m.SetDoNotMailByEmailFunc(ctx, email)
	}
	return nil
}

// Count returns the number of synced customers
func (m *MockCustomerRecordRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// Compile-time interface compliance verification
var _ domain.CustomerRecordRepository = (*MockCustomerRecordRepository)(nil)

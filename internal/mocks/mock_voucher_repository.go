package mocks

import (
	"context"

	"github.com/you/plumbsvc/domain"
)

// MockVoucherRepository implements domain.VoucherRepository interface for testing
type MockVoucherRepository struct {
	CreateFunc         func(ctx context.Context, voucher *domain.Voucher) error
	UpdateFunc         func(ctx context.Context, voucher *domain.Voucher) error
	DeleteFunc         func(ctx context.Context, id uint) error
	FindByIDFunc       func(ctx context.Context, id uint) (*domain.Voucher, error)
	FindByCodeFunc     func(ctx context.Context, code string) (*domain.Voucher, error)
	ListFunc           func(ctx context.Context) ([]*domain.Voucher, error)
	ListByCustomerFunc func(ctx context.Context, customerID int64) ([]*domain.Voucher, error)
	RedeemFunc         func(ctx context.Context, code string, customerID int64) (*domain.Voucher, error)
}

// NewMockVoucherRepository creates a new MockVoucherRepository with default behaviors
func NewMockVoucherRepository() *MockVoucherRepository {
	return &MockVoucherRepository{}
}

// Create creates a new voucher
func (m *MockVoucherRepository) Create(ctx context.Context, voucher *domain.Voucher) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, voucher)
	}
	return nil
}

// Update updates an existing voucher
func (m *MockVoucherRepository) Update(ctx context.Context, voucher *domain.Voucher) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, voucher)
	}
	return nil
}

// Delete removes a voucher
func (m *MockVoucherRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// FindByID finds a voucher by ID
func (m *MockVoucherRepository) FindByID(ctx context.Context, id uint) (*domain.Voucher, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrVoucherNotFound
}

// FindByCode finds a voucher by code
func (m *MockVoucherRepository) FindByCode(ctx context.Context, code string) (*domain.Voucher, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	return nil, domain.ErrVoucherNotFound
}

// List returns all vouchers
func (m *MockVoucherRepository) List(ctx context.Context) ([]*domain.Voucher, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// ListByCustomer returns vouchers assigned to a customer
func (m *MockVoucherRepository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Voucher, error) {
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID)
	}
	return nil, nil
}

// Redeem marks the voucher redeemed if not already
func (m *MockVoucherRepository) Redeem(ctx context.Context, code string, customerID int64) (*domain.Voucher, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, code, customerID)
	}
	return nil, domain.ErrVoucherNotFound
}

// Compile-time interface compliance verification
var _ domain.VoucherRepository = (*MockVoucherRepository)(nil)

package mocks

import (
	"context"

	"github.com/you/plumbsvc/domain"
)

// MockAdminRepository implements domain.AdminRepository interface for testing
type MockAdminRepository struct {
	CreateFunc      func(ctx context.Context, admin *domain.AdminUser) error
	FindByEmailFunc func(ctx context.Context, email string) (*domain.AdminUser, error)
	FindByIDFunc    func(ctx context.Context, id uint) (*domain.AdminUser, error)
	UpdateFunc      func(ctx context.Context, admin *domain.AdminUser) error
	DeleteFunc      func(ctx context.Context, id uint) error
	ListFunc        func(ctx context.Context) ([]*domain.AdminUser, error)
	IsAllowedFunc   func(ctx context.Context, email string) (bool, error)
}

// NewMockAdminRepository creates a new MockAdminRepository with default behaviors
func NewMockAdminRepository() *MockAdminRepository {
	return &MockAdminRepository{}
}

// Create creates a new admin user
func (m *MockAdminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, admin)
	}
	return nil
}

// FindByEmail finds an admin by email
func (m *MockAdminRepository) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, domain.ErrNotFound
}

// FindByID finds an admin by ID
func (m *MockAdminRepository) FindByID(ctx context.Context, id uint) (*domain.AdminUser, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// Update updates an existing admin user
func (m *MockAdminRepository) Update(ctx context.Context, admin *domain.AdminUser) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, admin)
	}
	return nil
}

// Delete removes an admin user
func (m *MockAdminRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// List returns all admin users
func (m *MockAdminRepository) List(ctx context.Context) ([]*domain.AdminUser, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// IsAllowed reports whether the email is an active admin
func (m *MockAdminRepository) IsAllowed(ctx context.Context, email string) (bool, error) {
	if m.IsAllowedFunc != nil {
		return m.IsAllowedFunc(ctx, email)
	}
	// Default behavior: not on the allow-list
	return false, nil
}

// Compile-time interface compliance verification
var _ domain.AdminRepository = (*MockAdminRepository)(nil)

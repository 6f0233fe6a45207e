package mocks

import (
	"context"

	"github.com/you/plumbsvc/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	GenerateFunc  func(ctx context.Context, phone string) (*domain.OTPRequest, error)
	VerifyFunc    func(ctx context.Context, phone, code string) (bool, error)
	CanResendFunc func(ctx context.Context, phone string) (bool, int64, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Generate issues an OTP for the phone
func (m *MockOTPService) Generate(ctx context.Context, phone string) (*domain.OTPRequest, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, phone)
	}
	return &domain.OTPRequest{Phone: phone, Code: "123456"}, nil
}

// Verify checks a submitted code
func (m *MockOTPService) Verify(ctx context.Context, phone, code string) (bool, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, phone, code)
	}
	return true, nil
}

// CanResend reports whether a new code may be sent yet
func (m *MockOTPService) CanResend(ctx context.Context, phone string) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, phone)
	}
	return true, 0, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)

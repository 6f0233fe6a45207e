package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/you/plumbsvc/domain"
	"github.com/you/plumbsvc/internal/mocks"
)

func createPortalAuthForTest() (domain.PortalAuthService, *mocks.MockAccountResolver, *mocks.MockOTPService, *mocks.MockLoginTokenService, *mocks.MockNotificationService) {
	resolver := mocks.NewMockAccountResolver()
	otpSvc := mocks.NewMockOTPService()
	tokenSvc := mocks.NewMockLoginTokenService()
	notificationSvc := mocks.NewMockNotificationService()

	svc := NewPortalAuthService(resolver, otpSvc, tokenSvc, notificationSvc, "https://www.epplumbing.com")
	return svc, resolver, otpSvc, tokenSvc, notificationSvc
}

func TestPortalAuthServiceImpl_StartPhoneLogin(t *testing.T) {
	tests := []struct {
		name          string
		phone         string
		setupMocks    func(*mocks.MockAccountResolver, *mocks.MockOTPService)
		expectedError error
		expectOTPSent bool
	}{
		{
			name:  "known phone sends OTP",
			phone: "+15125551234",
			setupMocks: func(resolver *mocks.MockAccountResolver, otpSvc *mocks.MockOTPService) {
				resolver.ResolveByPhoneFunc = func(ctx context.Context, phone string) ([]int64, error) {
					return []int64{42}, nil
				}
			},
			expectedError: nil,
			expectOTPSent: true,
		},
		{
			name:  "unknown phone succeeds silently",
			phone: "+15125550000",
			setupMocks: func(resolver *mocks.MockAccountResolver, otpSvc *mocks.MockOTPService) {
				resolver.ResolveByPhoneFunc = func(ctx context.Context, phone string) ([]int64, error) {
					return nil, nil
				}
			},
			expectedError: nil,
			expectOTPSent: false,
		},
		{
			name:  "resend throttle surfaces",
			phone: "+15125551234",
			setupMocks: func(resolver *mocks.MockAccountResolver, otpSvc *mocks.MockOTPService) {
				resolver.ResolveByPhoneFunc = func(ctx context.Context, phone string) ([]int64, error) {
					return []int64{42}, nil
				}
				otpSvc.GenerateFunc = func(ctx context.Context, phone string) (*domain.OTPRequest, error) {
					return nil, domain.ErrOTPResendLimit
				}
			},
			expectedError: domain.ErrOTPResendLimit,
			expectOTPSent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, resolver, otpSvc, _, _ := createPortalAuthForTest()

			otpSent := false
			otpSvc.GenerateFunc = func(ctx context.Context, phone string) (*domain.OTPRequest, error) {
				otpSent = true
				return &domain.OTPRequest{Phone: phone, Code: "123456"}, nil
			}
			tt.setupMocks(resolver, otpSvc)

			err := svc.StartPhoneLogin(context.Background(), tt.phone)
			if !errors.Is(err, tt.expectedError) {
				t.Fatalf("expected %v, got %v", tt.expectedError, err)
			}
			if tt.expectedError == nil && otpSent != tt.expectOTPSent {
				t.Errorf("otpSent = %v, want %v", otpSent, tt.expectOTPSent)
			}
		})
	}
}

func TestPortalAuthServiceImpl_CompletePhoneLogin(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockAccountResolver, *mocks.MockOTPService)
		expectedError error
		expectedIDs   []int64
	}{
		{
			name: "valid code resolves accounts",
			setupMocks: func(resolver *mocks.MockAccountResolver, otpSvc *mocks.MockOTPService) {
				otpSvc.VerifyFunc = func(ctx context.Context, phone, code string) (bool, error) {
					return true, nil
				}
				resolver.ResolveByPhoneFunc = func(ctx context.Context, phone string) ([]int64, error) {
					return []int64{42, 77}, nil
				}
			},
			expectedIDs: []int64{42, 77},
		},
		{
			name: "invalid code",
			setupMocks: func(resolver *mocks.MockAccountResolver, otpSvc *mocks.MockOTPService) {
				otpSvc.VerifyFunc = func(ctx context.Context, phone, code string) (bool, error) {
					return false, domain.ErrOTPInvalid
				}
			},
			expectedError: domain.ErrOTPInvalid,
		},
		{
			name: "valid code but no customer match",
			setupMocks: func(resolver *mocks.MockAccountResolver, otpSvc *mocks.MockOTPService) {
				otpSvc.VerifyFunc = func(ctx context.Context, phone, code string) (bool, error) {
					return true, nil
				}
				resolver.ResolveByPhoneFunc = func(ctx context.Context, phone string) ([]int64, error) {
					return nil, nil
				}
			},
			expectedError: domain.ErrNoCustomerMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, resolver, otpSvc, _, _ := createPortalAuthForTest()
			tt.setupMocks(resolver, otpSvc)

			session, err := svc.CompletePhoneLogin(context.Background(), "+15125551234", "123456")
			if tt.expectedError != nil {
				if !errors.Is(err, tt.expectedError) {
					t.Fatalf("expected %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CompletePhoneLogin: %v", err)
			}
			if session.CustomerID != tt.expectedIDs[0] {
				t.Errorf("active id = %d, want %d", session.CustomerID, tt.expectedIDs[0])
			}
			if len(session.AvailableCustomerIDs) != len(tt.expectedIDs) {
				t.Errorf("ownership set = %v, want %v", session.AvailableCustomerIDs, tt.expectedIDs)
			}
		})
	}
}

func TestPortalAuthServiceImpl_StartEmailLogin(t *testing.T) {
	svc, resolver, _, tokenSvc, notificationSvc := createPortalAuthForTest()

	resolver.ResolveByEmailFunc = func(ctx context.Context, email string) ([]int64, error) {
		return []int64{42}, nil
	}
	tokenSvc.GenerateFunc = func(email string) (string, error) {
		return "signed-token", nil
	}

	var sentTo, sentHTML string
	notificationSvc.SendEmailFunc = func(ctx context.Context, to, subject, html string) error {
		sentTo, sentHTML = to, html
		return nil
	}

	if err := svc.StartEmailLogin(context.Background(), "ann@example.com"); err != nil {
		t.Fatalf("StartEmailLogin: %v", err)
	}
	if sentTo != "ann@example.com" {
		t.Errorf("email sent to %q", sentTo)
	}
	if !strings.Contains(sentHTML, "https://www.epplumbing.com/auth/email/complete?token=signed-token") {
		t.Errorf("magic link missing from email body: %s", sentHTML)
	}
}

func TestPortalAuthServiceImpl_StartEmailLogin_UnknownEmailSendsNothing(t *testing.T) {
	svc, _, _, _, notificationSvc := createPortalAuthForTest()

	sent := false
	notificationSvc.SendEmailFunc = func(ctx context.Context, to, subject, html string) error {
		sent = true
		return nil
	}

	if err := svc.StartEmailLogin(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("StartEmailLogin: %v", err)
	}
	if sent {
		t.Error("email sent for unknown contact")
	}
}

func TestPortalAuthServiceImpl_SwitchAccount(t *testing.T) {
	tests := []struct {
		name          string
		session       *domain.Session
		targetID      int64
		expectedError error
		expectedID    int64
	}{
		{
			name: "switch within ownership set",
			session: &domain.Session{
				CustomerID:           42,
				AvailableCustomerIDs: []int64{42, 77},
			},
			targetID:   77,
			expectedID: 77,
		},
		{
			name: "switch to current id is a no-op",
			session: &domain.Session{
				CustomerID:           42,
				AvailableCustomerIDs: []int64{42},
			},
			targetID:   42,
			expectedID: 42,
		},
		{
			name: "foreign id is forbidden",
			session: &domain.Session{
				CustomerID:           42,
				AvailableCustomerIDs: []int64{42, 77},
			},
			targetID:      99,
			expectedError: domain.ErrForbidden,
			expectedID:    42,
		},
		{
			name:          "anonymous session",
			session:       &domain.Session{},
			targetID:      42,
			expectedError: domain.ErrUnauthorized,
		},
		{
			name:          "admin-only session",
			session:       &domain.Session{IsAdmin: true, AdminEmail: "owner@epplumbing.com"},
			targetID:      42,
			expectedError: domain.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _, _ := createPortalAuthForTest()

			err := svc.SwitchAccount(tt.session, tt.targetID)
			if !errors.Is(err, tt.expectedError) {
				t.Fatalf("expected %v, got %v", tt.expectedError, err)
			}
			if tt.expectedError == nil && tt.session.CustomerID != tt.expectedID {
				t.Errorf("active id = %d, want %d", tt.session.CustomerID, tt.expectedID)
			}
			// The ownership set itself must never change.
			if tt.expectedError == domain.ErrForbidden && tt.session.CustomerID != tt.expectedID {
				t.Errorf("failed switch mutated the session: %+v", tt.session)
			}
		})
	}
}

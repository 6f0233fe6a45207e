package domain

import (
	"context"
	"time"
)

// AdminRepository defines admin user (allow-list) data access operations
type AdminRepository interface {
	Create(ctx context.Context, admin *AdminUser) error
	FindByEmail(ctx context.Context, email string) (*AdminUser, error)
	FindByID(ctx context.Context, id uint) (*AdminUser, error)
	Update(ctx context.Context, admin *AdminUser) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*AdminUser, error)
	// IsAllowed reports whether the email belongs to an active admin row.
	// Called on every admin request, never cached.
	IsAllowed(ctx context.Context, email string) (bool, error)
}

// VoucherRepository defines voucher data access operations
type VoucherRepository interface {
	Create(ctx context.Context, voucher *Voucher) error
	Update(ctx context.Context, voucher *Voucher) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Voucher, error)
	FindByCode(ctx context.Context, code string) (*Voucher, error)
	List(ctx context.Context) ([]*Voucher, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*Voucher, error)
	// Redeem marks the voucher redeemed if and only if it is not already.
	// Concurrent calls for the same code yield exactly one success.
	Redeem(ctx context.Context, code string, customerID int64) (*Voucher, error)
}

// LeadRepository defines contact-form lead data access operations
type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	List(ctx context.Context, limit int) ([]*Lead, error)
}

// CustomerRecordRepository defines access to the locally synced customer copy
type CustomerRecordRepository interface {
	UpsertBatch(ctx context.Context, records []SyncedCustomer) error
	ListDrippable(ctx context.Context, notMailedSince time.Time, limit int) ([]SyncedCustomer, error)
	MarkEmailed(ctx context.Context, crmID int64, at time.Time) error
	SetDoNotMailByEmail(ctx context.Context, email string) error
	Count(ctx context.Context) (int64, error)
}

// CRMGateway wraps the external field-service platform's REST API behind
// typed methods. It is a stateless pass-through per call except for the
// process-held access token and the lookup cache.
type CRMGateway interface {
	GetCustomer(ctx context.Context, id int64) (*Customer, error)
	SearchCustomersByPhone(ctx context.Context, phone string) ([]*Customer, error)
	SearchCustomersByEmail(ctx context.Context, email string) ([]*Customer, error)
	ListCustomers(ctx context.Context, page, pageSize int) ([]*Customer, bool, error)
	UpdateCustomer(ctx context.Context, customer *Customer) error

	ListLocations(ctx context.Context, customerID int64) ([]*Location, error)
	ListContacts(ctx context.Context, customerID int64) ([]*Contact, error)

	ListJobs(ctx context.Context, customerID int64) ([]*Job, error)
	GetJob(ctx context.Context, id int64) (*Job, error)
	CreateJob(ctx context.Context, req *BookingRequest) (*Job, error)
	ListAppointments(ctx context.Context, jobID int64) ([]*Appointment, error)
	CancelAppointment(ctx context.Context, id int64) error

	ListEstimates(ctx context.Context, customerID int64) ([]*Estimate, error)
	ListInvoices(ctx context.Context, customerID int64) ([]*Invoice, error)
	ListMemberships(ctx context.Context, customerID int64) ([]*Membership, error)

	JobTypes(ctx context.Context) ([]*JobType, error)
	Campaigns(ctx context.Context) ([]*Campaign, error)
	PricebookItems(ctx context.Context) ([]*PricebookItem, error)
	// InvalidateLookups clears the in-process lookup cache. There is no
	// TTL-based expiry; refresh is admin-triggered.
	InvalidateLookups()
}

// OTPService defines phone OTP operations for portal login
type OTPService interface {
	Generate(ctx context.Context, phone string) (*OTPRequest, error)
	Verify(ctx context.Context, phone, code string) (bool, error)
	CanResend(ctx context.Context, phone string) (bool, int64, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// LoginTokenService defines signed short-lived magic-link token operations
type LoginTokenService interface {
	Generate(email string) (string, error)
	// Validate returns the email the token was issued for.
	Validate(token string) (string, error)
}

// NotificationService defines outbound SMS and email operations
type NotificationService interface {
	SendSMS(to, message string) error
	SendEmail(ctx context.Context, to, subject, html string) error
}

// AccountResolver maps a verified contact to the set of CRM customer ids the
// caller may act on. Computed at login time and cached in the session.
type AccountResolver interface {
	ResolveByPhone(ctx context.Context, phone string) ([]int64, error)
	ResolveByEmail(ctx context.Context, email string) ([]int64, error)
}

// PortalAuthService defines customer portal authentication business logic
type PortalAuthService interface {
	StartPhoneLogin(ctx context.Context, phone string) error
	CompletePhoneLogin(ctx context.Context, phone, code string) (*Session, error)
	StartEmailLogin(ctx context.Context, email string) error
	CompleteEmailLogin(ctx context.Context, token string) (*Session, error)
	CompleteOAuthLogin(ctx context.Context, email string) (*Session, error)
	// SwitchAccount moves the active id within the session's ownership set.
	// It can never add a new id to the set.
	SwitchAccount(session *Session, targetID int64) error
}

// AdminAuthService defines back-office authentication business logic
type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	// Authorize re-checks the session's email against the allow-list.
	Authorize(ctx context.Context, session *Session) error
}

// VoucherService defines voucher redemption business logic
type VoucherService interface {
	Redeem(ctx context.Context, code string, customerID int64) (*Voucher, error)
	ListForCustomer(ctx context.Context, customerID int64) ([]*Voucher, error)
}

// SyncLock is the single mutual-exclusion primitive guarding the full
// customer sync. Injectable so a distributed lock can replace it if the
// deployment ever scales past one process.
type SyncLock interface {
	TryAcquire() bool
	Release()
	IsRunning() bool
	Reset()
}

// SyncService defines the CRM-to-local customer sync
type SyncService interface {
	Run(ctx context.Context) (int, error)
	Status() SyncStatus
	ResetLock()
}

// CampaignService defines the drip-email run over synced customers
type CampaignService interface {
	RunDrip(ctx context.Context) (int, error)
	Unsubscribe(ctx context.Context, token string) error
}

// RateLimiter defines the in-process fixed-window request limiter
type RateLimiter interface {
	Allow(key string) bool
}

package domain

import "errors"

// Access control errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access denied")
	ErrNotFound     = errors.New("resource not found")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrAdminNotAllowed    = errors.New("email not on admin allow-list")
	ErrNoCustomerMatch    = errors.New("no customer records match contact")
)

// OTP errors
var (
	ErrOTPExpired     = errors.New("otp has expired")
	ErrOTPInvalid     = errors.New("invalid otp code")
	ErrOTPMaxAttempts = errors.New("maximum otp attempts exceeded")
	ErrOTPNotFound    = errors.New("otp not found")
	ErrOTPResendLimit = errors.New("otp resend limit exceeded")
)

// Login token errors
var (
	ErrTokenInvalid = errors.New("invalid login token")
	ErrTokenExpired = errors.New("login token has expired")
)

// Voucher errors
var (
	ErrVoucherNotFound        = errors.New("voucher not found")
	ErrVoucherAlreadyRedeemed = errors.New("voucher already redeemed")
)

// Background job errors
var (
	ErrSyncInProgress = errors.New("customer sync already running")
)

// Upstream and configuration errors
var (
	ErrCustomerNotActive = errors.New("customer is not active")
	ErrConfiguration     = errors.New("missing required configuration")
)

package domain

import "time"

// Session represents one browser's authenticated state. The encrypted cookie
// is the record; the server keeps no session table.
type Session struct {
	IsAdmin    bool
	AdminID    uint
	AdminEmail string

	CustomerID           int64
	AvailableCustomerIDs []int64

	OAuthState string

	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Authenticated reports whether the session carries any identity.
func (s *Session) Authenticated() bool {
	if s == nil {
		return false
	}
	return s.IsAdmin || s.CustomerID != 0
}

// Owns reports whether the given CRM customer id is in the session's
// ownership set.
func (s *Session) Owns(customerID int64) bool {
	if s == nil {
		return false
	}
	for _, id := range s.AvailableCustomerIDs {
		if id == customerID {
			return true
		}
	}
	return false
}

// Expired reports whether the session's fixed TTL has elapsed.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !s.ExpiresAt.After(now)
}

// AdminUser represents a back-office user. An active row is what makes an
// email part of the admin allow-list.
type AdminUser struct {
	ID           uint
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OTPRequest represents a login OTP issued to a phone number.
type OTPRequest struct {
	Phone     string
	Code      string
	ExpiresAt time.Time
	Attempts  int
}

// Address is a normalized postal address from the CRM.
type Address struct {
	Street string `json:"street"`
	Unit   string `json:"unit,omitempty"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Customer is the normalized shape of a CRM customer record.
type Customer struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Active  bool    `json:"active"`
	Address Address `json:"address"`
}

// Location is a serviceable address belonging to a customer.
type Location struct {
	ID         int64   `json:"id"`
	CustomerID int64   `json:"customerId"`
	Name       string  `json:"name"`
	Active     bool    `json:"active"`
	Address    Address `json:"address"`
}

// Contact is a phone number or email attached to a customer record.
type Contact struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Value string `json:"value"`
	Memo  string `json:"memo,omitempty"`
}

// Job is the normalized shape of a CRM job.
type Job struct {
	ID          int64      `json:"id"`
	Number      string     `json:"number"`
	CustomerID  int64      `json:"customerId"`
	LocationID  int64      `json:"locationId"`
	TypeID      int64      `json:"typeId"`
	TypeName    string     `json:"typeName"`
	Status      string     `json:"status"`
	Summary     string     `json:"summary"`
	CompletedOn *time.Time `json:"completedOn,omitempty"`
}

// Appointment carries the normalized arrival window for a job visit.
type Appointment struct {
	ID           int64     `json:"id"`
	JobID        int64     `json:"jobId"`
	Status       string    `json:"status"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	ArrivalStart time.Time `json:"arrivalWindowStart"`
	ArrivalEnd   time.Time `json:"arrivalWindowEnd"`
}

// Estimate is the normalized shape of a CRM estimate.
type Estimate struct {
	ID        int64     `json:"id"`
	JobID     int64     `json:"jobId"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CreatedOn time.Time `json:"createdOn"`
}

// Invoice is the normalized shape of a CRM invoice.
type Invoice struct {
	ID         int64      `json:"id"`
	Number     string     `json:"number"`
	CustomerID int64      `json:"customerId"`
	Total      float64    `json:"total"`
	Balance    float64    `json:"balance"`
	InvoicedOn *time.Time `json:"invoicedOn,omitempty"`
	DueOn      *time.Time `json:"dueOn,omitempty"`
}

// Membership is the normalized shape of a CRM service membership.
type Membership struct {
	ID         int64      `json:"id"`
	CustomerID int64      `json:"customerId"`
	TypeName   string     `json:"typeName"`
	Status     string     `json:"status"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
}

// JobType is a rarely-changing CRM lookup value.
type JobType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Campaign is a CRM marketing campaign lookup value.
type Campaign struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// PricebookItem is a CRM pricebook lookup value.
type PricebookItem struct {
	ID     int64   `json:"id"`
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Active bool    `json:"active"`
}

// BookingRequest is a portal service-booking submission turned into a CRM job.
type BookingRequest struct {
	CustomerID     int64
	LocationID     int64
	JobTypeID      int64
	CampaignID     int64
	Summary        string
	PreferredStart *time.Time
}

// Voucher is a locally stored promotional credit redeemable once.
type Voucher struct {
	ID          uint
	Code        string
	CustomerID  int64
	Amount      float64
	Description string
	Redeemed    bool
	RedeemedBy  int64
	RedeemedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Lead is a public contact-form submission.
type Lead struct {
	ID        uint
	Name      string
	Phone     string
	Email     string
	Message   string
	Source    string
	CreatedAt time.Time
}

// SyncedCustomer is the local copy of a CRM customer maintained by the
// background sync and consumed by the drip-email run.
type SyncedCustomer struct {
	CRMID         int64
	Name          string
	Email         string
	Phone         string
	Active        bool
	DoNotMail     bool
	LastEmailedAt *time.Time
	SyncedAt      time.Time
}

// SyncStatus describes the customer sync's lock state and last run.
type SyncStatus struct {
	Running        bool       `json:"running"`
	LastStartedAt  *time.Time `json:"lastStartedAt,omitempty"`
	LastFinishedAt *time.Time `json:"lastFinishedAt,omitempty"`
	LastCount      int        `json:"lastCount"`
	LastError      string     `json:"lastError,omitempty"`
}

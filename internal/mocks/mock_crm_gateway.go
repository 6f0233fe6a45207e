package mocks

import (
	"context"
	"sync/atomic"

	"github.com/you/plumbsvc/domain"
)

// MockCRMGateway implements domain.CRMGateway interface for testing. Calls
// increments on every method invocation so tests can assert the gateway was
// never touched.
type MockCRMGateway struct {
	Calls int64

	GetCustomerFunc            func(ctx context.Context, id int64) (*domain.Customer, error)
	SearchCustomersByPhoneFunc func(ctx context.Context, phone string) ([]*domain.Customer, error)
	SearchCustomersByEmailFunc func(ctx context.Context, email string) ([]*domain.Customer, error)
	ListCustomersFunc          func(ctx context.Context, page, pageSize int) ([]*domain.Customer, bool, error)
	UpdateCustomerFunc         func(ctx context.Context, customer *domain.Customer) error
	ListLocationsFunc          func(ctx context.Context, customerID int64) ([]*domain.Location, error)
	ListContactsFunc           func(ctx context.Context, customerID int64) ([]*domain.Contact, error)
	ListJobsFunc               func(ctx context.Context, customerID int64) ([]*domain.Job, error)
	GetJobFunc                 func(ctx context.Context, id int64) (*domain.Job, error)
	CreateJobFunc              func(ctx context.Context, req *domain.BookingRequest) (*domain.Job, error)
	ListAppointmentsFunc       func(ctx context.Context, jobID int64) ([]*domain.Appointment, error)
	CancelAppointmentFunc      func(ctx context.Context, id int64) error
	ListEstimatesFunc          func(ctx context.Context, customerID int64) ([]*domain.Estimate, error)
	ListInvoicesFunc           func(ctx context.Context, customerID int64) ([]*domain.Invoice, error)
	ListMembershipsFunc        func(ctx context.Context, customerID int64) ([]*domain.Membership, error)
	JobTypesFunc               func(ctx context.Context) ([]*domain.JobType, error)
	CampaignsFunc              func(ctx context.Context) ([]*domain.Campaign, error)
	PricebookItemsFunc         func(ctx context.Context) ([]*domain.PricebookItem, error)
	InvalidateLookupsFunc      func()
}

// NewMockCRMGateway creates a new MockCRMGateway with default behaviors
func NewMockCRMGateway() *MockCRMGateway {
	return &MockCRMGateway{}
}

// CallCount returns the number of API-shaped calls made so far.
func (m *MockCRMGateway) CallCount() int64 {
	return atomic.LoadInt64(&m.Calls)
}

func (m *MockCRMGateway) count() {
	atomic.AddInt64(&m.Calls, 1)
}

// GetCustomer fetches a customer by id
func (m *MockCRMGateway) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	m.count()
	if m.GetCustomerFunc != nil {
		return m.GetCustomerFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// SearchCustomersByPhone searches customers by phone number
func (m *MockCRMGateway) SearchCustomersByPhone(ctx context.Context, phone string) ([]*domain.Customer, error) {
	m.count()
	if m.SearchCustomersByPhoneFunc != nil {
		return m.SearchCustomersByPhoneFunc(ctx, phone)
	}
	return nil, nil
}

// SearchCustomersByEmail searches customers by email
func (m *MockCRMGateway) SearchCustomersByEmail(ctx context.Context, email string) ([]*domain.Customer, error) {
	m.count()
	if m.SearchCustomersByEmailFunc != nil {
		return m.SearchCustomersByEmailFunc(ctx, email)
	}
	return nil, nil
}

// ListCustomers pages through all customers
func (m *MockCRMGateway) ListCustomers(ctx context.Context, page, pageSize int) ([]*domain.Customer, bool, error) {
	m.count()
	if m.ListCustomersFunc != nil {
		return m.ListCustomersFunc(ctx, page, pageSize)
	}
	return nil, false, nil
}

// UpdateCustomer writes profile changes upstream
func (m *MockCRMGateway) UpdateCustomer(ctx context.Context, customer *domain.Customer) error {
	m.count()
	if m.UpdateCustomerFunc != nil {
		return m.UpdateCustomerFunc(ctx, customer)
	}
	return nil
}

// ListLocations lists a customer's service locations
func (m *MockCRMGateway) ListLocations(ctx context.Context, customerID int64) ([]*domain.Location, error) {
	m.count()
	if m.ListLocationsFunc != nil {
		return m.ListLocationsFunc(ctx, customerID)
	}
	return nil, nil
}

// ListContacts lists a customer's contact methods
func (m *MockCRMGateway) ListContacts(ctx context.Context, customerID int64) ([]*domain.Contact, error) {
	m.count()
	if m.ListContactsFunc != nil {
		return m.ListContactsFunc(ctx, customerID)
	}
	return nil, nil
}

// ListJobs lists a customer's jobs
func (m *MockCRMGateway) ListJobs(ctx context.Context, customerID int64) ([]*domain.Job, error) {
	m.count()
	if m.ListJobsFunc != nil {
		return m.ListJobsFunc(ctx, customerID)
	}
	return nil, nil
}

// GetJob fetches a job by id
func (m *MockCRMGateway) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	m.count()
	if m.GetJobFunc != nil {
		return m.GetJobFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// CreateJob files a new job from a booking request
func (m *MockCRMGateway) CreateJob(ctx context.Context, req *domain.BookingRequest) (*domain.Job, error) {
	m.count()
	if m.CreateJobFunc != nil {
		return m.CreateJobFunc(ctx, req)
	}
	return &domain.Job{ID: 1, CustomerID: req.CustomerID}, nil
}

// ListAppointments lists a job's appointments
func (m *MockCRMGateway) ListAppointments(ctx context.Context, jobID int64) ([]*domain.Appointment, error) {
	m.count()
	if m.ListAppointmentsFunc != nil {
		return m.ListAppointmentsFunc(ctx, jobID)
	}
	return nil, nil
}

// CancelAppointment cancels an appointment
func (m *MockCRMGateway) CancelAppointment(ctx context.Context, id int64) error {
	m.count()
	if m.CancelAppointmentFunc != nil {
		return m.CancelAppointmentFunc(ctx, id)
	}
	return nil
}

// ListEstimates lists a customer's estimates
func (m *MockCRMGateway) ListEstimates(ctx context.Context, customerID int64) ([]*domain.Estimate, error) {
	m.count()
	if m.ListEstimatesFunc != nil {
		return m.ListEstimatesFunc(ctx, customerID)
	}
	return nil, nil
}

// ListInvoices lists a customer's invoices
func (m *MockCRMGateway) ListInvoices(ctx context.Context, customerID int64) ([]*domain.Invoice, error) {
	m.count()
	if m.ListInvoicesFunc != nil {
		return m.ListInvoicesFunc(ctx, customerID)
	}
	return nil, nil
}

// ListMemberships lists a customer's memberships
func (m *MockCRMGateway) ListMemberships(ctx context.Context, customerID int64) ([]*domain.Membership, error) {
	m.count()
	if m.ListMembershipsFunc != nil {
		return m.ListMembershipsFunc(ctx, customerID)
	}
	return nil, nil
}

// JobTypes returns the job type lookup
func (m *MockCRMGateway) JobTypes(ctx context.Context) ([]*domain.JobType, error) {
	m.count()
	if m.JobTypesFunc != nil {
		return m.JobTypesFunc(ctx)
	}
	return nil, nil
}

// Campaigns returns the campaign lookup
func (m *MockCRMGateway) Campaigns(ctx context.Context) ([]*domain.Campaign, error) {
	m.count()
	if m.CampaignsFunc != nil {
		return m.CampaignsFunc(ctx)
	}
	return nil, nil
}

// PricebookItems returns the pricebook lookup
func (m *MockCRMGateway) PricebookItems(ctx context.Context) ([]*domain.PricebookItem, error) {
	m.count()
	if m.PricebookItemsFunc != nil {
		return m.PricebookItemsFunc(ctx)
	}
	return nil, nil
}

// InvalidateLookups clears the lookup cache
func (m *MockCRMGateway) InvalidateLookups() {
	if m.InvalidateLookupsFunc != nil {
		m.InvalidateLookupsFunc()
	}
}

// Compile-time interface compliance verification
var _ domain.CRMGateway = (*MockCRMGateway)(nil)

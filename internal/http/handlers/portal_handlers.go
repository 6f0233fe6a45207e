package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/domain"
	"github.com/you/plumbsvc/internal/http/middleware"
)

// PortalHandlers handles customer-facing portal HTTP requests. Every
// customer-scoped route asserts ownership of the requested id before the
// gateway is touched.
type PortalHandlers struct {
	gateway    domain.CRMGateway
	voucherSvc domain.VoucherService
}

// NewPortalHandlers creates new portal handlers
func NewPortalHandlers(gateway domain.CRMGateway, voucherSvc domain.VoucherService) *PortalHandlers {
	return &PortalHandlers{gateway: gateway, voucherSvc: voucherSvc}
}

// UpdateAccountRequest represents a customer profile update
type UpdateAccountRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// CreateBookingRequest represents a service booking submission
type CreateBookingRequest struct {
	LocationID     int64      `json:"locationId" binding:"required"`
	JobTypeID      int64      `json:"jobTypeId" binding:"required"`
	CampaignID     int64      `json:"campaignId"`
	Summary        string     `json:"summary" binding:"required,max=2000"`
	PreferredStart *time.Time `json:"preferredStart"`
}

// RedeemVoucherRequest represents a voucher redemption attempt
type RedeemVoucherRequest struct {
	Code string `json:"code" binding:"required"`
}

// ListAccounts returns the customer record for every id in the session's
// ownership set, so the frontend can render the account picker.
func (h *PortalHandlers) ListAccounts(c *gin.Context) {
	session := middleware.SessionFrom(c)

	accounts := make([]*domain.Customer, 0, len(session.AvailableCustomerIDs))
	for _, id := range session.AvailableCustomerIDs {
		customer, err := h.gateway.GetCustomer(c.Request.Context(), id)
		if err != nil {
			// A single stale id must not take down the picker.
			log.Warn().Err(err).Int64("customer_id", id).Msg("failed to load owned account")
			continue
		}
		accounts = append(accounts, customer)
	}

	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

// GetAccount returns one owned customer record.
func (h *PortalHandlers) GetAccount(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok || !middleware.AssertOwnership(c, customerID) {
		return
	}

	customer, err := h.gateway.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": customer})
}

// UpdateAccount writes profile changes through to the CRM.
func (h *PortalHandlers) UpdateAccount(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok || !middleware.AssertOwnership(c, customerID) {
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer, err := h.gateway.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	if req.Name != "" {
		customer.Name = req.Name
	}
	if req.Email != "" {
		customer.Email = req.Email
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}

	if err := h.gateway.UpdateCustomer(c.Request.Context(), customer); err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": customer})
}

// ListLocations returns the owned customer's service locations.
func (h *PortalHandlers) ListLocations(c *gin.Context) {
	h.listForCustomer(c, func(ctx *gin.Context, id int64) (interface{}, error) {
		return h.gateway.ListLocations(ctx.Request.Context(), id)
	})
}

// ListContacts returns the owned customer's contact methods.
func (h *PortalHandlers) ListContacts(c *gin.Context) {
	h.listForCustomer(c, func(ctx *gin.Context, id int64) (interface{}, error) {
		return h.gateway.ListContacts(ctx.Request.Context(), id)
	})
}

// ListJobs returns the owned customer's job history.
func (h *PortalHandlers) ListJobs(c *gin.Context) {
	h.listForCustomer(c, func(ctx *gin.Context, id int64) (interface{}, error) {
		return h.gateway.ListJobs(ctx.Request.Context(), id)
	})
}

// ListEstimates returns the owned customer's estimates.
func (h *PortalHandlers) ListEstimates(c *gin.Context) {
	h.listForCustomer(c, func(ctx *gin.Context, id int64) (interface{}, error) {
		return h.gateway.ListEstimates(ctx.Request.Context(), id)
	})
}

// ListInvoices returns the owned customer's invoices.
func (h *PortalHandlers) ListInvoices(c *gin.Context) {
	h.listForCustomer(c, func(ctx *gin.Context, id int64) (interface{}, error) {
		return h.gateway.ListInvoices(ctx.Request.Context(), id)
	})
}

// ListMemberships returns the owned customer's service memberships.
func (h *PortalHandlers) ListMemberships(c *gin.Context) {
	h.listForCustomer(c, func(ctx *gin.Context, id int64) (interface{}, error) {
		return h.gateway.ListMemberships(ctx.Request.Context(), id)
	})
}

// listForCustomer is the shared assert-then-fetch shape of the customer-scoped
// list endpoints.
func (h *PortalHandlers) listForCustomer(c *gin.Context, fetch func(*gin.Context, int64) (interface{}, error)) {
	customerID, ok := pathID(c, "customerId")
	if !ok || !middleware.AssertOwnership(c, customerID) {
		return
	}

	data, err := fetch(c, customerID)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

// GetJob returns a single job. Ownership rides on the job's customer, so the
// job is fetched first and a foreign job answers 404 rather than 403 to avoid
// confirming it exists.
func (h *PortalHandlers) GetJob(c *gin.Context) {
	job, ok := h.ownedJob(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": job})
}

// ListJobAppointments returns the appointments for one owned job.
func (h *PortalHandlers) ListJobAppointments(c *gin.Context) {
	job, ok := h.ownedJob(c)
	if !ok {
		return
	}

	appointments, err := h.gateway.ListAppointments(c.Request.Context(), job.ID)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": appointments})
}

// CancelAppointment cancels one appointment on an owned job. The appointment
// must actually belong to the job in the path.
func (h *PortalHandlers) CancelAppointment(c *gin.Context) {
	job, ok := h.ownedJob(c)
	if !ok {
		return
	}

	appointmentID, ok := pathID(c, "appointmentId")
	if !ok {
		return
	}

	appointments, err := h.gateway.ListAppointments(c.Request.Context(), job.ID)
	if err != nil {
		respondUpstream(c, err)
		return
	}

	var target *domain.Appointment
	for _, a := range appointments {
		if a.ID == appointmentID {
			target = a
			break
		}
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	if err := h.gateway.CancelAppointment(c.Request.Context(), appointmentID); err != nil {
		respondUpstream(c, err)
		return
	}

	log.Info().
		Int64("job_id", job.ID).
		Int64("appointment_id", appointmentID).
		Int64("customer_id", job.CustomerID).
		Msg("appointment cancelled")

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"cancelled": true}})
}

// CreateBooking files a new unscheduled job for the owned customer.
func (h *PortalHandlers) CreateBooking(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok || !middleware.AssertOwnership(c, customerID) {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.gateway.CreateJob(c.Request.Context(), &domain.BookingRequest{
		CustomerID:     customerID,
		LocationID:     req.LocationID,
		JobTypeID:      req.JobTypeID,
		CampaignID:     req.CampaignID,
		Summary:        req.Summary,
		PreferredStart: req.PreferredStart,
	})
	if err != nil {
		respondUpstream(c, err)
		return
	}

	log.Info().Int64("customer_id", customerID).Int64("job_id", job.ID).Msg("booking created")
	c.JSON(http.StatusCreated, gin.H{"data": job})
}

// ListVouchers returns vouchers assigned to the owned customer.
func (h *PortalHandlers) ListVouchers(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok || !middleware.AssertOwnership(c, customerID) {
		return
	}

	vouchers, err := h.voucherSvc.ListForCustomer(c.Request.Context(), customerID)
	if err != nil {
		log.Error().Err(err).Msg("voucher list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list vouchers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": vouchers})
}

// RedeemVoucher redeems a voucher code for the owned customer. A code bound
// to someone else answers the same 404 as a code that does not exist.
func (h *PortalHandlers) RedeemVoucher(c *gin.Context) {
	customerID, ok := pathID(c, "customerId")
	if !ok || !middleware.AssertOwnership(c, customerID) {
		return
	}

	var req RedeemVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	voucher, err := h.voucherSvc.Redeem(c.Request.Context(), req.Code, customerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrVoucherNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
		case errors.Is(err, domain.ErrVoucherAlreadyRedeemed):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Voucher already redeemed"})
		default:
			log.Error().Err(err).Msg("voucher redeem failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Redemption failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": voucher})
}

// ownedJob fetches the job in the path and checks its customer against the
// session's ownership set. Writes the error response itself on failure.
func (h *PortalHandlers) ownedJob(c *gin.Context) (*domain.Job, bool) {
	jobID, ok := pathID(c, "jobId")
	if !ok {
		return nil, false
	}

	job, err := h.gateway.GetJob(c.Request.Context(), jobID)
	if err != nil {
		respondUpstream(c, err)
		return nil, false
	}

	session := middleware.SessionFrom(c)
	if !session.Owns(job.CustomerID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return nil, false
	}
	return job, true
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/domain"
	"github.com/you/plumbsvc/internal/http/middleware"
	"github.com/you/plumbsvc/internal/infrastructure/auth"
)

// AdminHandlers handles back-office console HTTP requests
type AdminHandlers struct {
	adminAuth   domain.AdminAuthService
	cookieSvc   *auth.CookieService
	adminRepo   domain.AdminRepository
	voucherRepo domain.VoucherRepository
	leadRepo    domain.LeadRepository
	gateway     domain.CRMGateway
	syncSvc     domain.SyncService
	passwordSvc domain.PasswordService
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(
	adminAuth domain.AdminAuthService,
	cookieSvc *auth.CookieService,
	adminRepo domain.AdminRepository,
	voucherRepo domain.VoucherRepository,
	leadRepo domain.LeadRepository,
	gateway domain.CRMGateway,
	syncSvc domain.SyncService,
	passwordSvc domain.PasswordService,
) *AdminHandlers {
	return &AdminHandlers{
		adminAuth:   adminAuth,
		cookieSvc:   cookieSvc,
		adminRepo:   adminRepo,
		voucherRepo: voucherRepo,
		leadRepo:    leadRepo,
		gateway:     gateway,
		syncSvc:     syncSvc,
		passwordSvc: passwordSvc,
	}
}

// AdminLoginRequest represents an admin login request
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateAdminRequest represents an admin user creation request
type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateAdminRequest represents an admin user update request
type UpdateAdminRequest struct {
	Name     string `json:"name"`
	Password string `json:"password" binding:"omitempty,min=8"`
	IsActive *bool  `json:"isActive"`
}

// CreateVoucherRequest represents a voucher creation request
type CreateVoucherRequest struct {
	Code        string  `json:"code"`
	CustomerID  int64   `json:"customerId"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// Login authenticates an admin and issues the session cookie.
func (h *AdminHandlers) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.adminAuth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Inactive, unknown and wrong-password all answer the same way.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := h.cookieSvc.Issue(c, session); err != nil {
		log.Error().Err(err).Msg("failed to issue admin session cookie")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"email": session.AdminEmail}})
}

// Me returns the authenticated admin's identity.
func (h *AdminHandlers) Me(c *gin.Context) {
	session := middleware.SessionFrom(c)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":    session.AdminID,
		"email": session.AdminEmail,
	}})
}

// ListAdmins returns all admin users, active and inactive.
func (h *AdminHandlers) ListAdmins(c *gin.Context) {
	admins, err := h.adminRepo.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("admin list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list admins"})
		return
	}

	out := make([]gin.H, 0, len(admins))
	for _, a := range admins {
		out = append(out, adminPayload(a))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// CreateAdmin adds an email to the allow-list. The new admin is active and
// authorized on their very next request, no restart needed.
func (h *AdminHandlers) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := h.passwordSvc.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("password hash failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin"})
		return
	}

	admin := &domain.AdminUser{
		Email:        strings.ToLower(req.Email),
		Name:         req.Name,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := h.adminRepo.Create(c.Request.Context(), admin); err != nil {
		log.Error().Err(err).Msg("admin create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin"})
		return
	}

	log.Info().Str("email", admin.Email).Msg("admin user created")
	c.JSON(http.StatusCreated, gin.H{"data": adminPayload(admin)})
}

// UpdateAdmin edits an allow-list row. Deactivation cuts the admin off on
// their next request even if their cookie is still valid.
func (h *AdminHandlers) UpdateAdmin(c *gin.Context) {
	id, ok := pathUint(c, "id")
	if !ok {
		return
	}

	var req UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.adminRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
		return
	}

	if req.Name != "" {
		admin.Name = req.Name
	}
	if req.Password != "" {
		hash, err := h.passwordSvc.Hash(req.Password)
		if err != nil {
			log.Error().Err(err).Msg("password hash failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update admin"})
			return
		}
		admin.PasswordHash = hash
	}
	if req.IsActive != nil {
		admin.IsActive = *req.IsActive
	}

	if err := h.adminRepo.Update(c.Request.Context(), admin); err != nil {
		log.Error().Err(err).Msg("admin update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update admin"})
		return
	}

	log.Info().Str("email", admin.Email).Bool("active", admin.IsActive).Msg("admin user updated")
	c.JSON(http.StatusOK, gin.H{"data": adminPayload(admin)})
}

// DeleteAdmin removes an allow-list row.
func (h *AdminHandlers) DeleteAdmin(c *gin.Context) {
	id, ok := pathUint(c, "id")
	if !ok {
		return
	}

	if err := h.adminRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
			return
		}
		log.Error().Err(err).Msg("admin delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete admin"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

// ListVouchers returns every voucher with its redemption state.
func (h *AdminHandlers) ListVouchers(c *gin.Context) {
	vouchers, err := h.voucherRepo.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("voucher list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list vouchers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vouchers})
}

// CreateVoucher creates a voucher, generating a code when none is supplied.
func (h *AdminHandlers) CreateVoucher(c *gin.Context) {
	var req CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		code = strings.ToUpper(uuid.NewString()[:8])
	}

	voucher := &domain.Voucher{
		Code:        code,
		CustomerID:  req.CustomerID,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if err := h.voucherRepo.Create(c.Request.Context(), voucher); err != nil {
		log.Error().Err(err).Msg("voucher create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create voucher"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": voucher})
}

// DeleteVoucher removes a voucher.
func (h *AdminHandlers) DeleteVoucher(c *gin.Context) {
	id, ok := pathUint(c, "id")
	if !ok {
		return
	}

	if err := h.voucherRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrVoucherNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
			return
		}
		log.Error().Err(err).Msg("voucher delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete voucher"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

// ListLeads returns recent contact-form submissions.
func (h *AdminHandlers) ListLeads(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	leads, err := h.leadRepo.List(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("lead list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list leads"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": leads})
}

// RefreshLookups drops the gateway's lookup cache. The next portal request
// that needs job types, campaigns or pricebook items refetches them.
func (h *AdminHandlers) RefreshLookups(c *gin.Context) {
	h.gateway.InvalidateLookups()
	log.Info().Str("admin", middleware.SessionFrom(c).AdminEmail).Msg("lookup cache invalidated")
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"refreshed": true}})
}

// SyncStatus returns the customer sync state.
func (h *AdminHandlers) SyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.syncSvc.Status()})
}

// StartSync launches a customer sync in the background. A run already in
// flight answers 409 without starting another.
func (h *AdminHandlers) StartSync(c *gin.Context) {
	if h.syncSvc.Status().Running {
		c.JSON(http.StatusConflict, gin.H{"error": "Sync already running"})
		return
	}

	admin := middleware.SessionFrom(c).AdminEmail
	go func() {
		// Detached from the request; the admin polls status instead.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		count, err := h.syncSvc.Run(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrSyncInProgress) {
				return
			}
			log.Error().Err(err).Str("admin", admin).Msg("admin-triggered sync failed")
			return
		}
		log.Info().Int("count", count).Str("admin", admin).Msg("admin-triggered sync finished")
	}()

	c.JSON(http.StatusAccepted, gin.H{"data": gin.H{"started": true}})
}

// ResetSyncLock force-releases the sync lock after a wedged run.
func (h *AdminHandlers) ResetSyncLock(c *gin.Context) {
	h.syncSvc.ResetLock()
	log.Warn().Str("admin", middleware.SessionFrom(c).AdminEmail).Msg("sync lock reset")
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"reset": true}})
}

// Logout clears the admin session cookie.
func (h *AdminHandlers) Logout(c *gin.Context) {
	h.cookieSvc.Clear(c)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Logged out"}})
}

func adminPayload(a *domain.AdminUser) gin.H {
	return gin.H{
		"id":        a.ID,
		"email":     a.Email,
		"name":      a.Name,
		"isActive":  a.IsActive,
		"createdAt": a.CreatedAt,
	}
}

func pathUint(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

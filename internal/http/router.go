package httpx

import (
	"github.com/gin-gonic/gin"

	"github.com/you/plumbsvc/domain"
	"github.com/you/plumbsvc/internal/http/handlers"
	"github.com/you/plumbsvc/internal/http/middleware"
)

// BuildRouter wires all routes. Every request passes the session loader; the
// route groups add the gate appropriate to their audience.
func BuildRouter(
	ah *handlers.AuthHandlers,
	ph *handlers.PortalHandlers,
	admh *handlers.AdminHandlers,
	ch *handlers.CronHandlers,
	pubh *handlers.PublicHandlers,
	sessionMW *middleware.SessionMW,
	adminMW *middleware.AdminMW,
	limiter domain.RateLimiter,
	cronSecret string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), sessionMW.Load())

	r.GET("/health", pubh.Health)

	api := r.Group("/api")
	api.POST("/leads", middleware.RateLimit(limiter, "leads"), pubh.CreateLead)
	api.GET("/unsubscribe", pubh.Unsubscribe)

	auth := r.Group("/auth")
	auth.POST("/otp/send", middleware.RateLimit(limiter, "otp"), ah.SendOTP)
	auth.POST("/otp/verify", middleware.RateLimit(limiter, "otp"), ah.VerifyOTP)
	auth.POST("/email/send", middleware.RateLimit(limiter, "email"), ah.SendEmailLink)
	auth.GET("/email/complete", ah.CompleteEmailLink)
	auth.GET("/google/start", ah.GoogleStart)
	auth.GET("/google/callback", ah.GoogleCallback)
	auth.POST("/logout", ah.Logout)

	authed := r.Group("/auth").Use(middleware.RequireCustomer())
	authed.GET("/me", ah.Me)
	authed.POST("/switch-account", ah.SwitchAccount)

	portal := r.Group("/portal").Use(middleware.RequireCustomer())
	portal.GET("/accounts", ph.ListAccounts)
	portal.GET("/accounts/:customerId", ph.GetAccount)
	portal.PATCH("/accounts/:customerId", ph.UpdateAccount)
	portal.GET("/accounts/:customerId/locations", ph.ListLocations)
	portal.GET("/accounts/:customerId/contacts", ph.ListContacts)
	portal.GET("/accounts/:customerId/jobs", ph.ListJobs)
	portal.GET("/accounts/:customerId/estimates", ph.ListEstimates)
	portal.GET("/accounts/:customerId/invoices", ph.ListInvoices)
	portal.GET("/accounts/:customerId/memberships", ph.ListMemberships)
	portal.GET("/accounts/:customerId/vouchers", ph.ListVouchers)
	portal.POST("/accounts/:customerId/vouchers/redeem", ph.RedeemVoucher)
	portal.POST("/accounts/:customerId/bookings", ph.CreateBooking)
	portal.GET("/jobs/:jobId", ph.GetJob)
	portal.GET("/jobs/:jobId/appointments", ph.ListJobAppointments)
	portal.POST("/jobs/:jobId/appointments/:appointmentId/cancel", ph.CancelAppointment)

	r.POST("/admin/login", middleware.RateLimit(limiter, "admin-login"), admh.Login)

	adm := r.Group("/admin").Use(adminMW.RequireAdmin())
	adm.GET("/me", admh.Me)
	adm.POST("/logout", admh.Logout)
	adm.GET("/users", admh.ListAdmins)
	adm.POST("/users", admh.CreateAdmin)
	adm.PATCH("/users/:id", admh.UpdateAdmin)
	adm.DELETE("/users/:id", admh.DeleteAdmin)
	adm.GET("/vouchers", admh.ListVouchers)
	adm.POST("/vouchers", admh.CreateVoucher)
	adm.DELETE("/vouchers/:id", admh.DeleteVoucher)
	adm.GET("/leads", admh.ListLeads)
	adm.POST("/crm/refresh-cache", admh.RefreshLookups)
	adm.GET("/sync/status", admh.SyncStatus)
	adm.POST("/sync/start", admh.StartSync)
	adm.POST("/sync/reset-lock", admh.ResetSyncLock)

	cron := r.Group("/cron").Use(middleware.RequireCronSecret(cronSecret))
	cron.POST("/sync-customers", ch.SyncCustomers)
	cron.POST("/send-drip", ch.SendDrip)

	return r
}

package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/you/plumbsvc/internal/config"
	httpx "github.com/you/plumbsvc/internal/http"
	"github.com/you/plumbsvc/internal/http/handlers"
	"github.com/you/plumbsvc/internal/http/middleware"
)

// Run builds the dependency graph, starts the HTTP server and blocks until
// the process is signalled to stop.
func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	c, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	authH := handlers.NewAuthHandlers(c.PortalAuthSvc, c.CookieSvc, c.GoogleSvc)
	portalH := handlers.NewPortalHandlers(c.Gateway, c.VoucherSvc)
	adminH := handlers.NewAdminHandlers(
		c.AdminAuthSvc, c.CookieSvc, c.AdminRepo, c.VoucherRepo,
		c.LeadRepo, c.Gateway, c.SyncSvc, c.PasswordSvc,
	)
	cronH := handlers.NewCronHandlers(c.SyncSvc, c.CampaignSvc)
	publicH := handlers.NewPublicHandlers(c.LeadRepo, c.CampaignSvc, c.Redis)

	sessionMW := middleware.NewSessionMW(c.CookieSvc)
	adminMW := middleware.NewAdminMW(c.AdminAuthSvc)

	r := httpx.BuildRouter(authH, portalH, adminH, cronH, publicH,
		sessionMW, adminMW, c.Limiter, cfg.CronSecret)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

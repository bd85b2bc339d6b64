package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dosirak-app/dosirak/internal/mail"
	"github.com/dosirak-app/dosirak/internal/middleware"
	"github.com/dosirak-app/dosirak/internal/plugins/auth"
	"github.com/dosirak-app/dosirak/internal/plugins/pageview"
	"github.com/dosirak-app/dosirak/internal/plugins/reservation"
	"github.com/dosirak-app/dosirak/internal/templates/layouts"
	"github.com/dosirak-app/dosirak/internal/templates/pages"
)

// RegisterRoutes wires up all plugins and registers every application route.
// This is the single place where the dependency graph is assembled: each
// plugin gets its repository, service, and handler built here and its routes
// registered.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// --- Auth plugin ---
	userRepo := auth.NewUserRepository(a.DB)
	authService := auth.NewAuthService(userRepo, a.Redis,
		a.Config.Auth.SessionTTL, a.Config.Auth.ResetTokenTTL)
	if a.Config.Mail.IsConfigured() {
		sender := mail.NewSender(mail.Config{
			Host:        a.Config.Mail.Host,
			Port:        a.Config.Mail.Port,
			Username:    a.Config.Mail.Username,
			Password:    a.Config.Mail.Password,
			FromAddress: a.Config.Mail.FromAddress,
			FromName:    a.Config.Mail.FromName,
			Encryption:  a.Config.Mail.Encryption,
		})
		auth.ConfigureMailSender(authService, sender, a.Config.BaseURL)
	}
	authHandler := auth.NewHandler(authService)

	// --- Pageview plugin ---
	// Runs as global middleware so every authenticated full-page GET is
	// recorded. Must be registered after CSRF (which runs globally) and
	// reads the user ID that auth.RequireAuth sets per route group.
	pageViewRepo := pageview.NewPageViewRepository(a.DB)
	pageViewService := pageview.NewPageViewService(pageViewRepo, a.Redis)
	e.Use(pageview.Middleware(pageViewService))

	// --- Reservation plugin ---
	reservationRepo := reservation.NewReservationRepository(a.DB)
	reservationService := reservation.NewReservationService(reservationRepo, a.Config.Reservation)
	reservationHandler := reservation.NewHandler(reservationService)

	// --- Layout injector ---
	// Copies per-request data (session, CSRF token, path) from the Echo
	// context into the Go context so templates can read it without the
	// layouts package importing plugin types.
	middleware.LayoutInjector = func(c echo.Context, ctx context.Context) context.Context {
		if session := auth.GetSession(c); session != nil {
			ctx = layouts.SetIsAuthenticated(ctx, true)
			ctx = layouts.SetUserID(ctx, session.UserID)
			ctx = layouts.SetUserName(ctx, session.Name)
			ctx = layouts.SetUserEmail(ctx, session.Email)
		}
		ctx = layouts.SetCSRFToken(ctx, middleware.GetCSRFToken(c))
		ctx = layouts.SetActivePath(ctx, c.Request().URL.Path)
		return ctx
	}

	// --- Public routes ---

	// Landing page.
	e.GET("/", func(c echo.Context) error {
		return middleware.Render(c, http.StatusOK, pages.Landing())
	})

	// Health check endpoint for container orchestration. Verifies that both
	// backing stores answer within a short deadline.
	e.GET("/healthz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := a.DB.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "degraded", "database": "down",
			})
		}
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "degraded", "redis": "down",
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheus scrape endpoint.
	e.GET("/metrics", middleware.MetricsHandler())

	// --- Plugin routes ---
	auth.RegisterRoutes(e, authHandler)
	reservation.RegisterRoutes(e, reservationHandler, authService)
}

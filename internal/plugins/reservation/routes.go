package reservation

import (
	"github.com/labstack/echo/v4"

	"github.com/dosirak-app/dosirak/internal/plugins/auth"
)

// RegisterRoutes sets up the reservations area. Every route requires an
// authenticated session.
func RegisterRoutes(e *echo.Echo, h *Handler, authService auth.AuthService) {
	g := e.Group("/reservations", auth.RequireAuth(authService))

	g.GET("", h.Page)
	g.GET("/panel", h.Panel)
	g.POST("", h.Create)
	g.POST("/:id/cancel", h.Cancel)
}

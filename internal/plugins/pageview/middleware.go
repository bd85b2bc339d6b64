package pageview

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dosirak-app/dosirak/internal/plugins/auth"
)

// Middleware returns Echo middleware that records authenticated page loads.
// Only full-page GET navigations count: HTMX fragment swaps, static assets,
// error responses, and unauthenticated requests are skipped. Recording runs
// in a goroutine detached from the request's cancellation so a client
// disconnect doesn't abort the write.
//
// Recording happens after the handler chain so the auth middleware (which
// runs on inner route groups) has already resolved the session.
func Middleware(service PageViewService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			if err == nil && c.Response().Status < 400 && shouldRecord(c) {
				userID := auth.GetUserID(c)
				path := c.Request().URL.Path
				ctx := context.WithoutCancel(c.Request().Context())
				go func() {
					_ = service.Record(ctx, userID, path)
				}()
			}
			return err
		}
	}
}

// shouldRecord reports whether this request is a page view worth recording.
func shouldRecord(c echo.Context) bool {
	if c.Request().Method != "GET" {
		return false
	}
	if auth.GetUserID(c) == "" {
		return false
	}
	// HTMX fragment requests are partial updates of a page already counted.
	if c.Request().Header.Get("HX-Request") == "true" {
		return false
	}
	path := c.Request().URL.Path
	if strings.HasPrefix(path, "/static/") || path == "/favicon.ico" {
		return false
	}
	return true
}

package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// clientIP resolves the originating client address for rate limiting,
// preferring proxy-set headers over the socket peer. The first hop of
// X-Forwarded-For wins, matching the service's deployment behind a single
// trusted proxy.
func clientIP(c echo.Context) string {
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if real := c.Request().Header.Get("X-Real-IP"); real != "" {
		return real
	}
	if cf := c.Request().Header.Get("CF-Connecting-IP"); cf != "" {
		return cf
	}
	return c.RealIP()
}

package middleware

import "github.com/labstack/echo/v4"

// currentUserID returns the authenticated subject, or "anon" before JWTAuth
// has run. Rate-limit keys use it.
func currentUserID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}

package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// CurrentUserID returns the authenticated user's ID from the context,
// or zero when the request is anonymous. JWTAuth stores the value.
func CurrentUserID(c echo.Context) uint64 {
	if v, ok := c.Get("user_id").(uint64); ok {
		return v
	}
	return 0
}

// rateKeyUser renders the authenticated identity for rate-limit keys,
// "anon" when unauthenticated.
func rateKeyUser(c echo.Context) string {
	if id := CurrentUserID(c); id != 0 {
		return strconv.FormatUint(id, 10)
	}
	return "anon"
}

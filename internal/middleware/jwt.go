// Package middleware contains reusable HTTP middleware functions.
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's claims into the request context. The provided
// secret must match the one used when issuing tokens. Handlers behind
// this middleware can read the authenticated identity via
// `c.Get("user_id")` (uint64), `c.Get("username")` and `c.Get("email")`.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			uid, ok := subjectID(claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}
			c.Set("user_id", uid)
			if v, ok := claims["username"].(string); ok {
				c.Set("username", v)
			}
			if v, ok := claims["email"].(string); ok {
				c.Set("email", v)
			}
			return next(c)
		}
	}
}

// subjectID extracts the numeric user ID from the sub claim. JSON
// decoding turns numbers into float64, but tokens minted by other
// tooling may carry the subject as a string.
func subjectID(claims jwt.MapClaims) (uint64, bool) {
	switch v := claims["sub"].(type) {
	case float64:
		return uint64(v), true
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

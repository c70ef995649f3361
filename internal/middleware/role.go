package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces that the authenticated identity holds at least one of
// the given roles. It reads the Identity resolved by SessionGuard — never the
// token's claim snapshot — and answers 403 when the role is missing, which is
// distinct from the guard's 401 for a broken session.
func RequireRole(names ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := CurrentIdentity(c)
			if !ok {
				return unauthorized(c)
			}
			for _, r := range ident.Roles {
				if allowed[r] {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
	}
}

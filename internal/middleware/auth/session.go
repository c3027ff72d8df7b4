package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/pawnshop/internal/models"
	"github.com/Skotchmaster/pawnshop/internal/service/session"
)

const SessionCookie = "sessionToken"

type Middleware struct {
	Sessions *session.Service
}

// RequireSession accepts the token from the Authorization header
// (Bearer form) or the session cookie and puts the employee identity
// on the echo context.
func (m *Middleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := TokenFromRequest(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
		}

		claims, err := m.Sessions.Validate(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
		}

		setEmployeeContext(c, claims)
		return next(c)
	}
}

// AdminOnly stacks on RequireSession for routes only admins may touch.
func (m *Middleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireSession(func(c echo.Context) error {
		role, _ := c.Get("role").(string)
		if role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	})
}

func TokenFromRequest(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func setEmployeeContext(c echo.Context, claims jwt.MapClaims) {
	if sub, ok := claims["sub"].(float64); ok {
		c.Set("employeeID", uint(sub))
	}
	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}
}

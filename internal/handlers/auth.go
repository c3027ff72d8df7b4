package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pawnshop/internal/hash"
	authmw "github.com/Skotchmaster/pawnshop/internal/middleware/auth"
	"github.com/Skotchmaster/pawnshop/internal/models"
	"github.com/Skotchmaster/pawnshop/internal/mykafka"
	"github.com/Skotchmaster/pawnshop/internal/service/session"
	"github.com/Skotchmaster/pawnshop/internal/transport"
)

type AuthHandler struct {
	DB       *gorm.DB
	Sessions *session.Service
	Producer *mykafka.Producer
}

func CreateCookie(name string, value string, path string, expTime time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}

	return cookie
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	var employee models.Employee
	if err := h.DB.Where("login = ?", req.Login).First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	if !hash.CheckPassword(employee.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, exp, err := h.Sessions.Issue(&employee)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	c.SetCookie(CreateCookie(authmw.SessionCookie, token, "/", exp))

	publish(c, h.Producer, "employee_events", employee.Login, map[string]any{
		"type":       "employee_logged_in",
		"employeeID": employee.ID,
		"login":      employee.Login,
	})

	return c.JSON(http.StatusOK, transport.LoginResponse{
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		Login:     employee.Login,
		Role:      employee.Role,
		Token:     token,
		ExpiresAt: exp.Unix(),
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	raw := authmw.TokenFromRequest(c)
	if raw == "" {
		return errorResponse(c, http.StatusBadRequest, "no active session")
	}

	if err := h.Sessions.Revoke(raw); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(CreateCookie(authmw.SessionCookie, "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}

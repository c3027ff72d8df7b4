package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pawnshop/internal/models"
	"github.com/Skotchmaster/pawnshop/internal/service/session"
)

func initDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Employee{}, &models.Session{}))
	return db
}

var testPesels = map[string]string{
	models.RoleAdmin:    "70010109876",
	models.RoleEmployee: "71020254321",
}

func issueFor(t *testing.T, svc *session.Service, role string) string {
	employee := models.Employee{
		FirstName:      "Test",
		LastName:       "User",
		Pesel:          testPesels[role],
		DateOfBirth:    "1970-01-01",
		Street:         "St",
		HouseNumber:    "1",
		PostalCode:     "00-000",
		City:           "City",
		DocumentSeries: "AAA",
		DocumentNumber: "000" + role,
		Phone:          "123456789",
		Email:          role + "@pawnshop.local",
		Login:          "login_" + role,
		PasswordHash:   "x",
		Role:           role,
	}
	require.NoError(t, svc.DB.Create(&employee).Error)
	token, _, err := svc.Issue(&employee)
	require.NoError(t, err)
	return token
}

func okHandler(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestRequireSession(t *testing.T) {
	db := initDB(t)
	svc := &session.Service{DB: db, JWTSecret: []byte("test-secret")}
	m := &Middleware{Sessions: svc}
	token := issueFor(t, svc, models.RoleEmployee)
	e := echo.New()

	// bearer header
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, m.RequireSession(okHandler)(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, models.RoleEmployee, c.Get("role"))

	// cookie
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)
	require.NoError(t, m.RequireSession(okHandler)(c2))
	require.Equal(t, http.StatusOK, rec2.Code)
}

func TestRequireSessionMissingToken(t *testing.T) {
	db := initDB(t)
	m := &Middleware{Sessions: &session.Service{DB: db, JWTSecret: []byte("test-secret")}}
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := m.RequireSession(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireSessionRevoked(t *testing.T) {
	db := initDB(t)
	svc := &session.Service{DB: db, JWTSecret: []byte("test-secret")}
	m := &Middleware{Sessions: svc}
	token := issueFor(t, svc, models.RoleEmployee)
	require.NoError(t, svc.Revoke(token))
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := m.RequireSession(okHandler)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestAdminOnly(t *testing.T) {
	db := initDB(t)
	svc := &session.Service{DB: db, JWTSecret: []byte("test-secret")}
	m := &Middleware{Sessions: svc}
	e := echo.New()

	adminToken := issueFor(t, svc, models.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, m.AdminOnly(okHandler)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	employeeToken := issueFor(t, svc, models.RoleEmployee)
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.Header.Set(echo.HeaderAuthorization, "Bearer "+employeeToken)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)

	err := m.AdminOnly(okHandler)(c2)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
}

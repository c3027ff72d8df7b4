package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pawnshop/internal/imagestore"
	"github.com/Skotchmaster/pawnshop/internal/models"
)

var testJWTSecret = []byte("test-secret")

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.ProductImage{},
		&models.Employee{},
		&models.Session{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newImageStore(t *testing.T) *imagestore.Store {
	store, err := imagestore.New(t.TempDir())
	require.NoError(t, err)
	return store
}

func newJSONContext(t *testing.T, e *echo.Echo, method, target string, payload any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newFormContext(t *testing.T, e *echo.Echo, method, target string, fields map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func seedCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()
	customer := models.Customer{
		FirstName:      "John",
		LastName:       "Doe",
		Pesel:          "85010112345",
		DateOfBirth:    "1985-01-01",
		Street:         "Main St",
		HouseNumber:    "5",
		PostalCode:     "00-001",
		City:           "Warsaw",
		DocumentSeries: "ABC",
		DocumentNumber: "123456",
	}
	require.NoError(t, db.Create(&customer).Error)
	return &customer
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func requireErrorStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, rec.Code)
	var resp Response
	decodeBody(t, rec, &resp)
	require.Equal(t, "error", resp.Status)
	require.NotEmpty(t, resp.Message)
}

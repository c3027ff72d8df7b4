package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pawnshop/internal/models"
)

func customerPayload() map[string]string {
	return map[string]string{
		"firstName":      "John",
		"lastName":       "Doe",
		"pesel":          "85010112345",
		"dateOfBirth":    "1985-01-01",
		"street":         "Main St",
		"houseNumber":    "5",
		"postalCode":     "00-001",
		"city":           "Warsaw",
		"documentSeries": "ABC",
		"documentNumber": "123456",
	}
}

func seedProductFor(t *testing.T, db *gorm.DB, clientID uint) *models.Product {
	t.Helper()
	product := models.Product{
		Name:               "Gold ring",
		Category:           "jewelry",
		TechnicalCondition: "good",
		PurchasePrice:      decimal.NewFromInt(200),
		TransactionType:    models.TransactionPawn,
		DateOfReceipt:      "2024-05-01",
		ClientID:           clientID,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func TestCreateCustomerAndRefetch(t *testing.T) {
	db := InitTestDB(t)
	h := &CustomerHandler{DB: db}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodPost, "/api/customers", customerPayload())
	require.NoError(t, h.CreateCustomer(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Customer
	decodeBody(t, rec, &created)
	require.NotZero(t, created.ID)
	require.Equal(t, "John", created.FirstName)
	require.Equal(t, "85010112345", created.Pesel)

	c2, rec2 := newJSONContext(t, e, http.MethodGet, "/", nil)
	c2.SetPath("/api/customers/:id")
	c2.SetParamNames("id")
	c2.SetParamValues(fmt.Sprint(created.ID))
	require.NoError(t, h.GetCustomer(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	var detail struct {
		Customer models.Customer         `json:"customer"`
		Products []models.ProductSummary `json:"products"`
	}
	decodeBody(t, rec2, &detail)
	require.Equal(t, created.ID, detail.Customer.ID)
	require.Equal(t, created.Pesel, detail.Customer.Pesel)
	require.Empty(t, detail.Products)
}

func TestCreateCustomerInvalidPesel(t *testing.T) {
	db := InitTestDB(t)
	h := &CustomerHandler{DB: db}
	e := echo.New()

	for _, pesel := range []string{"", "123", "8501011234a", "850101123456"} {
		payload := customerPayload()
		payload["pesel"] = pesel
		c, rec := newJSONContext(t, e, http.MethodPost, "/api/customers", payload)
		require.NoError(t, h.CreateCustomer(c))
		requireErrorStatus(t, rec, http.StatusBadRequest)
	}

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestGetCustomersProjection(t *testing.T) {
	db := InitTestDB(t)
	customer := seedCustomer(t, db)
	h := &CustomerHandler{DB: db}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodGet, "/api/customers", nil)
	require.NoError(t, h.GetCustomers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []map[string]any
	decodeBody(t, rec, &summaries)
	require.Len(t, summaries, 1)

	// exactly the projection fields, nothing more
	require.Len(t, summaries[0], 4)
	require.Equal(t, float64(customer.ID), summaries[0]["id"])
	require.Equal(t, "John", summaries[0]["firstName"])
	require.Equal(t, "Doe", summaries[0]["lastName"])
	require.Equal(t, "85010112345", summaries[0]["pesel"])
}

func TestGetCustomerIncludesProductSummaries(t *testing.T) {
	db := InitTestDB(t)
	customer := seedCustomer(t, db)
	product := seedProductFor(t, db, customer.ID)
	h := &CustomerHandler{DB: db}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(customer.ID))
	require.NoError(t, h.GetCustomer(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var detail struct {
		Products []models.ProductSummary `json:"products"`
	}
	decodeBody(t, rec, &detail)
	require.Len(t, detail.Products, 1)
	require.Equal(t, product.ID, detail.Products[0].ID)
	require.Equal(t, "Gold ring", detail.Products[0].Name)
	require.Equal(t, models.TransactionPawn, detail.Products[0].TransactionType)
}

func TestUpdateCustomerWhitelist(t *testing.T) {
	db := InitTestDB(t)
	customer := seedCustomer(t, db)
	h := &CustomerHandler{DB: db}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodPut, "/", map[string]any{
		"city":  "Gdansk",
		"notes": "regular",
		"id":    999,
	})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(customer.ID))
	require.NoError(t, h.UpdateCustomer(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Customer
	require.NoError(t, db.First(&updated, customer.ID).Error)
	require.Equal(t, customer.ID, updated.ID)
	require.Equal(t, "Gdansk", updated.City)
	require.Equal(t, "regular", updated.Notes)
	// untouched fields survive
	require.Equal(t, "John", updated.FirstName)
	require.Equal(t, "85010112345", updated.Pesel)
}

func TestUpdateCustomerNotFound(t *testing.T) {
	db := InitTestDB(t)
	h := &CustomerHandler{DB: db}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodPut, "/", map[string]any{"city": "Gdansk"})
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.UpdateCustomer(c))
	requireErrorStatus(t, rec, http.StatusNotFound)
}

func TestDeleteCustomer(t *testing.T) {
	db := InitTestDB(t)
	customer := seedCustomer(t, db)
	h := &CustomerHandler{DB: db}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodDelete, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(customer.ID))
	require.NoError(t, h.DeleteCustomer(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestDeleteCustomerNotFound(t *testing.T) {
	db := InitTestDB(t)
	h := &CustomerHandler{DB: db}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodDelete, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues("42")
	require.NoError(t, h.DeleteCustomer(c))
	requireErrorStatus(t, rec, http.StatusNotFound)
}

func TestDeleteCustomerBlockedByProducts(t *testing.T) {
	db := InitTestDB(t)
	customer := seedCustomer(t, db)
	seedProductFor(t, db, customer.ID)
	h := &CustomerHandler{DB: db}
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodDelete, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(customer.ID))
	require.NoError(t, h.DeleteCustomer(c))
	requireErrorStatus(t, rec, http.StatusBadRequest)

	var count int64
	require.NoError(t, db.Model(&models.Customer{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

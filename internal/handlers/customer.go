package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pawnshop/internal/models"
	"github.com/Skotchmaster/pawnshop/internal/mykafka"
	"github.com/Skotchmaster/pawnshop/internal/transport"
	"github.com/Skotchmaster/pawnshop/internal/validation"
)

type CustomerHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func validateCustomerCreate(req *transport.CustomerCreateRequest) validation.Violations {
	v := validation.Violations{}
	validation.Required("firstName", req.FirstName, v)
	validation.Required("lastName", req.LastName, v)
	validation.Required("dateOfBirth", req.DateOfBirth, v)
	validation.Required("street", req.Street, v)
	validation.Required("houseNumber", req.HouseNumber, v)
	validation.Required("postalCode", req.PostalCode, v)
	validation.Required("city", req.City, v)
	validation.Required("documentSeries", req.DocumentSeries, v)
	validation.Required("documentNumber", req.DocumentNumber, v)
	validation.Pesel("pesel", req.Pesel, v)
	validation.Email("email", req.Email, v)
	validation.Phone("phone", req.Phone, v)
	return v
}

func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	var req transport.CustomerCreateRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	if v := validateCustomerCreate(&req); !v.Empty() {
		return errorResponse(c, http.StatusBadRequest, v.First())
	}

	customer := models.Customer{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Pesel:          req.Pesel,
		DateOfBirth:    req.DateOfBirth,
		Street:         req.Street,
		HouseNumber:    req.HouseNumber,
		PostalCode:     req.PostalCode,
		City:           req.City,
		DocumentSeries: req.DocumentSeries,
		DocumentNumber: req.DocumentNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		Notes:          req.Notes,
	}

	if err := h.DB.Create(&customer).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "customer_events", fmt.Sprint(customer.ID), map[string]any{
		"type":       "customer_created",
		"customerID": customer.ID,
	})

	return c.JSON(http.StatusCreated, customer)
}

// GetCustomers returns the list projection only, the full record is a
// per-id fetch.
func (h *CustomerHandler) GetCustomers(c echo.Context) error {
	var summaries []models.CustomerSummary
	if err := h.DB.Model(&models.Customer{}).
		Select("id", "first_name", "last_name", "pesel").
		Order("id ASC").
		Find(&summaries).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, summaries)
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var customer models.Customer
	if err := h.DB.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("customer %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	var products []models.ProductSummary
	if err := h.DB.Model(&models.Product{}).
		Select("id", "name", "transaction_type").
		Where("client_id = ?", customer.ID).
		Order("id ASC").
		Find(&products).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"customer": customer,
		"products": products,
	})
}

func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var req transport.CustomerUpdateRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	v := validation.Violations{}
	if req.Pesel != nil {
		validation.Pesel("pesel", *req.Pesel, v)
	}
	if req.Email != nil {
		validation.Email("email", *req.Email, v)
	}
	if req.Phone != nil {
		validation.Phone("phone", *req.Phone, v)
	}
	if !v.Empty() {
		return errorResponse(c, http.StatusBadRequest, v.First())
	}

	var customer models.Customer
	if err := h.DB.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("customer %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	applyCustomerUpdate(&customer, &req)

	if err := h.DB.Save(&customer).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "customer_events", fmt.Sprint(customer.ID), map[string]any{
		"type":       "customer_updated",
		"customerID": customer.ID,
	})

	return c.JSON(http.StatusOK, customer)
}

func applyCustomerUpdate(customer *models.Customer, req *transport.CustomerUpdateRequest) {
	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.Pesel != nil {
		customer.Pesel = *req.Pesel
	}
	if req.DateOfBirth != nil {
		customer.DateOfBirth = *req.DateOfBirth
	}
	if req.Street != nil {
		customer.Street = *req.Street
	}
	if req.HouseNumber != nil {
		customer.HouseNumber = *req.HouseNumber
	}
	if req.PostalCode != nil {
		customer.PostalCode = *req.PostalCode
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.DocumentSeries != nil {
		customer.DocumentSeries = *req.DocumentSeries
	}
	if req.DocumentNumber != nil {
		customer.DocumentNumber = *req.DocumentNumber
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}
}

func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	// Products keep the pawn history, a referenced customer cannot go away.
	var refs int64
	if err := h.DB.Model(&models.Product{}).Where("client_id = ?", id).Count(&refs).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}
	if refs > 0 {
		return errorResponse(c, http.StatusBadRequest,
			fmt.Sprintf("customer %d still owns %d product(s)", id, refs))
	}

	result := h.DB.Delete(&models.Customer{}, id)
	if result.Error != nil {
		return errorResponse(c, http.StatusInternalServerError, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errorResponse(c, http.StatusNotFound, fmt.Sprintf("customer %d not found", id))
	}

	publish(c, h.Producer, "customer_events", fmt.Sprint(id), map[string]any{
		"type":       "customer_deleted",
		"customerID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("customer %d deleted", id),
	})
}

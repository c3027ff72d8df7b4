package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pawnshop/internal/hash"
	"github.com/Skotchmaster/pawnshop/internal/models"
	"github.com/Skotchmaster/pawnshop/internal/mykafka"
	"github.com/Skotchmaster/pawnshop/internal/transport"
	"github.com/Skotchmaster/pawnshop/internal/validation"
)

var roles = []string{models.RoleAdmin, models.RoleEmployee}

type EmployeeHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func validateEmployeeCreate(req *transport.EmployeeCreateRequest) validation.Violations {
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
	validation.Required("login", req.Login, v)
	validation.Pesel("pesel", req.Pesel, v)
	validation.Required("email", req.Email, v)
	validation.Email("email", req.Email, v)
	validation.Required("phone", req.Phone, v)
	validation.Phone("phone", req.Phone, v)
	validation.MinLen("password", req.Password, 8, v)
	validation.OneOf("role", req.Role, roles, v)
	return v
}

func (h *EmployeeHandler) CreateEmployee(c echo.Context) error {
	var req transport.EmployeeCreateRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	if v := validateEmployeeCreate(&req); !v.Empty() {
		return errorResponse(c, http.StatusBadRequest, v.First())
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	employee := models.Employee{
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
		Login:          req.Login,
		PasswordHash:   passwordHash,
		Role:           req.Role,
	}

	if err := h.DB.Create(&employee).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "employee_events", fmt.Sprint(employee.ID), map[string]any{
		"type":       "employee_created",
		"employeeID": employee.ID,
		"login":      employee.Login,
	})

	return c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) GetEmployees(c echo.Context) error {
	var employees []models.Employee
	if err := h.DB.Order("id ASC").Find(&employees).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) GetEmployee(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var employee models.Employee
	if err := h.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("employee %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) UpdateEmployee(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var req transport.EmployeeUpdateRequest
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
	if req.Role != nil {
		validation.OneOf("role", *req.Role, roles, v)
	}
	if !v.Empty() {
		return errorResponse(c, http.StatusBadRequest, v.First())
	}

	var employee models.Employee
	if err := h.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("employee %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	applyEmployeeUpdate(&employee, &req)

	if err := h.DB.Save(&employee).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "employee_events", fmt.Sprint(employee.ID), map[string]any{
		"type":       "employee_updated",
		"employeeID": employee.ID,
	})

	return c.JSON(http.StatusOK, employee)
}

func applyEmployeeUpdate(employee *models.Employee, req *transport.EmployeeUpdateRequest) {
	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.Pesel != nil {
		employee.Pesel = *req.Pesel
	}
	if req.DateOfBirth != nil {
		employee.DateOfBirth = *req.DateOfBirth
	}
	if req.Street != nil {
		employee.Street = *req.Street
	}
	if req.HouseNumber != nil {
		employee.HouseNumber = *req.HouseNumber
	}
	if req.PostalCode != nil {
		employee.PostalCode = *req.PostalCode
	}
	if req.City != nil {
		employee.City = *req.City
	}
	if req.DocumentSeries != nil {
		employee.DocumentSeries = *req.DocumentSeries
	}
	if req.DocumentNumber != nil {
		employee.DocumentNumber = *req.DocumentNumber
	}
	if req.Phone != nil {
		employee.Phone = *req.Phone
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Login != nil {
		employee.Login = *req.Login
	}
	if req.Role != nil {
		employee.Role = *req.Role
	}
}

// ResetPassword is the only way to change a stored credential, the
// generic update never touches it.
func (h *EmployeeHandler) ResetPassword(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var req transport.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	v := validation.Violations{}
	validation.MinLen("password", req.Password, 8, v)
	if !v.Empty() {
		return errorResponse(c, http.StatusBadRequest, v.First())
	}

	var employee models.Employee
	if err := h.DB.First(&employee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("employee %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	employee.PasswordHash = passwordHash
	if err := h.DB.Save(&employee).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("password for employee %d updated", id),
	})
}

func (h *EmployeeHandler) DeleteEmployee(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	result := h.DB.Delete(&models.Employee{}, id)
	if result.Error != nil {
		return errorResponse(c, http.StatusInternalServerError, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errorResponse(c, http.StatusNotFound, fmt.Sprintf("employee %d not found", id))
	}

	publish(c, h.Producer, "employee_events", fmt.Sprint(id), map[string]any{
		"type":       "employee_deleted",
		"employeeID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("employee %d deleted", id),
	})
}

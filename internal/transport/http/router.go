package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pawnshop/internal/handlers"
	authmw "github.com/Skotchmaster/pawnshop/internal/middleware/auth"
)

type Deps struct {
	DB              *gorm.DB
	Auth            *authmw.Middleware
	AuthHandler     *handlers.AuthHandler
	CustomerHandler *handlers.CustomerHandler
	ProductHandler  *handlers.ProductHandler
	EmployeeHandler *handlers.EmployeeHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	api.POST("/login", d.AuthHandler.Login)
	api.POST("/logout", d.AuthHandler.Logout, d.Auth.RequireSession)

	customers := api.Group("/customers", d.Auth.RequireSession)
	customers.POST("", d.CustomerHandler.CreateCustomer)
	customers.GET("", d.CustomerHandler.GetCustomers)
	customers.GET("/:id", d.CustomerHandler.GetCustomer)
	customers.PUT("/:id", d.CustomerHandler.UpdateCustomer)
	customers.DELETE("/:id", d.CustomerHandler.DeleteCustomer)

	products := api.Group("/products", d.Auth.RequireSession)
	products.POST("", d.ProductHandler.CreateProduct)
	products.GET("", d.ProductHandler.GetProducts)
	if d.SearchHandler != nil {
		products.GET("/search", d.SearchHandler.Search)
	}
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.PUT("/:id", d.ProductHandler.UpdateProduct)
	products.POST("/:id/status", d.ProductHandler.ChangeStatus)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct)

	employees := api.Group("/employees", d.Auth.AdminOnly)
	employees.POST("", d.EmployeeHandler.CreateEmployee)
	employees.GET("", d.EmployeeHandler.GetEmployees)
	employees.GET("/:id", d.EmployeeHandler.GetEmployee)
	employees.PUT("/:id", d.EmployeeHandler.UpdateEmployee)
	employees.POST("/:id/password", d.EmployeeHandler.ResetPassword)
	employees.DELETE("/:id", d.EmployeeHandler.DeleteEmployee)
}

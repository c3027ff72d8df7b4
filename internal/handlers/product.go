package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/pawnshop/internal/imagestore"
	"github.com/Skotchmaster/pawnshop/internal/logging"
	"github.com/Skotchmaster/pawnshop/internal/models"
	"github.com/Skotchmaster/pawnshop/internal/mykafka"
	"github.com/Skotchmaster/pawnshop/internal/service/search"
	"github.com/Skotchmaster/pawnshop/internal/transport"
	"github.com/Skotchmaster/pawnshop/internal/util"
	"github.com/Skotchmaster/pawnshop/internal/validation"
)

var transactionTypes = []string{
	models.TransactionPawn,
	models.TransactionSale,
	models.TransactionRedeemed,
	models.TransactionSold,
}

// legal status-change pairs, anything else goes through a full edit
var statusTransitions = map[string]string{
	models.TransactionPawn: models.TransactionRedeemed,
	models.TransactionSale: models.TransactionSold,
}

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
	Images   *imagestore.Store
}

func (h *ProductHandler) indexProduct(c echo.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexProduct(ctx, h.ES, h.Index, p); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index failed", "productID", p.ID, "error", err)
	}
}

func (h *ProductHandler) dropFromIndex(c echo.Context, id uint) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.DeleteProduct(ctx, h.ES, h.Index, id); err != nil {
		logging.FromContext(c.Request().Context()).Error("es delete failed", "productID", id, "error", err)
	}
}

func parseNullDecimal(raw *string, field string, v validation.Violations) decimal.NullDecimal {
	if raw == nil || *raw == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		v[field] = "invalid decimal"
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	params, err := c.FormParams()
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	v := validation.Violations{}
	validation.Required("name", c.FormValue("name"), v)
	validation.Required("category", c.FormValue("category"), v)
	validation.Required("technicalCondition", c.FormValue("technicalCondition"), v)
	validation.Required("dateOfReceipt", c.FormValue("dateOfReceipt"), v)
	validation.OneOf("transactionType", c.FormValue("transactionType"), transactionTypes, v)

	clientRaw := c.FormValue("clientId")
	if clientRaw == "" {
		return errorResponse(c, http.StatusBadRequest, "clientId: required")
	}
	clientID, err := strconv.Atoi(clientRaw)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "clientId: invalid")
	}

	purchasePrice, err := decimal.NewFromString(c.FormValue("purchasePrice"))
	if err != nil {
		v["purchasePrice"] = "invalid decimal"
	}
	salePrice := parseNullDecimal(formValue(params, "salePrice"), "salePrice", v)
	loanValue := parseNullDecimal(formValue(params, "loanValue"), "loanValue", v)
	interestRate := parseNullDecimal(formValue(params, "interestRate"), "interestRate", v)

	if !v.Empty() {
		return errorResponse(c, http.StatusBadRequest, v.First())
	}

	var client models.Customer
	if err := h.DB.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusBadRequest, fmt.Sprintf("customer %d does not exist", clientID))
		}
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	year := parseIntDefault(c.FormValue("yearOfProduction"), 0)

	product := models.Product{
		Name:               c.FormValue("name"),
		Description:        c.FormValue("description"),
		Category:           c.FormValue("category"),
		Brand:              c.FormValue("brand"),
		Model:              c.FormValue("model"),
		SerialNumber:       c.FormValue("serialNumber"),
		YearOfProduction:   year,
		TechnicalCondition: c.FormValue("technicalCondition"),
		PurchasePrice:      purchasePrice,
		SalePrice:          salePrice,
		LoanValue:          loanValue,
		InterestRate:       interestRate,
		TransactionType:    c.FormValue("transactionType"),
		DateOfReceipt:      c.FormValue("dateOfReceipt"),
		RedemptionDeadline: c.FormValue("redemptionDeadline"),
		TransactionNotes:   c.FormValue("transactionNotes"),
		AdditionalNotes:    c.FormValue("additionalNotes"),
		ClientID:           client.ID,
	}

	images, err := h.storeUploads(c)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}
	product.Images = images

	if err := h.DB.Create(&product).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	h.indexProduct(c, &product)
	publish(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"clientID":  product.ClientID,
	})

	return c.JSON(http.StatusCreated, product)
}

// storeUploads writes every file under the repeated "images" field.
func (h *ProductHandler) storeUploads(c echo.Context) ([]models.ProductImage, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// plain form posts carry no files
		return nil, nil
	}

	files := form.File["images"]
	images := make([]models.ProductImage, 0, len(files))
	for _, file := range files {
		name, err := h.Images.Save(file)
		if err != nil {
			return nil, err
		}
		images = append(images, models.ProductImage{Filename: name})
	}
	return images, nil
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	query := h.DB.Model(&models.Product{})
	switch c.QueryParam("archive") {
	case "true":
		query = query.Where("transaction_type IN ?", []string{models.TransactionRedeemed, models.TransactionSold})
	case "false":
		query = query.Where("transaction_type IN ?", []string{models.TransactionPawn, models.TransactionSale})
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	var items []models.Product
	if err := query.Preload("Images").
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var product models.Product
	if err := h.DB.Preload("Client").Preload("Images").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("product %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	params, err := c.FormParams()
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	var product models.Product
	if err := h.DB.Preload("Images").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("product %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	v := validation.Violations{}
	if raw := formValue(params, "transactionType"); raw != nil {
		validation.OneOf("transactionType", *raw, transactionTypes, v)
	}
	if raw := formValue(params, "purchasePrice"); raw != nil {
		if d, err := decimal.NewFromString(*raw); err != nil {
			v["purchasePrice"] = "invalid decimal"
		} else {
			product.PurchasePrice = d
		}
	}
	salePrice := formValue(params, "salePrice")
	loanValue := formValue(params, "loanValue")
	interestRate := formValue(params, "interestRate")
	if salePrice != nil {
		product.SalePrice = parseNullDecimal(salePrice, "salePrice", v)
	}
	if loanValue != nil {
		product.LoanValue = parseNullDecimal(loanValue, "loanValue", v)
	}
	if interestRate != nil {
		product.InterestRate = parseNullDecimal(interestRate, "interestRate", v)
	}

	var newClient *models.Customer
	if raw := formValue(params, "clientId"); raw != nil {
		clientID, convErr := strconv.Atoi(*raw)
		if convErr != nil {
			return errorResponse(c, http.StatusBadRequest, "clientId: invalid")
		}
		var client models.Customer
		if err := h.DB.First(&client, clientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorResponse(c, http.StatusBadRequest, fmt.Sprintf("customer %d does not exist", clientID))
			}
			return errorResponse(c, http.StatusInternalServerError, err.Error())
		}
		newClient = &client
	}

	if !v.Empty() {
		return errorResponse(c, http.StatusBadRequest, v.First())
	}

	applyProductForm(&product, params)
	if newClient != nil {
		product.ClientID = newClient.ID
	}

	// fresh uploads replace the existing image set
	if form, ferr := c.MultipartForm(); ferr == nil && len(form.File["images"]) > 0 {
		old := product.Images
		images, err := h.storeUploads(c)
		if err != nil {
			return errorResponse(c, http.StatusInternalServerError, err.Error())
		}
		if err := h.DB.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return errorResponse(c, http.StatusInternalServerError, err.Error())
		}
		for i := range images {
			images[i].ProductID = product.ID
		}
		product.Images = images
		for _, img := range old {
			if err := h.Images.Remove(img.Filename); err != nil {
				logging.FromContext(c.Request().Context()).Error("image cleanup failed", "file", img.Filename, "error", err)
			}
		}
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	h.indexProduct(c, &product)
	publish(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
	})

	return c.JSON(http.StatusOK, product)
}

func applyProductForm(product *models.Product, params map[string][]string) {
	set := func(key string, dst *string) {
		if raw := formValue(params, key); raw != nil {
			*dst = *raw
		}
	}
	set("name", &product.Name)
	set("description", &product.Description)
	set("category", &product.Category)
	set("brand", &product.Brand)
	set("model", &product.Model)
	set("serialNumber", &product.SerialNumber)
	set("technicalCondition", &product.TechnicalCondition)
	set("transactionType", &product.TransactionType)
	set("dateOfReceipt", &product.DateOfReceipt)
	set("redemptionDeadline", &product.RedemptionDeadline)
	set("transactionNotes", &product.TransactionNotes)
	set("additionalNotes", &product.AdditionalNotes)
	if raw := formValue(params, "yearOfProduction"); raw != nil {
		product.YearOfProduction = parseIntDefault(*raw, product.YearOfProduction)
	}
}

// ChangeStatus closes a transaction: pawn items get redeemed, sale items
// get sold. Any other move is rejected.
func (h *ProductHandler) ChangeStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var req transport.StatusChangeRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err.Error())
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, fmt.Sprintf("product %d not found", id))
		}
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	next, ok := statusTransitions[product.TransactionType]
	if !ok || next != req.TransactionType {
		return errorResponse(c, http.StatusBadRequest,
			fmt.Sprintf("cannot change %s to %s", product.TransactionType, req.TransactionType))
	}

	product.TransactionType = next
	if err := h.DB.Save(&product).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	h.indexProduct(c, &product)
	publish(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":      "product_status_changed",
		"productID": product.ID,
		"status":    product.TransactionType,
	})

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var images []models.ProductImage
	if err := h.DB.Where("product_id = ?", id).Find(&images).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	result := h.DB.Delete(&models.Product{}, id)
	if result.Error != nil {
		return errorResponse(c, http.StatusInternalServerError, result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errorResponse(c, http.StatusNotFound, fmt.Sprintf("product %d not found", id))
	}

	if err := h.DB.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}
	for _, img := range images {
		if err := h.Images.Remove(img.Filename); err != nil {
			logging.FromContext(c.Request().Context()).Error("image cleanup failed", "file", img.Filename, "error", err)
		}
	}

	h.dropFromIndex(c, uint(id))
	publish(c, h.Producer, "product_events", fmt.Sprint(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("product %d deleted", id),
	})
}

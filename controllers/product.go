// controllers/product.go
package controllers

import (
	"errors"
	"net/http"

	"pores-backend/config"
	"pores-backend/models"
	"pores-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProductInput defines the expected JSON structure for creating a product
type CreateProductInput struct {
	Name             string  `json:"name" binding:"required"`
	Category         string  `json:"category"`
	Barcode          string  `json:"barcode"`
	Quantity         int     `json:"quantity" binding:"min=0"`
	CostPrice        float64 `json:"costPrice" binding:"min=0"`
	SellingPrice     float64 `json:"sellingPrice" binding:"required,min=0"`
	UnitsPerBulk     int     `json:"unitsPerBulk" binding:"min=0"`
	BulkSellingPrice float64 `json:"bulkSellingPrice" binding:"min=0"`
	LowStockAlert    *int    `json:"lowStockAlert"`
}

// UpdateProductInput defines the expected JSON structure for updating a product
type UpdateProductInput struct {
	Name             *string  `json:"name"`
	Category         *string  `json:"category"`
	Barcode          *string  `json:"barcode"`
	Quantity         *int     `json:"quantity"`
	CostPrice        *float64 `json:"costPrice"`
	SellingPrice     *float64 `json:"sellingPrice"`
	UnitsPerBulk     *int     `json:"unitsPerBulk"`
	BulkSellingPrice *float64 `json:"bulkSellingPrice"`
	LowStockAlert    *int     `json:"lowStockAlert"`
	IsActive         *bool    `json:"isActive"`
}

// CreateProduct creates a new product for the store
func CreateProduct(c *gin.Context) {
	storeID, exists := c.Get("storeId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Store ID not found in context")
		return
	}

	storeUUID, err := uuid.Parse(storeID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	product := models.Product{
		StoreID:          storeUUID,
		Name:             input.Name,
		Category:         input.Category,
		Barcode:          input.Barcode,
		Quantity:         input.Quantity,
		CostPrice:        input.CostPrice,
		SellingPrice:     input.SellingPrice,
		UnitsPerBulk:     input.UnitsPerBulk,
		BulkSellingPrice: input.BulkSellingPrice,
	}

	if input.Category == "" {
		product.Category = "General"
	}
	if input.LowStockAlert != nil {
		product.LowStockAlert = *input.LowStockAlert
	} else {
		product.LowStockAlert = 5
	}

	if err := config.DB.Create(&product).Error; err != nil {
		if config.IsDBUnavailable(err) {
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		}
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetProducts retrieves all products for the store
func GetProducts(c *gin.Context) {
	storeID, exists := c.Get("storeId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Store ID not found in context")
		return
	}

	storeUUID, err := uuid.Parse(storeID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	query := config.DB.Where("store_id = ?", storeUUID)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var products []models.Product
	if err := query.Order("name ASC").Find(&products).Error; err != nil {
		if config.IsDBUnavailable(err) {
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		}
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct retrieves a specific product by ID
func GetProduct(c *gin.Context) {
	storeID, exists := c.Get("storeId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Store ID not found in context")
		return
	}

	storeUUID, err := uuid.Parse(storeID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var product models.Product
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, productUUID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct updates an existing product
func UpdateProduct(c *gin.Context) {
	storeID, exists := c.Get("storeId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Store ID not found in context")
		return
	}

	storeUUID, err := uuid.Parse(storeID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var product models.Product
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, productUUID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Barcode != nil {
		product.Barcode = *input.Barcode
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Quantity cannot be negative")
			return
		}
		product.Quantity = *input.Quantity
	}
	if input.CostPrice != nil {
		product.CostPrice = *input.CostPrice
	}
	if input.SellingPrice != nil {
		product.SellingPrice = *input.SellingPrice
	}
	if input.UnitsPerBulk != nil {
		product.UnitsPerBulk = *input.UnitsPerBulk
	}
	if input.BulkSellingPrice != nil {
		product.BulkSellingPrice = *input.BulkSellingPrice
	}
	if input.LowStockAlert != nil {
		product.LowStockAlert = *input.LowStockAlert
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct soft deletes a product
func DeleteProduct(c *gin.Context) {
	storeID, exists := c.Get("storeId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Store ID not found in context")
		return
	}

	storeUUID, err := uuid.Parse(storeID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	productUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var product models.Product
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, productUUID).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Product not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if err := config.DB.Delete(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// GetLowStockProducts lists products at or below their low stock threshold
func GetLowStockProducts(c *gin.Context) {
	storeID, exists := c.Get("storeId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Store ID not found in context")
		return
	}

	storeUUID, err := uuid.Parse(storeID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid store ID format")
		return
	}

	var products []models.Product
	if err := config.DB.Where("store_id = ? AND quantity <= low_stock_alert AND is_active = ?", storeUUID, true).
		Order("quantity ASC").
		Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve low stock products")
		return
	}

	c.JSON(http.StatusOK, products)
}

// controllers/onboarding.go
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

// OnboardingSelection is one chosen catalog template with optional
// overrides of the suggested prices and opening stock.
type OnboardingSelection struct {
	CatalogItemID uuid.UUID `json:"catalogItemId" binding:"required"`
	CostPrice     *float64  `json:"costPrice"`
	SellingPrice  *float64  `json:"sellingPrice"`
	Quantity      *int      `json:"quantity"`
}

type OnboardingSetupInput struct {
	StoreType  string                `json:"storeType" binding:"required"`
	Selections []OnboardingSelection `json:"selections"`
	Currency   string                `json:"currency"`
}

// SetupStore completes onboarding: stamps the store type, seeds the
// inventory from the selected catalog templates, and marks setup done.
func SetupStore(c *gin.Context) {
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

	var input OnboardingSetupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var store models.Store
	if err := config.DB.First(&store, "id = ?", storeUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Store not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if store.SetupCompleted {
		utils.RespondWithError(c, http.StatusBadRequest, "Store setup already completed")
		return
	}

	created := 0
	for _, sel := range input.Selections {
		var item models.CatalogItem
		if err := config.DB.First(&item, "id = ?", sel.CatalogItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Catalog item not found: "+sel.CatalogItemID.String())
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}

		product := models.Product{
			StoreID:          storeUUID,
			Name:             item.Name,
			Category:         item.Category,
			Quantity:         item.DefaultQuantity,
			CostPrice:        item.SuggestedCostPrice,
			SellingPrice:     item.SuggestedSellingPrice,
			UnitsPerBulk:     item.UnitsPerBulk,
			BulkSellingPrice: item.BulkSellingPrice,
			LowStockAlert:    5,
		}
		if sel.CostPrice != nil {
			product.CostPrice = *sel.CostPrice
		}
		if sel.SellingPrice != nil {
			product.SellingPrice = *sel.SellingPrice
		}
		if sel.Quantity != nil {
			product.Quantity = *sel.Quantity
		}

		if err := config.DB.Create(&product).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product from catalog item")
			return
		}
		created++
	}

	updates := map[string]interface{}{
		"store_type":      input.StoreType,
		"setup_completed": true,
	}
	if input.Currency != "" {
		updates["currency"] = input.Currency
	}
	if err := config.DB.Model(&store).Updates(updates).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to complete store setup")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Store setup completed",
		"productsCreated": created,
	})
}

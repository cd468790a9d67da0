// controllers/catalog.go
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pores-backend/config"
	"pores-backend/models"
	"pores-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const catalogCacheTTL = 10 * time.Minute

type CreateCatalogItemInput struct {
	KeeperPassword        string  `json:"keeperPassword" binding:"required"`
	Name                  string  `json:"name" binding:"required"`
	Category              string  `json:"category"`
	StoreType             string  `json:"storeType" binding:"required"`
	SuggestedCostPrice    float64 `json:"suggestedCostPrice" binding:"min=0"`
	SuggestedSellingPrice float64 `json:"suggestedSellingPrice" binding:"min=0"`
	DefaultQuantity       int     `json:"defaultQuantity" binding:"min=0"`
	UnitsPerBulk          int     `json:"unitsPerBulk" binding:"min=0"`
	BulkSellingPrice      float64 `json:"bulkSellingPrice" binding:"min=0"`
	IsPopular             bool    `json:"isPopular"`
}

// GetCatalog lists catalog item templates, optionally filtered by store
// type. Served from the redis cache when hot; stale cache copies are
// served when the database is unreachable.
func GetCatalog(c *gin.Context) {
	storeType := c.Query("storeType")
	cacheKey := "catalog:" + storeType

	if cached := config.CacheGet(c.Request.Context(), cacheKey); cached != "" {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	query := config.DB.Model(&models.CatalogItem{})
	if storeType != "" {
		query = query.Where("store_type = ?", storeType)
	}

	var items []models.CatalogItem
	if err := query.Order("is_popular DESC, name ASC").Find(&items).Error; err != nil {
		if config.IsDBUnavailable(err) {
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve catalog")
		}
		return
	}

	if payload, err := json.Marshal(items); err == nil {
		config.CacheSet(c.Request.Context(), cacheKey, string(payload), catalogCacheTTL)
	}

	c.JSON(http.StatusOK, items)
}

// GetStoreTypes lists the onboarding store type picklist
func GetStoreTypes(c *gin.Context) {
	var types []models.StoreTypeDef
	if err := config.DB.Order("label ASC").Find(&types).Error; err != nil {
		if config.IsDBUnavailable(err) {
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve store types")
		}
		return
	}

	c.JSON(http.StatusOK, types)
}

// CreateCatalogItem adds a catalog template (admin panel). Catalog items
// are global reference data, so writes require the keeper password on top
// of the bearer token enforced at the route.
func CreateCatalogItem(c *gin.Context) {
	storeID, exists := c.Get("storeId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Store ID not found in context")
		return
	}

	var input CreateCatalogItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var store models.Store
	if err := config.DB.First(&store, "id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Store not found")
		} else if config.IsDBUnavailable(err) {
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if store.Password == "" || !utils.CheckPasswordHash(input.KeeperPassword, store.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid keeper password")
		return
	}

	item := models.CatalogItem{
		Name:                  input.Name,
		Category:              input.Category,
		StoreType:             input.StoreType,
		SuggestedCostPrice:    input.SuggestedCostPrice,
		SuggestedSellingPrice: input.SuggestedSellingPrice,
		DefaultQuantity:       input.DefaultQuantity,
		UnitsPerBulk:          input.UnitsPerBulk,
		BulkSellingPrice:      input.BulkSellingPrice,
		IsPopular:             input.IsPopular,
	}
	if item.Category == "" {
		item.Category = "General"
	}

	if err := config.DB.Create(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create catalog item")
		return
	}

	// Invalidate the cached listing for this store type
	if config.Cache != nil {
		config.Cache.Del(c.Request.Context(), "catalog:"+item.StoreType, "catalog:")
	}

	c.JSON(http.StatusCreated, item)
}

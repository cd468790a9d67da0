package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"pores-backend/config"
	"pores-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCRUD(t *testing.T) {
	setupTestDB(t)
	storeID := uuid.New()
	r := testRouter(storeID)

	w := doJSON(t, r, http.MethodPost, "/api/products", gin.H{
		"name":         "Soda 500ml",
		"quantity":     50,
		"costPrice":    180,
		"sellingPrice": 250,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product models.Product
	require.NoError(t, config.DB.Where("store_id = ?", storeID).First(&product).Error)
	assert.Equal(t, "General", product.Category)
	assert.Equal(t, 5, product.LowStockAlert)

	newPrice := 270.0
	upd := doJSON(t, r, http.MethodPut, "/api/products/"+product.ID.String(), gin.H{
		"sellingPrice": newPrice,
	})
	require.Equal(t, http.StatusOK, upd.Code)

	require.NoError(t, config.DB.First(&product, "id = ?", product.ID).Error)
	assert.Equal(t, 270.0, product.SellingPrice)
	assert.Equal(t, 180.0, product.CostPrice) // untouched fields survive

	del := doJSON(t, r, http.MethodDelete, "/api/products/"+product.ID.String(), nil)
	require.Equal(t, http.StatusOK, del.Code)

	// Soft deleted, so the default scope no longer sees it
	var count int64
	config.DB.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestProductsAreTenantScoped(t *testing.T) {
	setupTestDB(t)
	storeA := uuid.New()
	storeB := uuid.New()

	seedProduct(t, storeA, "Soda 500ml", 50, 180, 250, 0)
	seedProduct(t, storeB, "Bread", 10, 45, 60, 0)

	w := doJSON(t, testRouter(storeA), http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Soda 500ml", products[0].Name)

	other := doJSON(t, testRouter(storeB), http.MethodGet, "/api/products/"+products[0].ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, other.Code)
}

func TestGetProductsSearchIsCaseInsensitive(t *testing.T) {
	setupTestDB(t)
	storeID := uuid.New()
	r := testRouter(storeID)

	seedProduct(t, storeID, "Soda 500ml", 50, 180, 250, 0)
	seedProduct(t, storeID, "Bread", 10, 45, 60, 0)

	w := doJSON(t, r, http.MethodGet, "/api/products?search=SODA", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Soda 500ml", products[0].Name)
}

func TestMalformedStoreIDIsBadRequest(t *testing.T) {
	setupTestDB(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("storeId", "not-a-uuid")
		c.Next()
	})
	r.GET("/api/products", GetProducts)

	w := doJSON(t, r, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLowStockProducts(t *testing.T) {
	setupTestDB(t)
	storeID := uuid.New()
	r := testRouter(storeID)

	seedProduct(t, storeID, "Matches", 3, 5, 10, 0)
	seedProduct(t, storeID, "Sugar 1kg", 40, 100, 130, 0)

	w := doJSON(t, r, http.MethodGet, "/api/products/low-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Matches", products[0].Name)
}

func TestUpdateProductRejectsNegativeQuantity(t *testing.T) {
	setupTestDB(t)
	storeID := uuid.New()
	r := testRouter(storeID)

	product := seedProduct(t, storeID, "Soda 500ml", 50, 180, 250, 0)

	w := doJSON(t, r, http.MethodPut, "/api/products/"+product.ID.String(), gin.H{
		"quantity": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"pores-backend/config"
	"pores-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points config.DB at a fresh in-memory sqlite database.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Store{},
		&models.Worker{},
		&models.Product{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Credit{},
		&models.CreditPayment{},
		&models.CatalogItem{},
		&models.StoreTypeDef{},
		&models.ReminderLog{},
	))

	config.DB = db
}

// testRouter builds the API surface with the store identity pre-resolved,
// standing in for the auth middleware.
func testRouter(storeID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("storeId", storeID.String())
		c.Next()
	})

	api := r.Group("/api")
	{
		api.POST("/auth/verify-pin", VerifyPin)
		api.POST("/auth/verify-keeper", VerifyKeeper)

		api.POST("/products", CreateProduct)
		api.GET("/products", GetProducts)
		api.GET("/products/low-stock", GetLowStockProducts)
		api.GET("/products/:id", GetProduct)
		api.PUT("/products/:id", UpdateProduct)
		api.DELETE("/products/:id", DeleteProduct)

		api.POST("/sales", CreateSale)
		api.GET("/sales", GetSales)
		api.GET("/sales/:id", GetSale)

		api.POST("/credits", CreateCredit)
		api.GET("/credits", GetCredits)
		api.GET("/credits/:id", GetCredit)
		api.POST("/credits/:id/payment", ApplyCreditPayment)

		api.GET("/workers", GetWorkers)
		api.POST("/workers", AddWorker)
		api.PUT("/workers/:id", UpdateWorker)
		api.DELETE("/workers/:id", DeleteWorker)

		api.GET("/catalog", GetCatalog)
		api.GET("/catalog/store-types", GetStoreTypes)
		api.POST("/catalog", CreateCatalogItem)

		api.POST("/onboarding/setup", SetupStore)

		rc := ReportController{}
		api.GET("/reports", rc.GetReportAnalytics)
	}

	return r
}

// doJSON performs one request against the router and returns the recorder.
func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// seedWorker inserts an active worker for the store.
func seedWorker(t *testing.T, storeID uuid.UUID, name, pin string) models.Worker {
	t.Helper()
	worker := models.Worker{
		StoreID:  storeID,
		Name:     name,
		Pin:      pin,
		Role:     "cashier",
		IsActive: true,
	}
	require.NoError(t, config.DB.Create(&worker).Error)
	return worker
}

// seedProduct inserts a product for the store.
func seedProduct(t *testing.T, storeID uuid.UUID, name string, quantity int, cost, selling float64, unitsPerBulk int) models.Product {
	t.Helper()
	product := models.Product{
		StoreID:       storeID,
		Name:          name,
		Category:      "General",
		Quantity:      quantity,
		CostPrice:     cost,
		SellingPrice:  selling,
		UnitsPerBulk:  unitsPerBulk,
		LowStockAlert: 5,
		IsActive:      true,
	}
	require.NoError(t, config.DB.Create(&product).Error)
	return product
}

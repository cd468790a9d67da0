package controllers

import (
	"net/http"
	"testing"

	"pores-backend/config"
	"pores-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSaleTotals(t *testing.T) {
	items := []SaleItemInput{
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: 250, CostPrice: 180},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: 600, CostPrice: 420},
	}

	totalPrice, totalCost := computeSaleTotals(items)
	assert.Equal(t, 1100.0, totalPrice)
	assert.Equal(t, 780.0, totalCost)
}

func TestSalePaymentStatus(t *testing.T) {
	tests := []struct {
		name       string
		totalPrice float64
		amountPaid float64
		isPartial  bool
		want       string
	}{
		{"fully paid", 1100, 1100, false, models.SaleCompleted},
		{"overpaid", 1100, 1200, false, models.SaleCompleted},
		{"short with partial intent", 1100, 1000, true, models.SalePartial},
		{"short without partial intent", 1100, 1000, false, models.SalePending},
		{"nothing paid", 1100, 0, false, models.SalePending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, salePaymentStatus(tt.totalPrice, tt.amountPaid, tt.isPartial))
		})
	}
}

func TestSaleRemainingBalance(t *testing.T) {
	assert.Equal(t, 100.0, saleRemainingBalance(1100, 1000))
	assert.Equal(t, 0.0, saleRemainingBalance(1100, 1100))
	assert.Equal(t, 0.0, saleRemainingBalance(1100, 1500))
}

func TestCreateSalePartialWithCredit(t *testing.T) {
	setupTestDB(t)
	storeID := uuid.New()
	r := testRouter(storeID)

	worker := seedWorker(t, storeID, "Amina", "1234")
	soda := seedProduct(t, storeID, "Soda 500ml", 50, 180, 250, 0)
	rice := seedProduct(t, storeID, "Rice 2kg", 20, 420, 600, 0)

	w := doJSON(t, r, http.MethodPost, "/api/sales", gin.H{
		"workerId": worker.ID.String(),
		"items": []gin.H{
			{"productId": soda.ID, "quantity": 2, "unitPrice": 250, "costPrice": 180},
			{"productId": rice.ID, "quantity": 1, "unitPrice": 600, "costPrice": 420},
		},
		"amountPaid":   1000,
		"isPartial":    true,
		"customerName": "Joseph",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sale models.Sale
	require.NoError(t, config.DB.Preload("Items").Where("store_id = ?", storeID).First(&sale).Error)
	assert.Equal(t, 1100.0, sale.TotalPrice)
	assert.Equal(t, 780.0, sale.TotalCost)
	assert.Equal(t, 100.0, sale.RemainingBalance)
	assert.Equal(t, models.SalePartial, sale.PaymentStatus)
	assert.Equal(t, "Amina", sale.WorkerName)
	assert.NotEmpty(t, sale.ReceiptNumber)
	assert.Len(t, sale.Items, 2)

	// Inventory decremented per line
	var gotSoda, gotRice models.Product
	require.NoError(t, config.DB.First(&gotSoda, "id = ?", soda.ID).Error)
	require.NoError(t, config.DB.First(&gotRice, "id = ?", rice.ID).Error)
	assert.Equal(t, 48, gotSoda.Quantity)
	assert.Equal(t, 19, gotRice.Quantity)

	// Shortfall opened a credit for the named customer
	var credit models.Credit
	require.NoError(t, config.DB.Where("store_id = ?", storeID).First(&credit).Error)
	assert.Equal(t, "Joseph", credit.CustomerName)
	assert.Equal(t, 100.0, credit.TotalOwed)
	assert.Equal(t, 100.0, credit.RemainingBalance)
	assert.Equal(t, models.CreditPending, credit.PaymentStatus)
	require.NotNil(t, credit.SaleID)
	assert.Equal(t, sale.ID, *credit.SaleID)
}

func TestCreateSalePendingWithoutPartialFlag(t *testing.T) {
	setupTestDB(t)
	storeID := uuid.New()
	r := testRouter(storeID)

	worker := seedWorker(t, storeID, "Amina", "1234")
	soda := seedProduct(t, storeID, "Soda 500ml", 50, 180, 250, 0)

	w := doJSON(t, r, http.MethodPost, "/api/sales", gin.H{
		"workerId": worker.ID.String(),
		"items": []gin.H{
			{"productId": soda.ID, "quantity": 2, "unitPrice": 250, "costPrice": 180},
		},
		"amountPaid": 100,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sale models.Sale
	require.NoError(t, config.DB.Where("store_id = ?", storeID).First(&sale).Error)
	assert.Equal(t, models.SalePending, sale.PaymentStatus)
	assert.Equal(t, 400.0, sale.RemainingBalance)

	// No customer name, so no credit is opened
	var creditCount int64
	config.DB.Model(&models.Credit{}).Where("store_id = ?", storeID).Count(&creditCount)
	assert.Equal(t, int64(0), creditCount)
}

func TestCreateSaleBulkDecrementsByUnits(t *testing.T) {
	setupTestDB(t)
	storeID := uuid.New()
	r := testRouter(storeID)

	worker := seedWorker(t, storeID, "Amina", "1234")
	crate := seedProduct(t, storeID, "Soda crate", 120, 180, 250, 24)

	w := doJSON(t, r, http.MethodPost, "/api/sales", gin.H{
		"workerId": worker.ID.String(),
		"items": []gin.H{
			{"productId": crate.ID, "quantity": 2, "unitPrice": 5500, "costPrice": 4320, "sellByBulk": true},
		},
		"amountPaid": 11000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got models.Product
	require.NoError(t, config.DB.First(&got, "id = ?", crate.ID).Error)
	assert.Equal(t, 120-2*24, got.Quantity)

	var sale models.Sale
	require.NoError(t, config.DB.Where("store_id = ?", storeID).First(&sale).Error)
	assert.Equal(t, models.SaleCompleted, sale.PaymentStatus)
	assert.Equal(t, 0.0, sale.RemainingBalance)
}

func TestCreateSaleRejectsEmptyCart(t *testing.T) {
	setupTestDB(t)
	storeID := uuid.New()
	r := testRouter(storeID)

	worker := seedWorker(t, storeID, "Amina", "1234")

	w := doJSON(t, r, http.MethodPost, "/api/sales", gin.H{
		"workerId":   worker.ID.String(),
		"items":      []gin.H{},
		"amountPaid": 100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSaleRoundTrip(t *testing.T) {
	setupTestDB(t)
	storeID := uuid.New()
	r := testRouter(storeID)

	worker := seedWorker(t, storeID, "Amina", "1234")
	soda := seedProduct(t, storeID, "Soda 500ml", 50, 180, 250, 0)

	w := doJSON(t, r, http.MethodPost, "/api/sales", gin.H{
		"workerId": worker.ID.String(),
		"items": []gin.H{
			{"productId": soda.ID, "quantity": 3, "unitPrice": 250, "costPrice": 180},
		},
		"amountPaid": 750,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var sale models.Sale
	require.NoError(t, config.DB.Where("store_id = ?", storeID).First(&sale).Error)

	// Re-fetching after no mutation returns identical totals
	for i := 0; i < 2; i++ {
		var got models.Sale
		require.NoError(t, config.DB.Preload("Items").First(&got, "id = ?", sale.ID).Error)
		assert.Equal(t, sale.TotalPrice, got.TotalPrice)
		assert.Equal(t, sale.AmountPaid, got.AmountPaid)
		assert.Equal(t, sale.RemainingBalance, got.RemainingBalance)
	}

	resp := doJSON(t, r, http.MethodGet, "/api/sales/"+sale.ID.String(), nil)
	assert.Equal(t, http.StatusOK, resp.Code)
}

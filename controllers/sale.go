// controllers/sale.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"pores-backend/config"
	"pores-backend/models"
	"pores-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaleItemInput defines the structure for one cart line. Prices are
// snapshotted by the caller at time of sale, decoupled from live product
// prices.
type SaleItemInput struct {
	ProductID  uuid.UUID `json:"productId" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
	UnitPrice  float64   `json:"unitPrice" binding:"min=0"`
	CostPrice  float64   `json:"costPrice" binding:"min=0"`
	SellByBulk bool      `json:"sellByBulk"`
}

// CreateSaleInput defines the expected JSON structure for recording a sale
type CreateSaleInput struct {
	WorkerID      string          `json:"workerId" binding:"required"`
	Items         []SaleItemInput `json:"items" binding:"required,min=1"`
	AmountPaid    float64         `json:"amountPaid" binding:"min=0"`
	IsPartial     bool            `json:"isPartial"`
	PaymentMethod string          `json:"paymentMethod"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	SaleDate      *time.Time      `json:"saleDate"`
	ClientRef     string          `json:"clientRef"`
}

// computeSaleTotals sums snapshot prices over the cart
func computeSaleTotals(items []SaleItemInput) (totalPrice, totalCost float64) {
	for _, item := range items {
		totalPrice += item.UnitPrice * float64(item.Quantity)
		totalCost += item.CostPrice * float64(item.Quantity)
	}
	return totalPrice, totalCost
}

// salePaymentStatus applies the settlement ladder: completed when fully
// paid, partial only when the caller flags partial intent, else pending.
func salePaymentStatus(totalPrice, amountPaid float64, isPartial bool) string {
	if amountPaid >= totalPrice {
		return models.SaleCompleted
	}
	if isPartial {
		return models.SalePartial
	}
	return models.SalePending
}

// saleRemainingBalance never goes negative; overpayment on a sale is kept
// as change, not debt.
func saleRemainingBalance(totalPrice, amountPaid float64) float64 {
	if balance := totalPrice - amountPaid; balance > 0 {
		return balance
	}
	return 0
}

// CreateSale settles a cart: persists the sale with its items, decrements
// inventory, and opens a credit for any shortfall when a customer name is
// given. The steps run sequentially; a failure partway through is reported
// but not rolled back.
func CreateSale(c *gin.Context) {
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

	var input CreateSaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Resolve the worker; the keeper sentinel bypasses the worker table
	workerName := ""
	workerUUID := uuid.Nil
	if input.WorkerID == models.KeeperSentinel {
		workerName = models.KeeperSentinel
	} else {
		workerUUID, err = uuid.Parse(input.WorkerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid worker ID format")
			return
		}
		var worker models.Worker
		if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, workerUUID).
			First(&worker).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Worker not found")
			} else if config.IsDBUnavailable(err) {
				utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
		workerName = worker.Name
	}

	totalPrice, totalCost := computeSaleTotals(input.Items)
	status := salePaymentStatus(totalPrice, input.AmountPaid, input.IsPartial)
	remaining := saleRemainingBalance(totalPrice, input.AmountPaid)

	saleDate := time.Now()
	if input.SaleDate != nil {
		saleDate = *input.SaleDate
	}

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	var saleItems []models.SaleItem
	for _, item := range input.Items {
		saleItems = append(saleItems, models.SaleItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			CostPrice:  item.CostPrice,
			SellByBulk: item.SellByBulk,
			Subtotal:   item.UnitPrice * float64(item.Quantity),
		})
	}

	// Snapshot product names onto the line items
	for i := range saleItems {
		var product models.Product
		if err := config.DB.Select("name, units_per_bulk").
			Where("store_id = ? AND id = ?", storeUUID, saleItems[i].ProductID).
			First(&product).Error; err == nil {
			saleItems[i].ProductName = product.Name
		}
	}

	sale := models.Sale{
		StoreID:          storeUUID,
		WorkerID:         workerUUID,
		WorkerName:       workerName,
		SaleDate:         saleDate,
		TotalPrice:       totalPrice,
		TotalCost:        totalCost,
		AmountPaid:       input.AmountPaid,
		RemainingBalance: remaining,
		PaymentStatus:    status,
		PaymentMethod:    paymentMethod,
		CustomerName:     input.CustomerName,
		CustomerPhone:    input.CustomerPhone,
		ClientRef:        input.ClientRef,
		Items:            saleItems,
	}

	sale.ReceiptNumber = "RCP-" + saleDate.Format("20060102") + "-" + utils.GenerateRandomString(6)

	// Persist sale with nested items in one write
	if err := config.DB.Create(&sale).Error; err != nil {
		if config.IsDBUnavailable(err) {
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create sale")
		}
		return
	}

	// Decrement inventory per line; bulk lines consume UnitsPerBulk units
	// each. Atomic counter updates, but no reservation check below zero.
	for _, item := range input.Items {
		units := item.Quantity
		if item.SellByBulk {
			var product models.Product
			if err := config.DB.Select("units_per_bulk").
				Where("store_id = ? AND id = ?", storeUUID, item.ProductID).
				First(&product).Error; err == nil && product.UnitsPerBulk > 0 {
				units = item.Quantity * product.UnitsPerBulk
			}
		}
		if err := config.DB.Model(&models.Product{}).
			Where("store_id = ? AND id = ?", storeUUID, item.ProductID).
			Update("quantity", gorm.Expr("quantity - ?", units)).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Sale recorded but inventory update failed")
			return
		}
	}

	// Open a credit for the shortfall when the customer is known
	if remaining > 0 && input.CustomerName != "" {
		credit := models.Credit{
			StoreID:          storeUUID,
			CustomerName:     input.CustomerName,
			CustomerPhone:    input.CustomerPhone,
			SaleID:           &sale.ID,
			TotalOwed:        remaining,
			TotalPaid:        0,
			RemainingBalance: remaining,
			PaymentStatus:    models.CreditPending,
		}
		if err := config.DB.Create(&credit).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Sale recorded but credit creation failed")
			return
		}
	}

	c.JSON(http.StatusCreated, sale)
}

// GetSales retrieves sales for the store, optionally within a date window
func GetSales(c *gin.Context) {
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

	query := config.DB.Preload("Items").Where("store_id = ?", storeUUID)

	if start := c.Query("start"); start != "" {
		if t, err := time.Parse("2006-01-02", start); err == nil {
			query = query.Where("sale_date >= ?", utils.BeginningOfDay(t))
		}
	}
	if end := c.Query("end"); end != "" {
		if t, err := time.Parse("2006-01-02", end); err == nil {
			query = query.Where("sale_date < ?", utils.BeginningOfDay(t).AddDate(0, 0, 1))
		}
	}

	var sales []models.Sale
	if err := query.Order("sale_date DESC").Find(&sales).Error; err != nil {
		if config.IsDBUnavailable(err) {
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sales")
		}
		return
	}

	c.JSON(http.StatusOK, sales)
}

// GetSale retrieves a specific sale by ID
func GetSale(c *gin.Context) {
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

	saleUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid sale ID format")
		return
	}

	var sale models.Sale
	if err := config.DB.Preload("Items").
		Where("store_id = ? AND id = ?", storeUUID, saleUUID).
		First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Sale not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, sale)
}

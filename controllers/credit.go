// controllers/credit.go
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

// CreateCreditInput defines the expected JSON structure for opening a credit
type CreateCreditInput struct {
	CustomerName  string     `json:"customerName" binding:"required"`
	CustomerPhone string     `json:"customerPhone"`
	SaleID        *uuid.UUID `json:"saleId"`
	TotalOwed     float64    `json:"totalOwed" binding:"required,gt=0"`
}

// ApplyPaymentInput defines the expected JSON structure for a credit payment
type ApplyPaymentInput struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"paymentMethod"`
	WorkerID      string  `json:"workerId" binding:"required"` // worker id or "keeper"
}

// applyPayment splits a tendered amount into the applied portion and the
// overpaid excess against an outstanding balance.
func applyPayment(amount, remainingBalance float64) (applied, overpaid float64) {
	applied = amount
	if applied > remainingBalance {
		applied = remainingBalance
	}
	return applied, amount - applied
}

// CreateCredit opens a customer debt record directly (not via a sale)
func CreateCredit(c *gin.Context) {
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

	var input CreateCreditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.CustomerPhone != "" && !utils.ValidatePhone(input.CustomerPhone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer phone number")
		return
	}

	credit := models.Credit{
		StoreID:          storeUUID,
		CustomerName:     input.CustomerName,
		CustomerPhone:    input.CustomerPhone,
		SaleID:           input.SaleID,
		TotalOwed:        input.TotalOwed,
		TotalPaid:        0,
		RemainingBalance: input.TotalOwed,
		PaymentStatus:    models.CreditPending,
	}

	if err := config.DB.Create(&credit).Error; err != nil {
		if config.IsDBUnavailable(err) {
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create credit")
		}
		return
	}

	c.JSON(http.StatusCreated, credit)
}

// GetCredits retrieves credits for the store
func GetCredits(c *gin.Context) {
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
	if status := c.Query("status"); status != "" {
		query = query.Where("payment_status = ?", status)
	}

	var credits []models.Credit
	if err := query.Order("created_at DESC").Find(&credits).Error; err != nil {
		if config.IsDBUnavailable(err) {
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve credits")
		}
		return
	}

	c.JSON(http.StatusOK, credits)
}

// GetCredit retrieves a specific credit by ID with its payment ledger
func GetCredit(c *gin.Context) {
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

	creditUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid credit ID format")
		return
	}

	var credit models.Credit
	if err := config.DB.Preload("Payments").
		Where("store_id = ? AND id = ?", storeUUID, creditUUID).
		First(&credit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Credit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, credit)
}

// ApplyCreditPayment records a payment against a credit. The applied amount
// is capped at the outstanding balance; any excess is materialized as a new
// zero-owed store-credit record so it is never lost. The ledger row holds
// only the applied amount.
func ApplyCreditPayment(c *gin.Context) {
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

	creditUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid credit ID format")
		return
	}

	var input ApplyPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var credit models.Credit
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, creditUUID).
		First(&credit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Credit not found")
		} else if config.IsDBUnavailable(err) {
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	applied, overpaid := applyPayment(input.Amount, credit.RemainingBalance)

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	// Append the ledger row for the applied portion only
	payment := models.CreditPayment{
		CreditID:      credit.ID,
		Amount:        applied,
		PaymentMethod: paymentMethod,
		ReceivedBy:    input.WorkerID,
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	// Update the credit totals
	credit.TotalPaid += applied
	credit.RemainingBalance = credit.TotalOwed - credit.TotalPaid
	if credit.RemainingBalance < 0 {
		credit.RemainingBalance = 0
	}
	if credit.RemainingBalance == 0 {
		credit.PaymentStatus = models.CreditPaid
	} else {
		credit.PaymentStatus = models.CreditPartial
	}

	if err := config.DB.Save(&credit).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update credit")
		return
	}

	// Materialize the overpayment as a fresh store-credit wallet
	var storeCredit *models.Credit
	if overpaid > 0 {
		storeCredit = &models.Credit{
			StoreID:          storeUUID,
			CustomerName:     credit.CustomerName,
			CustomerPhone:    credit.CustomerPhone,
			TotalOwed:        0,
			TotalPaid:        overpaid,
			RemainingBalance: 0,
			PaymentStatus:    models.CreditPaid,
			IsStoreCredit:    true,
		}
		if err := config.DB.Create(storeCredit).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Payment recorded but store credit creation failed")
			return
		}
	}

	response := gin.H{
		"credit":   credit,
		"applied":  applied,
		"overpaid": overpaid,
	}
	if storeCredit != nil {
		response["storeCredit"] = storeCredit
	}

	c.JSON(http.StatusOK, response)
}

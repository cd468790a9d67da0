package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"pores-backend/config"
	"pores-backend/models"
	"pores-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyPinInput struct {
	Pin string `json:"pin" binding:"required"`
}

type VerifyKeeperInput struct {
	Password string `json:"password" binding:"required"`
}

// controllers/auth.go
func Register(c *gin.Context) {
	var input RegisterInput

	// Bind and validate input
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	// Check if email already exists
	var existingStore models.Store
	result := config.DB.Where("email = ?", strings.ToLower(input.Email)).First(&existingStore)

	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// Create new store
	newStore := models.Store{
		Email:    strings.ToLower(input.Email),
		Password: input.Password, // Will be hashed in BeforeCreate hook
		Name:     input.Name,
		Phone:    input.Phone,
		Address:  input.Address,
	}

	if err := config.DB.Create(&newStore).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create store")
		return
	}

	// Generate token
	token, err := utils.GenerateToken(newStore.ID.String(), newStore.Email)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	expiryHours := 24
	maxAge := expiryHours * 3600

	c.SetCookie(
		"token",
		token,
		maxAge,
		"/",
		"",
		true,
		true,
	)

	// Return response without password
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"store": gin.H{
			"id":             newStore.ID,
			"email":          newStore.Email,
			"name":           newStore.Name,
			"setupCompleted": newStore.SetupCompleted,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginInput

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var store models.Store
	result := config.DB.Where("email = ?", email).First(&store)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else if config.IsDBUnavailable(result.Error) {
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Check password
	if !utils.CheckPasswordHash(input.Password, store.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Generate token
	token, err := utils.GenerateToken(store.ID.String(), store.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// Update last login
	now := time.Now()
	config.DB.Model(&store).Update("last_login", &now)

	expiryHours := 24
	maxAge := expiryHours * 3600

	c.SetCookie(
		"token",
		token,
		maxAge,
		"/",
		"",
		true,
		true,
	)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"store": gin.H{
			"id":             store.ID,
			"email":          store.Email,
			"name":           store.Name,
			"setupCompleted": store.SetupCompleted,
		},
	})
}

func Me(c *gin.Context) {
	storeID, exists := c.Get("storeId")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Store ID not found in context"})
		return
	}

	var store models.Store
	if err := config.DB.First(&store, "id = ?", storeID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Store not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": gin.H{
			"id":             store.ID,
			"email":          store.Email,
			"name":           store.Name,
			"phone":          store.Phone,
			"address":        store.Address,
			"storeType":      store.StoreType,
			"currency":       store.Currency,
			"setupCompleted": store.SetupCompleted,
		},
	})
}

// VerifyPin resolves a worker from a short PIN. A PIN matching the store's
// keeper password authenticates as the sentinel "keeper" identity.
func VerifyPin(c *gin.Context) {
	storeID, exists := c.Get("storeId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Store ID not found in context")
		return
	}

	var input VerifyPinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var store models.Store
	if err := config.DB.First(&store, "id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Store not found")
		} else if config.IsDBUnavailable(err) {
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var worker models.Worker
	result := config.DB.Where("store_id = ? AND pin = ? AND is_active = ?", store.ID, input.Pin, true).
		First(&worker)

	if result.Error == nil {
		c.JSON(http.StatusOK, gin.H{
			"worker": gin.H{
				"id":   worker.ID,
				"name": worker.Name,
				"role": worker.Role,
			},
		})
		return
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	// Keeper fallback: the store's own password works as a supervisory PIN
	if store.Password != "" && utils.CheckPasswordHash(input.Pin, store.Password) {
		c.JSON(http.StatusOK, gin.H{
			"worker": gin.H{
				"id":   models.KeeperSentinel,
				"name": store.Name,
				"role": models.KeeperSentinel,
			},
		})
		return
	}

	// No workers and no keeper password means PIN login was never set up
	var workerCount int64
	config.DB.Model(&models.Worker{}).Where("store_id = ?", store.ID).Count(&workerCount)
	if workerCount == 0 && store.Password == "" {
		utils.RespondWithErrorCode(c, http.StatusUnauthorized, "NO_PIN_SETUP", "No worker PINs or keeper password configured")
		return
	}

	utils.RespondWithErrorCode(c, http.StatusUnauthorized, "INVALID_PIN", "Invalid PIN")
}

// VerifyKeeper checks the store's main password, gating sensitive actions
// like worker management and large refunds.
func VerifyKeeper(c *gin.Context) {
	storeID, exists := c.Get("storeId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Store ID not found in context")
		return
	}

	var input VerifyKeeperInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var store models.Store
	if err := config.DB.First(&store, "id = ?", storeID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Store not found")
		return
	}

	if !utils.CheckPasswordHash(input.Password, store.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid keeper password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": true})
}

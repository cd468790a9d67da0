// controllers/worker.go
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

type CreateWorkerInput struct {
	Name string `json:"name" binding:"required"`
	Pin  string `json:"pin" binding:"required,min=4,max=8"`
	Role string `json:"role"`
}

type UpdateWorkerInput struct {
	Name     *string `json:"name"`
	Pin      *string `json:"pin"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// GetWorkers lists the store's workers (PINs are not returned)
func GetWorkers(c *gin.Context) {
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

	var workers []models.Worker
	if err := config.DB.Where("store_id = ?", storeUUID).
		Order("name ASC").Find(&workers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve workers")
		return
	}

	out := make([]gin.H, 0, len(workers))
	for _, w := range workers {
		out = append(out, gin.H{
			"id":       w.ID,
			"name":     w.Name,
			"role":     w.Role,
			"isActive": w.IsActive,
		})
	}

	c.JSON(http.StatusOK, out)
}

// AddWorker creates a worker with a PIN unique within the store
func AddWorker(c *gin.Context) {
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

	var input CreateWorkerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// PIN must be unique within the store
	var existing models.Worker
	result := config.DB.Where("store_id = ? AND pin = ?", storeUUID, input.Pin).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "PIN already in use by another worker")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	role := input.Role
	if role == "" {
		role = "cashier"
	}

	worker := models.Worker{
		StoreID: storeUUID,
		Name:    input.Name,
		Pin:     input.Pin,
		Role:    role,
	}

	if err := config.DB.Create(&worker).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create worker")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":       worker.ID,
		"name":     worker.Name,
		"role":     worker.Role,
		"isActive": worker.IsActive,
	})
}

// UpdateWorker updates a worker's name, PIN, role, or active flag
func UpdateWorker(c *gin.Context) {
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

	workerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid worker ID format")
		return
	}

	var input UpdateWorkerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var worker models.Worker
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, workerUUID).
		First(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Worker not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Pin != nil && *input.Pin != worker.Pin {
		var existing models.Worker
		result := config.DB.Where("store_id = ? AND pin = ? AND id <> ?", storeUUID, *input.Pin, worker.ID).
			First(&existing)
		if result.Error == nil {
			utils.RespondWithError(c, http.StatusConflict, "PIN already in use by another worker")
			return
		} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		worker.Pin = *input.Pin
	}

	if input.Name != nil {
		worker.Name = *input.Name
	}
	if input.Role != nil {
		worker.Role = *input.Role
	}
	if input.IsActive != nil {
		worker.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&worker).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update worker")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       worker.ID,
		"name":     worker.Name,
		"role":     worker.Role,
		"isActive": worker.IsActive,
	})
}

// DeleteWorker removes a worker; workers with recorded sales are
// deactivated instead so sale history keeps its reference.
func DeleteWorker(c *gin.Context) {
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

	workerUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid worker ID format")
		return
	}

	var worker models.Worker
	if err := config.DB.Where("store_id = ? AND id = ?", storeUUID, workerUUID).
		First(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Worker not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var saleCount int64
	config.DB.Model(&models.Sale{}).Where("worker_id = ?", worker.ID).Count(&saleCount)

	if saleCount > 0 {
		if err := config.DB.Model(&worker).Update("is_active", false).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to deactivate worker")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Worker deactivated (has sale history)"})
		return
	}

	if err := config.DB.Delete(&worker).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete worker")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Worker deleted successfully"})
}

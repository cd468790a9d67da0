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

func TestCreateCatalogItemRequiresKeeperPassword(t *testing.T) {
	setupTestDB(t)
	store := seedStore(t, "duka@example.com", "keeper-password")
	r := testRouter(store.ID)

	payload := gin.H{
		"name":      "Soda 500ml",
		"storeType": "kiosk",
	}

	// Missing keeper password fails validation
	w := doJSON(t, r, http.MethodPost, "/api/catalog", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Wrong keeper password is rejected without writing anything
	payload["keeperPassword"] = "not-it"
	w = doJSON(t, r, http.MethodPost, "/api/catalog", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var count int64
	config.DB.Model(&models.CatalogItem{}).Count(&count)
	assert.Equal(t, int64(0), count)

	// Correct keeper password creates the template
	payload["keeperPassword"] = "keeper-password"
	w = doJSON(t, r, http.MethodPost, "/api/catalog", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	config.DB.Model(&models.CatalogItem{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateCatalogItemUnknownStoreRejected(t *testing.T) {
	setupTestDB(t)
	r := testRouter(uuid.New())

	w := doJSON(t, r, http.MethodPost, "/api/catalog", gin.H{
		"name":           "Soda 500ml",
		"storeType":      "kiosk",
		"keeperPassword": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"pores-backend/config"
	"pores-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, email, password string) models.Store {
	t.Helper()
	store := models.Store{
		Email:    email,
		Password: password,
		Name:     "Duka Moja",
		Currency: "KES",
		IsActive: true,
	}
	require.NoError(t, config.DB.Create(&store).Error)
	return store
}

func TestVerifyPinMatchesWorker(t *testing.T) {
	setupTestDB(t)
	store := seedStore(t, "duka@example.com", "keeper-password")
	r := testRouter(store.ID)

	worker := seedWorker(t, store.ID, "Amina", "4321")

	w := doJSON(t, r, http.MethodPost, "/api/auth/verify-pin", gin.H{"pin": "4321"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Worker struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"worker"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, worker.ID.String(), resp.Worker.ID)
	assert.Equal(t, "Amina", resp.Worker.Name)
}

func TestVerifyPinKeeperFallback(t *testing.T) {
	setupTestDB(t)
	store := seedStore(t, "duka@example.com", "keeper-password")
	r := testRouter(store.ID)

	w := doJSON(t, r, http.MethodPost, "/api/auth/verify-pin", gin.H{"pin": "keeper-password"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Worker struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"worker"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.KeeperSentinel, resp.Worker.ID)
	assert.Equal(t, models.KeeperSentinel, resp.Worker.Role)
}

func TestVerifyPinWrongPin(t *testing.T) {
	setupTestDB(t)
	store := seedStore(t, "duka@example.com", "keeper-password")
	r := testRouter(store.ID)

	seedWorker(t, store.ID, "Amina", "4321")

	w := doJSON(t, r, http.MethodPost, "/api/auth/verify-pin", gin.H{"pin": "9999"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_PIN", resp.Code)
}

func TestVerifyPinNoPinSetup(t *testing.T) {
	setupTestDB(t)
	store := seedStore(t, "duka@example.com", "placeholder")
	r := testRouter(store.ID)

	// Store with no workers and no keeper password configured
	require.NoError(t, config.DB.Model(&store).Update("password", "").Error)

	w := doJSON(t, r, http.MethodPost, "/api/auth/verify-pin", gin.H{"pin": "1234"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NO_PIN_SETUP", resp.Code)
}

func TestVerifyPinInactiveWorkerIgnored(t *testing.T) {
	setupTestDB(t)
	store := seedStore(t, "duka@example.com", "keeper-password")
	r := testRouter(store.ID)

	worker := seedWorker(t, store.ID, "Amina", "4321")
	require.NoError(t, config.DB.Model(&worker).Update("is_active", false).Error)

	w := doJSON(t, r, http.MethodPost, "/api/auth/verify-pin", gin.H{"pin": "4321"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyKeeper(t *testing.T) {
	setupTestDB(t)
	store := seedStore(t, "duka@example.com", "keeper-password")
	r := testRouter(store.ID)

	ok := doJSON(t, r, http.MethodPost, "/api/auth/verify-keeper", gin.H{"password": "keeper-password"})
	assert.Equal(t, http.StatusOK, ok.Code)

	wrong := doJSON(t, r, http.MethodPost, "/api/auth/verify-keeper", gin.H{"password": "not-it"})
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	setupTestDB(t)
	t.Setenv("JWT_SECRET", "test-secret")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", Register)
	r.POST("/auth/login", Login)

	w := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email":    "new@example.com",
		"password": "super-secret",
		"name":     "Duka Mbili",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Duplicate email conflicts
	dup := doJSON(t, r, http.MethodPost, "/auth/register", gin.H{
		"email":    "new@example.com",
		"password": "super-secret",
		"name":     "Duka Tatu",
	})
	assert.Equal(t, http.StatusConflict, dup.Code)

	// New store starts with setup incomplete
	var store models.Store
	require.NoError(t, config.DB.Where("email = ?", "new@example.com").First(&store).Error)
	assert.False(t, store.SetupCompleted)

	login := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email":    "new@example.com",
		"password": "super-secret",
	})
	require.Equal(t, http.StatusOK, login.Code, login.Body.String())

	bad := doJSON(t, r, http.MethodPost, "/auth/login", gin.H{
		"email":    "new@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
}

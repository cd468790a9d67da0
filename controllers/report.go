// controllers/report.go
package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"pores-backend/config"
	"pores-backend/models"
	"pores-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const reportCacheTTL = 60 * time.Second

// ReportController handles all reporting functions
type ReportController struct{}

// ReportSummary represents the analytics data for a date window
type ReportSummary struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	TotalRevenue        float64 `json:"totalRevenue"`
	TotalCost           float64 `json:"totalCost"`
	Profit              float64 `json:"profit"`
	SaleCount           int     `json:"saleCount"`
	AvgTransactionValue float64 `json:"avgTransactionValue"`

	OutstandingCredit float64 `json:"outstandingCredit"`

	LowStockProducts []LowStockProduct `json:"lowStockProducts"`
	SalesByWorker    []WorkerSummary   `json:"salesByWorker"`
}

type LowStockProduct struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
}

type WorkerSummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// GetReportAnalytics returns the aggregate report for the requested date
// window (defaults to the current month). Results are cached briefly in
// redis; a cached copy is served when the database is unreachable, else
// 503 DATABASE_UNAVAILABLE.
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
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

	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	start := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)

	if s := c.Query("start"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			start = utils.BeginningOfDay(t)
		}
	}
	if e := c.Query("end"); e != "" {
		if t, err := time.Parse("2006-01-02", e); err == nil {
			end = utils.BeginningOfDay(t).AddDate(0, 0, 1)
		}
	}

	cacheKey := "report:" + storeUUID.String() + ":" + start.Format("20060102") + ":" + end.Format("20060102")

	summary, err := rc.buildSummary(storeUUID, start, end)
	if err != nil {
		if config.IsDBUnavailable(err) {
			if cached := config.CacheGet(c.Request.Context(), cacheKey); cached != "" {
				c.Data(http.StatusOK, "application/json", []byte(cached))
				return
			}
			utils.RespondWithErrorCode(c, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database unavailable")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to build report")
		return
	}

	if payload, err := json.Marshal(summary); err == nil {
		config.CacheSet(c.Request.Context(), cacheKey, string(payload), reportCacheTTL)
	}

	c.JSON(http.StatusOK, summary)
}

func (rc *ReportController) buildSummary(storeID uuid.UUID, start, end time.Time) (*ReportSummary, error) {
	summary := &ReportSummary{Start: start, End: end}

	revenue, cost, count, err := rc.getSalesTotals(storeID, start, end)
	if err != nil {
		return nil, err
	}
	summary.TotalRevenue = revenue
	summary.TotalCost = cost
	summary.SaleCount = count
	summary.Profit = revenue - cost
	if count > 0 {
		summary.AvgTransactionValue = revenue / float64(count)
	}

	outstanding, err := rc.getOutstandingCredit(storeID)
	if err != nil {
		return nil, err
	}
	summary.OutstandingCredit = outstanding

	lowStock, err := rc.getLowStockProducts(storeID)
	if err != nil {
		return nil, err
	}
	summary.LowStockProducts = lowStock

	byWorker, err := rc.getSalesByWorker(storeID, start, end)
	if err != nil {
		return nil, err
	}
	summary.SalesByWorker = byWorker

	return summary, nil
}

// Helper functions for reports

func (rc *ReportController) getSalesTotals(storeID uuid.UUID, start, end time.Time) (revenue, cost float64, count int, err error) {
	var row struct {
		Revenue float64
		Cost    float64
		Count   int64
	}
	err = config.DB.Model(&models.Sale{}).
		Where("store_id = ? AND sale_date >= ? AND sale_date < ?", storeID, start, end).
		Select("COALESCE(SUM(total_price), 0) as revenue, COALESCE(SUM(total_cost), 0) as cost, COUNT(*) as count").
		Scan(&row).Error
	return row.Revenue, row.Cost, int(row.Count), err
}

func (rc *ReportController) getOutstandingCredit(storeID uuid.UUID) (float64, error) {
	var total float64
	err := config.DB.Model(&models.Credit{}).
		Where("store_id = ? AND remaining_balance > 0", storeID).
		Select("COALESCE(SUM(remaining_balance), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) getLowStockProducts(storeID uuid.UUID) ([]LowStockProduct, error) {
	var products []LowStockProduct

	err := config.DB.Model(&models.Product{}).
		Select("id, name, quantity").
		Where("store_id = ? AND quantity <= 5 AND deleted_at IS NULL", storeID).
		Order("quantity ASC").
		Scan(&products).Error

	return products, err
}

// getSalesByWorker groups on the worker name snapshot, not the worker id,
// so two workers sharing a display name are reported as one.
func (rc *ReportController) getSalesByWorker(storeID uuid.UUID, start, end time.Time) ([]WorkerSummary, error) {
	var workers []WorkerSummary

	err := config.DB.Model(&models.Sale{}).
		Select("worker_name as name, COUNT(*) as count, COALESCE(SUM(total_price), 0) as revenue").
		Where("store_id = ? AND sale_date >= ? AND sale_date < ? AND deleted_at IS NULL", storeID, start, end).
		Group("worker_name").
		Order("revenue DESC").
		Scan(&workers).Error

	return workers, err
}

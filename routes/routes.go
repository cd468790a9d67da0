package routes

import (
	"pores-backend/config"
	"pores-backend/controllers"
	"pores-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://admin.pores.app",
			"https://merchant.pores.app",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "x-store-id"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	// Connectivity probe used by offline clients
	r.GET("/health", func(c *gin.Context) {
		if config.DB != nil {
			if sqlDB, err := config.DB.DB(); err == nil {
				if err := sqlDB.Ping(); err != nil {
					c.JSON(503, gin.H{"status": "degraded", "code": "DATABASE_UNAVAILABLE"})
					return
				}
			}
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.StoreIDMiddleware())
	{
		// PIN / keeper verification
		apiAuth := api.Group("/auth")
		{
			apiAuth.POST("/verify-pin", controllers.VerifyPin)
			apiAuth.POST("/verify-keeper", controllers.VerifyKeeper)
		}

		// Product routes
		products := api.Group("/products")
		{
			products.POST("", controllers.CreateProduct)
			products.GET("", controllers.GetProducts)
			products.GET("/low-stock", controllers.GetLowStockProducts)
			products.GET("/:id", controllers.GetProduct)
			products.PUT("/:id", controllers.UpdateProduct)
			products.DELETE("/:id", controllers.DeleteProduct)
		}

		// Sale routes
		sales := api.Group("/sales")
		{
			sales.POST("", controllers.CreateSale)
			sales.GET("", controllers.GetSales)
			sales.GET("/:id", controllers.GetSale)
		}

		// Credit routes
		credits := api.Group("/credits")
		{
			credits.POST("", controllers.CreateCredit)
			credits.GET("", controllers.GetCredits)
			credits.GET("/:id", controllers.GetCredit)
			credits.POST("/:id/payment", controllers.ApplyCreditPayment)
		}

		// Worker routes
		workers := api.Group("/workers")
		{
			workers.GET("", controllers.GetWorkers)
			workers.POST("", controllers.AddWorker)
			workers.PUT("/:id", controllers.UpdateWorker)
			workers.DELETE("/:id", controllers.DeleteWorker)
		}

		// Catalog routes. Writes touch global reference data, so they are
		// never reachable through the x-store-id header path: a bearer
		// token is required on top, and the handler re-checks the keeper
		// password.
		catalog := api.Group("/catalog")
		{
			catalog.GET("", controllers.GetCatalog)
			catalog.GET("/store-types", controllers.GetStoreTypes)
			catalog.POST("", utils.AuthMiddleware(), controllers.CreateCatalogItem)
		}

		// Onboarding routes
		api.POST("/onboarding/setup", controllers.SetupStore)

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports", reportController.GetReportAnalytics)
	}

	return r
}

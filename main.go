package main

import (
	"fmt"
	"log"
	"os"

	"pores-backend/config"
	"pores-backend/models"
	"pores-backend/routes"
	"pores-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()
	config.ConnectRedis()

	config.DB.AutoMigrate(
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
	)
}

func main() {
	reminderService := services.NewReminderService(config.DB)
	reminderService.StartScheduler()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}

package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/farahsharshar/v-banking-system/bff-service/internal/client"
	"github.com/farahsharshar/v-banking-system/bff-service/internal/handler"
	"github.com/farahsharshar/v-banking-system/bff-service/internal/service"
	"github.com/farahsharshar/v-banking-system/shared/audit"
	"github.com/farahsharshar/v-banking-system/shared/middleware"
	redisClient "github.com/farahsharshar/v-banking-system/shared/redis"
)

func main() {
	// Redis connection (audit side-channel only; the BFF owns no state)
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redis, err := redisClient.NewClient(redisAddr, "", 0)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	publisher := audit.NewPublisher(redis.Client)

	users := client.NewUserClient(getEnv("USER_SERVICE_URL", "http://localhost:8081"))
	accounts := client.NewAccountClient(getEnv("ACCOUNT_SERVICE_URL", "http://localhost:8082"))
	transactions := client.NewTransactionClient(getEnv("TRANSACTION_SERVICE_URL", "http://localhost:8083"))

	dashboardSvc := service.NewDashboardService(users, accounts, transactions)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	// Setup router
	router := gin.Default()
	router.Use(middleware.AuditMiddleware(publisher))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "bff-service"})
	})

	// Dashboard route
	router.GET("/bff/dashboard/:userId", dashboardHandler.GetDashboard)

	port := getEnv("PORT", "8080")
	log.Printf("BFF service starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// The API gateway is the platform's public edge. It terminates client
// authentication and forwards to the user-facing services; the account and
// transaction services stay internal and are never exposed here.
package main

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farahsharshar/v-banking-system/shared/middleware"
)

var (
	userServiceURL = getEnv("USER_SERVICE_URL", "http://localhost:8081")
	bffServiceURL  = getEnv("BFF_SERVICE_URL", "http://localhost:8080")
)

func main() {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "api-gateway"})
	})

	// Registration and login are the only unauthenticated routes.
	router.POST("/users/register", proxyTo(userServiceURL))
	router.POST("/users/login", proxyTo(userServiceURL))

	// Self-view and dashboard require a bearer token.
	router.GET("/users/:userId", middleware.AuthMiddleware(), proxyTo(userServiceURL))
	router.GET("/bff/dashboard/:userId", middleware.AuthMiddleware(), proxyTo(bffServiceURL))

	port := getEnv("PORT", "8088")
	log.Printf("API gateway starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

var proxyClient = &http.Client{Timeout: 10 * time.Second}

func proxyTo(serviceURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetURL := serviceURL + c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			targetURL += "?" + c.Request.URL.RawQuery
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, bytes.NewReader(bodyBytes))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create request"})
			return
		}
		for key, values := range c.Request.Header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		// Forward the authenticated identity to the downstream service.
		if userID, ok := middleware.GetUserID(c); ok {
			req.Header.Set("X-User-ID", userID)
		}

		resp, err := proxyClient.Do(req)
		if err != nil {
			log.Printf("Error proxying request to %s: %v", targetURL, err)
			c.JSON(http.StatusBadGateway, gin.H{"message": "Service unavailable"})
			return
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read response"})
			return
		}
		for key, values := range resp.Header {
			for _, value := range values {
				c.Header(key, value)
			}
		}
		c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), respBody)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return strings.TrimSuffix(value, "/")
	}
	return fallback
}

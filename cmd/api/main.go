package main

import (
	"log"
	"os"

	"pharmacare-backend/internal/config"
	"pharmacare-backend/internal/routes"
	"pharmacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config.ConnectDB()

	// Push notifications are optional; without credentials this is a no-op.
	utils.InitFCM()

	r := gin.Default()

	routes.SetupRoutes(r)

	// Uploaded medicine and prescription images.
	r.Static("/uploads", "./uploads")

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"success": "Server OK!"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server listening on port " + port)
	r.Run(":" + port)
}

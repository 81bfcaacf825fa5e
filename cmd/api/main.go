package main

import (
	"context"
	"log"
	"net/http"

	"github.com/rs/cors"

	"github.com/Krishna-Sai3112/SII-Project/internal/config"
	"github.com/Krishna-Sai3112/SII-Project/internal/database"
	"github.com/Krishna-Sai3112/SII-Project/internal/routes"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Connect to MongoDB
	client, err := database.ConnectMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Fatal("Failed to disconnect from MongoDB:", err)
		}
	}()

	// The unique indexes carry the roster and per-day uniqueness guarantees
	if err := database.EnsureIndexes(client, cfg.DatabaseName); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Initialize router
	router := routes.SetupRouter(client, cfg)

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	// Wrap router with CORS
	handler := c.Handler(router)

	// Start server
	log.Printf("🚀 Server running on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/foodexplorer/backend/config"
	httpDelivery "github.com/foodexplorer/backend/internal/delivery/http"
	"github.com/foodexplorer/backend/internal/infrastructure/cache"
	"github.com/foodexplorer/backend/internal/infrastructure/openfoodfacts"
	"github.com/foodexplorer/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Food Explorer Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Open Food Facts: %s", cfg.OpenFoodFacts.BaseURL)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	offClient := openfoodfacts.NewClient(openfoodfacts.ClientConfig{
		BaseURL:           cfg.OpenFoodFacts.BaseURL,
		UserAgent:         cfg.OpenFoodFacts.UserAgent,
		Timeout:           cfg.OpenFoodFacts.Timeout,
		PageSize:          cfg.Search.PageSize,
		RequestsPerSecond: cfg.OpenFoodFacts.RequestsPerSecond,
		Burst:             cfg.OpenFoodFacts.Burst,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		offClient.SetDebug(true)
		log.Printf("Open Food Facts client debug mode enabled")
	}

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(offClient, memoryCache, usecase.CatalogConfig{
		MaxPages:  cfg.Search.MaxPages,
		PageDelay: cfg.Search.PageDelay,
		CacheTTL:  cfg.Cache.TTL,
	})
	detailService := usecase.NewDetailService(offClient)

	log.Printf("Search: page_size=%d, max_pages=%d, page_delay=%s, window=%d",
		cfg.Search.PageSize,
		cfg.Search.MaxPages,
		cfg.Search.PageDelay,
		cfg.Search.WindowSize)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogService, detailService, cfg.Search.WindowSize)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

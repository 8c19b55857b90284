package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/cyberlegal/backend/config"
	httpDelivery "github.com/cyberlegal/backend/internal/delivery/http"
	"github.com/cyberlegal/backend/internal/infrastructure/assistant"
	"github.com/cyberlegal/backend/internal/infrastructure/cache"
	"github.com/cyberlegal/backend/internal/infrastructure/history"
	"github.com/cyberlegal/backend/internal/infrastructure/places"
	"github.com/cyberlegal/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting CyberLegal Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Cache Type: %s", cfg.Cache.Type)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	defer memoryCache.Close()
	log.Printf("Cache TTL: %s (0 = until restart)", cfg.Cache.TTL)

	placesClient := places.NewClient(cfg.Places.APIKey, cfg.Places.BaseURL)
	placesClient.SetTimeout(cfg.Places.Timeout)
	placesClient.SetMaxRetries(cfg.Places.MaxRetries)
	placesClient.SetRateLimit(cfg.RateLimit.Places)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		placesClient.SetDebug(true)
		log.Printf("Places client debug mode enabled")
	}

	log.Printf("Places API configured: %s (key: %s...)", cfg.Places.BaseURL, keyPrefix(cfg.Places.APIKey))

	assistantClient := assistant.NewClient(cfg.Assistant.BaseURL, cfg.Assistant.Timeout)
	log.Printf("Assistant API configured: %s (top_k=%d)", cfg.Assistant.BaseURL, cfg.Assistant.TopK)

	historyStore := history.NewFileStore(cfg.History.Path)
	if err := historyStore.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load chat history: %v", err)
	}

	// Initialize usecase layer
	locatorService := usecase.NewLocatorService(
		placesClient,
		memoryCache,
		usecase.LocatorServiceConfig{
			InitialRadius:  cfg.Locator.InitialRadius,
			FallbackRadius: cfg.Locator.FallbackRadius,
			CacheTTL:       cfg.Cache.TTL,
			Region:         cfg.Locator.Region,
			GeocodeTimeout: cfg.Locator.GeocodeTimeout,
		},
	)

	log.Printf("Locator: radius=%dm, fallback=%dm, region=%s",
		cfg.Locator.InitialRadius,
		cfg.Locator.FallbackRadius,
		cfg.Locator.Region)

	chatService := usecase.NewChatService(
		assistantClient,
		historyStore,
		usecase.ChatServiceConfig{TopK: cfg.Assistant.TopK},
	)
	voiceService := usecase.NewVoiceService(assistantClient)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(locatorService, chatService, voiceService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// keyPrefix shows the first 4 characters of a secret
func keyPrefix(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4]
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}

package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/psych0panda/checktrack/internal/application/service"
	"github.com/psych0panda/checktrack/internal/config"
	"github.com/psych0panda/checktrack/internal/infrastructure/database"
	"github.com/psych0panda/checktrack/internal/infrastructure/repository"
	"github.com/psych0panda/checktrack/internal/presentation/http/handler"
	"github.com/psych0panda/checktrack/internal/presentation/http/routes"
	"github.com/psych0panda/checktrack/pkg/render"
	"github.com/psych0panda/checktrack/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	lineItemRepo := repository.NewLineItemRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize template renderer
	renderer, err := render.NewService(cfg.Templates.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize template renderer: %v", err)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	invoiceService := service.NewInvoiceService(invoiceRepo)
	receiptService := service.NewReceiptService(invoiceRepo, lineItemRepo, paymentRepo, renderer, cfg.Shop.Name)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Invoice: handler.NewInvoiceHandler(invoiceService, receiptService, cfg.Shop.ReceiptWidth),
	}

	// Setup router
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	log.Printf("Starting %s on port %s", cfg.App.Name, cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	auditUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/audit"
	fraudUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/fraud"
	invoiceUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/invoice"
	paymentUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/payment"
	refundUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/refund"
	walletUseCase "github.com/researchlink/payment-processor/internal/domain/usecase/wallet"

	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/api/handler"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/api/routes"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/database"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/gateway"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/logger"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/repository"
	timeProvider "github.com/researchlink/payment-processor/internal/infrastructure/adapter/time"
	"github.com/researchlink/payment-processor/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() { _ = appLogger.Flush() }()

	// Setup database configuration
	dbConfig := &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      int(cfg.Database.RetryDelay / time.Second),
	}

	// Initialize time provider
	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	db := dbManager.DB()

	// Initialize repositories
	transactionRepo := repository.NewTransactionRepository(db, appLogger)
	userRepo := repository.NewUserRepository(db, appLogger)
	walletRepo := repository.NewWalletRepository(db, tp, appLogger)
	refundRepo := repository.NewRefundRepository(db, appLogger)
	disputeRepo := repository.NewDisputeRepository(db, appLogger)
	fraudAlertRepo := repository.NewFraudAlertRepository(db, appLogger)
	auditRepo := repository.NewAuditRepository(db, appLogger)
	invoiceRepo := repository.NewInvoiceRepository(db, appLogger)

	// Initialize gateway adapters
	registry := gateway.NewRegistry(
		gateway.NewMadaAdapter(cfg.Payment.MadaWebhookSecret),
		gateway.NewSTCPayAdapter(cfg.Payment.STCPayWebhookSecret),
		gateway.NewHyperPayAdapter(cfg.Payment.HyperPayWebhookSecret),
	)

	// Initialize use cases
	trail := auditUseCase.NewTrail(auditRepo, tp, appLogger)
	screen := fraudUseCase.NewScreen(transactionRepo, fraudAlertRepo, tp, appLogger)
	orchestrator := paymentUseCase.NewOrchestrator(
		registry,
		transactionRepo,
		userRepo,
		invoiceRepo,
		screen,
		trail,
		tp,
		appLogger,
		cfg.Payment.GatewayTimeout,
	)
	ledger := walletUseCase.NewLedger(
		walletRepo,
		userRepo,
		transactionRepo,
		trail,
		tp,
		appLogger,
		cfg.Payment.DefaultCurrency,
	)
	refundManager := refundUseCase.NewManager(
		transactionRepo,
		refundRepo,
		disputeRepo,
		trail,
		tp,
		appLogger,
	)
	invoiceService := invoiceUseCase.NewService(invoiceRepo, userRepo, tp, appLogger)

	// Initialize API handlers
	paymentHandler := handler.NewPaymentHandler(orchestrator, trail, appLogger)
	walletHandler := handler.NewWalletHandler(ledger, appLogger)
	refundHandler := handler.NewRefundHandler(refundManager, appLogger)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, cfg.Payment.DefaultCurrency, appLogger)
	auditHandler := handler.NewAuditHandler(trail, appLogger)
	webhookHandler := handler.NewWebhookHandler(orchestrator, appLogger)

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger)

	// Setup routes
	routes.SetupRoutes(
		router,
		paymentHandler,
		walletHandler,
		refundHandler,
		invoiceHandler,
		auditHandler,
		webhookHandler,
		cfg.Auth.JWTSecret,
		appLogger,
	)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Create a deadline to wait for
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown the server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}

	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}

	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}

	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate database configuration
	if cfg.Database.Host == "" {
		if cfg.Environment == config.Production && os.Getenv("PP_DB_HOST") == "" {
			missingConfigs = append(missingConfigs, "database.host (or PP_DB_HOST environment variable)")
		} else if cfg.Environment != config.Production {
			missingConfigs = append(missingConfigs, "database.host")
		}
	}

	if cfg.Database.Username == "" {
		missingConfigs = append(missingConfigs, "database.username (or PP_DB_USERNAME environment variable)")
	}

	if cfg.Database.Database == "" {
		missingConfigs = append(missingConfigs, "database.database (or PP_DB_NAME environment variable)")
	}

	// Validate auth configuration
	if cfg.Auth.JWTSecret == "" {
		missingConfigs = append(missingConfigs, "auth.jwtSecret (or PP_JWT_SECRET environment variable)")
	}

	// Validate payment configuration
	if cfg.Payment.DefaultCurrency == "" {
		missingConfigs = append(missingConfigs, "payment.defaultCurrency")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missingConfigs, ", "))
	}

	return nil
}

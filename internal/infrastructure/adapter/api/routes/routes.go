package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/researchlink/payment-processor/internal/domain/port/core"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/api/handler"
	"github.com/researchlink/payment-processor/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API. Webhook endpoints are
// unauthenticated: gateways sign their payloads instead of carrying tokens.
func SetupRoutes(
	router *gin.Engine,
	paymentHandler *handler.PaymentHandler,
	walletHandler *handler.WalletHandler,
	refundHandler *handler.RefundHandler,
	invoiceHandler *handler.InvoiceHandler,
	auditHandler *handler.AuditHandler,
	webhookHandler *handler.WebhookHandler,
	jwtSecret string,
	logger coreport.Logger,
) {
	// POST /webhooks/:gateway
	router.POST("/webhooks/:gateway", webhookHandler.Receive)

	auth := middleware.Auth(jwtSecret, logger)

	paymentRoutes := router.Group("/payments", auth)
	{
		paymentRoutes.GET("/gateways", paymentHandler.ListGateways)
		paymentRoutes.POST("/process", paymentHandler.ProcessPayment)
		paymentRoutes.POST("/tokenize", paymentHandler.TokenizeCard)
		paymentRoutes.GET("/transactions", paymentHandler.ListTransactions)
		paymentRoutes.GET("/transactions/:id", paymentHandler.GetTransaction)
		paymentRoutes.GET("/transactions/:id/verify", paymentHandler.VerifyTransaction)
		paymentRoutes.POST("/transactions/:id/3ds", paymentHandler.Initiate3DSecure)
		paymentRoutes.GET("/transactions/:id/audit", paymentHandler.GetTransactionAudit)

		walletRoutes := paymentRoutes.Group("/wallet")
		{
			walletRoutes.GET("", walletHandler.GetWallet)
			walletRoutes.POST("/top-up", walletHandler.AddFunds)
			walletRoutes.POST("/deduct", walletHandler.DeductFunds)
			walletRoutes.GET("/transactions", walletHandler.ListTransactions)
		}

		refundRoutes := paymentRoutes.Group("/refunds")
		{
			refundRoutes.POST("", refundHandler.CreateRefund)
			refundRoutes.GET("", refundHandler.ListRefunds)
		}

		disputeRoutes := paymentRoutes.Group("/disputes")
		{
			disputeRoutes.POST("", refundHandler.CreateDispute)
			disputeRoutes.GET("", refundHandler.ListDisputes)
		}

		invoiceRoutes := paymentRoutes.Group("/invoices")
		{
			invoiceRoutes.POST("", invoiceHandler.CreateInvoice)
			invoiceRoutes.GET("", invoiceHandler.ListInvoices)
			invoiceRoutes.GET("/:id", invoiceHandler.GetInvoice)
		}

		paymentRoutes.GET("/audit", auditHandler.List)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
}

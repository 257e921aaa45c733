// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-companion/internal/config"
	"github.com/your-org/pos-companion/internal/domain/cart"
	"github.com/your-org/pos-companion/internal/domain/checkout"
	"github.com/your-org/pos-companion/internal/domain/receipt"
	"github.com/your-org/pos-companion/internal/infrastructure/storage"
	"github.com/your-org/pos-companion/internal/interfaces/http/handlers"
	"github.com/your-org/pos-companion/internal/pkg/catalog"
	"github.com/your-org/pos-companion/internal/pkg/pdf"
	"github.com/your-org/pos-companion/internal/pkg/transaction"
)

// SetupRoutes wires every API route onto the given group
func SetupRoutes(api *gin.RouterGroup, store storage.KV, cfg *config.Config) {
	// Shared services
	carts := cart.NewStore()
	receipts := receipt.NewService(store, cfg.Storage.ReceiptsKey)
	transactionClient := transaction.NewClient(cfg.Transaction.BaseURL, cfg.Transaction.Timeout)
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	checkoutService := checkout.NewService(transactionClient, cfg.Checkout.MerchantRef)
	pdfService := pdf.NewService(cfg)

	// Handlers
	cartHandler := handlers.NewCartHandler(carts, catalogClient.LookupItem, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(carts, checkoutService, receipts, cfg)
	receiptHandler := handlers.NewReceiptHandler(receipts, transactionClient, pdfService, cfg)

	// Cart routes
	cartGroup := api.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
		cartGroup.POST("/scan", cartHandler.ScanItem)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.DELETE("/items/:code", cartHandler.RemoveItem)
		cartGroup.POST("/items/:code/increment", cartHandler.IncrementItem)
		cartGroup.POST("/items/:code/decrement", cartHandler.DecrementItem)
	}

	// Checkout route
	api.POST("/checkout", checkoutHandler.Checkout)

	// Receipt routes
	receiptGroup := api.Group("/receipts")
	{
		receiptGroup.GET("", receiptHandler.ListReceipts)
		receiptGroup.DELETE("", receiptHandler.ClearReceipts)
		receiptGroup.GET("/stats", receiptHandler.GetStats)
		receiptGroup.GET("/lookup/:txn", receiptHandler.LookupTransaction)
		receiptGroup.GET("/:id", receiptHandler.GetReceipt)
		receiptGroup.PUT("/:id", receiptHandler.UpdateReceipt)
		receiptGroup.DELETE("/:id", receiptHandler.DeleteReceipt)
		receiptGroup.GET("/:id/pdf", receiptHandler.ExportPDF)
	}
}

// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-companion/internal/config"
	"github.com/your-org/pos-companion/internal/domain/cart"
	"github.com/your-org/pos-companion/internal/domain/checkout"
	"github.com/your-org/pos-companion/internal/domain/receipt"
)

// CheckoutHandler drives the cart-to-receipt pipeline
type CheckoutHandler struct {
	carts    *cart.Store
	checkout *checkout.Service
	receipts *receipt.Service
	config   *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(carts *cart.Store, checkoutService *checkout.Service, receipts *receipt.Service, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		carts:    carts,
		checkout: checkoutService,
		receipts: receipts,
		config:   cfg,
	}
}

// CheckoutRequest is the body for POST /checkout
type CheckoutRequest struct {
	CustomerRef string `json:"customer_ref"`
}

// Checkout handles POST /checkout. On success the cart is cleared and the
// receipt saved; a transaction failure leaves the cart untouched so the
// operation can be retried.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	var req CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"details": err.Error(),
			})
			return
		}
	}

	state := h.carts.Get(sessionID)

	r, err := h.checkout.Checkout(c.Request.Context(), state, req.CustomerRef)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cannot checkout an empty cart",
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Checkout failed",
		})
		return
	}

	saveResult := h.receipts.SaveReceipt(c.Request.Context(), *r)

	// The transaction is settled; the cart must not survive it even if the
	// receipt save failed
	h.carts.Clear(sessionID)

	if !saveResult.Success {
		// The transaction went through but the receipt did not persist.
		// Report the settled transaction so the client can retry the save.
		c.JSON(http.StatusOK, gin.H{
			"message": "Checkout completed but receipt could not be saved",
			"data": gin.H{
				"receipt": r,
			},
			"error": saveResult.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout completed successfully",
		"data": gin.H{
			"receipt": saveResult.Data,
		},
	})
}

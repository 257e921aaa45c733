// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/pos-companion/internal/config"
	"github.com/your-org/pos-companion/internal/domain/cart"
	"github.com/your-org/pos-companion/internal/pkg/catalog"
)

// CartHandler handles cart endpoints. Each session cookie owns an isolated
// cart.
type CartHandler struct {
	carts   *cart.Store
	catalog CatalogLookup
	config  *config.Config
}

// CatalogLookup resolves a scanned serial number to a catalog item
type CatalogLookup func(ctx context.Context, serial string) (*catalog.Item, error)

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Store, lookup CatalogLookup, cfg *config.Config) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: lookup,
		config:  cfg,
	}
}

// AddItemRequest is the body for adding an already-known product
type AddItemRequest struct {
	Code      string  `json:"code" binding:"required"`
	Name      string  `json:"name" binding:"required"`
	UnitPrice float64 `json:"unit_price"`
	Image     string  `json:"image"`
	SKU       string  `json:"sku"`
}

// ScanRequest is the body for adding a product by scanned serial number
type ScanRequest struct {
	Serial string `json:"serial" binding:"required"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)
	state := h.carts.Get(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    cartResponse(state),
	})
}

// ScanItem handles POST /cart/scan: looks up the scanned serial in the
// catalog and adds the matching product to the cart
func (h *CartHandler) ScanItem(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.catalog(c.Request.Context(), req.Serial)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Item lookup failed",
		})
		return
	}

	state := h.carts.Dispatch(sessionID, cart.AddItem{Item: cart.Candidate{
		Code:      string(item.SerialNo),
		Name:      item.Name,
		UnitPrice: item.Price,
	}})

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartResponse(state),
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	state := h.carts.Dispatch(sessionID, cart.AddItem{Item: cart.Candidate{
		Code:      req.Code,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Image:     req.Image,
		SKU:       req.SKU,
	}})

	c.JSON(http.StatusOK, gin.H{
		"message": "Item added to cart successfully",
		"data":    cartResponse(state),
	})
}

// RemoveItem handles DELETE /cart/items/:code
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	state := h.carts.Dispatch(sessionID, cart.RemoveItem{Code: c.Param("code")})

	c.JSON(http.StatusOK, gin.H{
		"message": "Item removed from cart successfully",
		"data":    cartResponse(state),
	})
}

// IncrementItem handles POST /cart/items/:code/increment
func (h *CartHandler) IncrementItem(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	state := h.carts.Dispatch(sessionID, cart.IncrementQty{Code: c.Param("code")})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cartResponse(state),
	})
}

// DecrementItem handles POST /cart/items/:code/decrement
func (h *CartHandler) DecrementItem(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	state := h.carts.Dispatch(sessionID, cart.DecrementQty{Code: c.Param("code")})

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item updated successfully",
		"data":    cartResponse(state),
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := getOrCreateSessionID(c)

	h.carts.Clear(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared successfully",
	})
}

func cartResponse(state cart.State) gin.H {
	return gin.H{
		"lines":       state.Lines,
		"total":       state.Total,
		"total_items": state.TotalItems(),
	}
}

// getOrCreateSessionID gets session ID from cookie or creates a new one
func getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie("session_id")
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()

		// Set session cookie (24 hours)
		c.SetCookie("session_id", sessionID, 86400, "/", "", false, true)
	}

	return sessionID
}

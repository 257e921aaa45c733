// internal/interfaces/http/handlers/receipt.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/pos-companion/internal/config"
	"github.com/your-org/pos-companion/internal/domain/checkout"
	"github.com/your-org/pos-companion/internal/domain/receipt"
	"github.com/your-org/pos-companion/internal/pkg/pdf"
	"github.com/your-org/pos-companion/internal/pkg/transaction"
)

// TransactionGetter is the slice of the transaction client the lookup
// endpoint depends on
type TransactionGetter interface {
	Get(ctx context.Context, id string) (*transaction.Transaction, error)
}

// ReceiptHandler handles receipt endpoints
type ReceiptHandler struct {
	receipts     *receipt.Service
	transactions TransactionGetter
	pdfService   *pdf.Service
	config       *config.Config
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receipts *receipt.Service, transactions TransactionGetter, pdfService *pdf.Service, cfg *config.Config) *ReceiptHandler {
	return &ReceiptHandler{
		receipts:     receipts,
		transactions: transactions,
		pdfService:   pdfService,
		config:       cfg,
	}
}

// ListReceipts handles GET /receipts, optionally filtered by ?start= and
// ?end= (RFC 3339 or YYYY-MM-DD, inclusive on both ends)
func (h *ReceiptHandler) ListReceipts(c *gin.Context) {
	startParam := c.Query("start")
	endParam := c.Query("end")

	if startParam != "" || endParam != "" {
		start, end, err := parseDateRange(startParam, endParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid date range",
				"details": err.Error(),
			})
			return
		}

		result := h.receipts.GetReceiptsByDateRange(c.Request.Context(), start, end)
		if !result.Success {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": result.Error,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Receipts retrieved successfully",
			"data":    result.Data,
		})
		return
	}

	result := h.receipts.GetAllReceipts(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"message": "Receipts retrieved successfully",
		"data":    result.Data,
	})
}

// GetStats handles GET /receipts/stats
func (h *ReceiptHandler) GetStats(c *gin.Context) {
	total := h.receipts.GetTotalSpending(c.Request.Context())
	if !total.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": total.Error,
		})
		return
	}

	count := h.receipts.GetReceiptsCount(c.Request.Context())
	if !count.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": count.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Receipt statistics retrieved successfully",
		"data": gin.H{
			"total_spending": total.Data,
			"receipt_count":  count.Data,
		},
	})
}

// GetReceipt handles GET /receipts/:id
func (h *ReceiptHandler) GetReceipt(c *gin.Context) {
	result := h.receipts.GetReceiptByID(c.Request.Context(), c.Param("id"))
	if !result.Success {
		c.JSON(statusForError(result.Error), gin.H{
			"error": result.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Receipt retrieved successfully",
		"data":    result.Data,
	})
}

// UpdateReceipt handles PUT /receipts/:id
func (h *ReceiptHandler) UpdateReceipt(c *gin.Context) {
	var upd receipt.Update
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result := h.receipts.UpdateReceipt(c.Request.Context(), c.Param("id"), upd)
	if !result.Success {
		c.JSON(statusForError(result.Error), gin.H{
			"error": result.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Receipt updated successfully",
		"data":    result.Data,
	})
}

// DeleteReceipt handles DELETE /receipts/:id
func (h *ReceiptHandler) DeleteReceipt(c *gin.Context) {
	result := h.receipts.DeleteReceipt(c.Request.Context(), c.Param("id"))
	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": result.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Receipt deleted successfully",
	})
}

// ClearReceipts handles DELETE /receipts
func (h *ReceiptHandler) ClearReceipts(c *gin.Context) {
	result := h.receipts.ClearAllReceipts(c.Request.Context())
	if !result.Success {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": result.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "All receipts cleared successfully",
	})
}

// ExportPDF handles GET /receipts/:id/pdf
func (h *ReceiptHandler) ExportPDF(c *gin.Context) {
	result := h.receipts.GetReceiptByID(c.Request.Context(), c.Param("id"))
	if !result.Success {
		c.JSON(statusForError(result.Error), gin.H{
			"error": result.Error,
		})
		return
	}

	buf, err := h.pdfService.GenerateReceipt(&result.Data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate PDF",
		})
		return
	}

	filename := fmt.Sprintf("receipt-%s.pdf", result.Data.TransactionID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// LookupTransaction handles GET /receipts/lookup/:txn: fetches a settled
// transaction from the transaction service and returns it normalized as a
// receipt, without saving it
func (h *ReceiptHandler) LookupTransaction(c *gin.Context) {
	tx, err := h.transactions.Get(c.Request.Context(), c.Param("txn"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Transaction lookup failed",
		})
		return
	}

	r := checkout.ReceiptFromTransaction(tx, h.config.Checkout.MerchantRef)
	c.JSON(http.StatusOK, gin.H{
		"message": "Transaction retrieved successfully",
		"data":    r,
	})
}

func statusForError(message string) int {
	if message == receipt.NotFoundError {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// parseDateRange accepts RFC 3339 timestamps or bare dates. A bare end date
// extends to the end of that day so the range stays inclusive.
func parseDateRange(startParam, endParam string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

	var err error
	if startParam != "" {
		start, _, err = parseDateParam(startParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start %q", startParam)
		}
	}
	if endParam != "" {
		var dateOnly bool
		end, dateOnly, err = parseDateParam(endParam)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end %q", endParam)
		}
		if dateOnly {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end precedes start")
	}
	return start, end, nil
}

func parseDateParam(value string) (time.Time, bool, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, false, nil
	}
	ts, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false, err
	}
	return ts, true, nil
}

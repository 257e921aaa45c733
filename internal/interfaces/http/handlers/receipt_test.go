package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-companion/internal/config"
	"github.com/your-org/pos-companion/internal/domain/receipt"
	"github.com/your-org/pos-companion/internal/infrastructure/storage"
	"github.com/your-org/pos-companion/internal/pkg/pdf"
	"github.com/your-org/pos-companion/internal/pkg/transaction"
)

type fakeTransactionGetter struct {
	response *transaction.Transaction
	err      error
}

func (f *fakeTransactionGetter) Get(_ context.Context, _ string) (*transaction.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func newReceiptRouter(getter TransactionGetter) (*gin.Engine, *receipt.Service) {
	cfg := &config.Config{}
	cfg.Checkout.MerchantRef = "Fresco Supermarket"
	receipts := receipt.NewService(storage.NewMemory(), "saved_receipts")
	handler := NewReceiptHandler(receipts, getter, pdf.NewService(cfg), cfg)

	router := gin.New()
	router.GET("/receipts", handler.ListReceipts)
	router.DELETE("/receipts", handler.ClearReceipts)
	router.GET("/receipts/stats", handler.GetStats)
	router.GET("/receipts/lookup/:txn", handler.LookupTransaction)
	router.GET("/receipts/:id", handler.GetReceipt)
	router.PUT("/receipts/:id", handler.UpdateReceipt)
	router.DELETE("/receipts/:id", handler.DeleteReceipt)
	return router, receipts
}

func seedReceipt(t *testing.T, receipts *receipt.Service, txnID string, amount float64, occurred time.Time) receipt.SavedReceipt {
	t.Helper()

	res := receipts.SaveReceipt(context.Background(), receipt.Receipt{
		TransactionID: txnID,
		TotalAmount:   amount,
		ItemCount:     1,
		OccurredAt:    occurred,
	})
	require.True(t, res.Success)
	return res.Data
}

func TestListReceipts(t *testing.T) {
	router, receipts := newReceiptRouter(nil)
	seedReceipt(t, receipts, "TXN-1", 100, time.Now().UTC())
	seedReceipt(t, receipts, "TXN-2", 200, time.Now().UTC())

	w := doJSON(t, router, http.MethodGet, "/receipts", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []receipt.SavedReceipt `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
}

func TestListReceipts_DateRange(t *testing.T) {
	router, receipts := newReceiptRouter(nil)
	seedReceipt(t, receipts, "TXN-1", 100, time.Date(2024, 8, 10, 12, 0, 0, 0, time.UTC))
	seedReceipt(t, receipts, "TXN-2", 200, time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC))
	seedReceipt(t, receipts, "TXN-3", 300, time.Date(2024, 8, 20, 12, 0, 0, 0, time.UTC))

	w := doJSON(t, router, http.MethodGet, "/receipts?start=2024-08-10&end=2024-08-15", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data []receipt.SavedReceipt `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
}

func TestListReceipts_InvalidRange(t *testing.T) {
	router, _ := newReceiptRouter(nil)

	w := doJSON(t, router, http.MethodGet, "/receipts?start=not-a-date", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/receipts?start=2024-08-20&end=2024-08-10", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStats(t *testing.T) {
	router, receipts := newReceiptRouter(nil)
	seedReceipt(t, receipts, "TXN-1", 899000, time.Now().UTC())
	seedReceipt(t, receipts, "TXN-2", 240000, time.Now().UTC())

	w := doJSON(t, router, http.MethodGet, "/receipts/stats", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, 1139000.0, data["total_spending"])
	assert.Equal(t, 2.0, data["receipt_count"])
}

func TestGetReceipt(t *testing.T) {
	router, receipts := newReceiptRouter(nil)
	saved := seedReceipt(t, receipts, "TXN-1", 100, time.Now().UTC())

	w := doJSON(t, router, http.MethodGet, "/receipts/"+saved.ID, nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "TXN-1", data["transaction_id"])
}

func TestGetReceipt_NotFound(t *testing.T) {
	router, _ := newReceiptRouter(nil)

	w := doJSON(t, router, http.MethodGet, "/receipts/missing", nil, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReceipt(t *testing.T) {
	router, receipts := newReceiptRouter(nil)
	saved := seedReceipt(t, receipts, "TXN-1", 100, time.Now().UTC())

	w := doJSON(t, router, http.MethodPut, "/receipts/"+saved.ID, gin.H{"payment_ref": "Card"}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "Card", data["payment_ref"])
	assert.Equal(t, "TXN-1", data["transaction_id"])
}

func TestUpdateReceipt_NotFound(t *testing.T) {
	router, _ := newReceiptRouter(nil)

	w := doJSON(t, router, http.MethodPut, "/receipts/missing", gin.H{"payment_ref": "Card"}, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteReceipt(t *testing.T) {
	router, receipts := newReceiptRouter(nil)
	saved := seedReceipt(t, receipts, "TXN-1", 100, time.Now().UTC())

	w := doJSON(t, router, http.MethodDelete, "/receipts/"+saved.ID, nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, receipts.GetAllReceipts(context.Background()).Data)
}

func TestClearReceipts(t *testing.T) {
	router, receipts := newReceiptRouter(nil)
	seedReceipt(t, receipts, "TXN-1", 100, time.Now().UTC())
	seedReceipt(t, receipts, "TXN-2", 200, time.Now().UTC())

	w := doJSON(t, router, http.MethodDelete, "/receipts", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, receipts.GetAllReceipts(context.Background()).Data)
}

func TestLookupTransaction(t *testing.T) {
	tx := &transaction.Transaction{
		ID:          "tx_8842",
		TotalAmount: 500,
		Timestamp:   "2024-08-15T10:30:00Z",
	}
	router, receipts := newReceiptRouter(&fakeTransactionGetter{response: tx})

	w := doJSON(t, router, http.MethodGet, "/receipts/lookup/tx_8842", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "tx_8842", data["transaction_id"])
	assert.Equal(t, 500.0, data["total_amount"])
	assert.Equal(t, "Fresco Supermarket", data["merchant_ref"])

	// Lookup never writes to the store
	assert.Empty(t, receipts.GetAllReceipts(context.Background()).Data)
}

func TestLookupTransaction_ServiceFailure(t *testing.T) {
	router, _ := newReceiptRouter(&fakeTransactionGetter{err: errors.New("service down")})

	w := doJSON(t, router, http.MethodGet, "/receipts/lookup/tx_8842", nil, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{name: "bare dates", start: "2024-08-10", end: "2024-08-15"},
		{name: "rfc3339", start: "2024-08-10T00:00:00Z", end: "2024-08-15T23:59:59Z"},
		{name: "open start", start: "", end: "2024-08-15"},
		{name: "open end", start: "2024-08-10", end: ""},
		{name: "garbage", start: "soon", end: "", wantErr: true},
		{name: "inverted", start: "2024-08-20", end: "2024-08-10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := parseDateRange(tt.start, tt.end)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, end.Before(start))
		})
	}
}

// A bare end date must cover the whole day
func TestParseDateRange_EndOfDay(t *testing.T) {
	_, end, err := parseDateRange("", "2024-08-15")
	require.NoError(t, err)

	lateThatDay := time.Date(2024, 8, 15, 23, 30, 0, 0, time.UTC)
	assert.False(t, end.Before(lateThatDay))
}

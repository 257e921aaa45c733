package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-companion/internal/domain/cart"
	"github.com/your-org/pos-companion/internal/pkg/transaction"
)

type stubTransactionAPI struct {
	lastRequest transaction.CreateRequest
	response    *transaction.Transaction
	err         error
}

func (s *stubTransactionAPI) Create(_ context.Context, req transaction.CreateRequest) (*transaction.Transaction, error) {
	s.lastRequest = req
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func settledTransaction() *transaction.Transaction {
	tx := &transaction.Transaction{
		ID:               "tx_8842",
		TotalAmount:      1139000,
		Timestamp:        "2024-08-15T10:30:00Z",
		PaymentReference: "MM-55231",
	}
	tx.Items = make([]transaction.TransactionItem, 2)
	tx.Items[0].Item.Name = "Tecno Camon 20"
	tx.Items[0].Quantity = 1
	tx.Items[0].UnitPrice = 899000
	tx.Items[1].Item.Name = "MTN MiFi Router"
	tx.Items[1].Quantity = 2
	tx.Items[1].UnitPrice = 120000
	return tx
}

func twoLineCart() cart.State {
	state := cart.Empty()
	state = cart.Apply(state, cart.AddItem{Item: cart.Candidate{Code: "TC20", Name: "Tecno Camon 20", UnitPrice: 899000}})
	state = cart.Apply(state, cart.AddItem{Item: cart.Candidate{Code: "MIFI", Name: "MTN MiFi Router", UnitPrice: 120000}})
	state = cart.Apply(state, cart.IncrementQty{Code: "MIFI"})
	return state
}

func TestCheckout_EmptyCart(t *testing.T) {
	stub := &stubTransactionAPI{}
	service := NewService(stub, "Fresco Supermarket")

	_, err := service.Checkout(context.Background(), cart.Empty(), "walk-in")

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, stub.lastRequest.TransactionRef, "no submission should be attempted")
}

func TestCheckout_SubmitsCartLines(t *testing.T) {
	stub := &stubTransactionAPI{response: settledTransaction()}
	service := NewService(stub, "Fresco Supermarket")

	r, err := service.Checkout(context.Background(), twoLineCart(), "walk-in")
	require.NoError(t, err)

	require.Len(t, stub.lastRequest.LineItems, 2)
	assert.Equal(t, transaction.CreateLineItem{ProductCode: "TC20", Quantity: 1, UnitPrice: 899000}, stub.lastRequest.LineItems[0])
	assert.Equal(t, transaction.CreateLineItem{ProductCode: "MIFI", Quantity: 2, UnitPrice: 120000}, stub.lastRequest.LineItems[1])
	assert.Equal(t, "walk-in", stub.lastRequest.CustomerRef)
	assert.True(t, strings.HasPrefix(stub.lastRequest.TransactionRef, "TXN-"))

	assert.Equal(t, "tx_8842", r.TransactionID)
	assert.Equal(t, 1139000.0, r.TotalAmount)
	assert.Equal(t, "Fresco Supermarket", r.MerchantRef)
	assert.Equal(t, "MM-55231", r.PaymentRef)
}

// The receipt's item count comes from the settled transaction, not from the
// submitted cart.
func TestCheckout_ItemCountFromService(t *testing.T) {
	tx := settledTransaction()
	tx.Items = tx.Items[:1]
	stub := &stubTransactionAPI{response: tx}
	service := NewService(stub, "Fresco Supermarket")

	r, err := service.Checkout(context.Background(), twoLineCart(), "walk-in")
	require.NoError(t, err)

	assert.Equal(t, 1, r.ItemCount)
	require.Len(t, r.LineItems, 1)
	assert.Equal(t, "Tecno Camon 20", r.LineItems[0].Name)
}

func TestCheckout_ServiceFailure(t *testing.T) {
	stub := &stubTransactionAPI{err: errors.New("connection refused")}
	service := NewService(stub, "Fresco Supermarket")

	_, err := service.Checkout(context.Background(), twoLineCart(), "walk-in")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCheckoutFailed)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestReceiptFromTransaction_Timestamps(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected time.Time
	}{
		{
			name:     "rfc3339",
			raw:      "2024-08-15T10:30:00Z",
			expected: time.Date(2024, 8, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "space separated",
			raw:      "2024-08-15 10:30:00",
			expected: time.Date(2024, 8, 15, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := settledTransaction()
			tx.Timestamp = tt.raw
			r := ReceiptFromTransaction(tx, "Fresco Supermarket")
			assert.True(t, r.OccurredAt.Equal(tt.expected))
		})
	}
}

func TestReceiptFromTransaction_UnparseableTimestampFallsBack(t *testing.T) {
	tx := settledTransaction()
	tx.Timestamp = "yesterday-ish"

	before := time.Now().UTC()
	r := ReceiptFromTransaction(tx, "Fresco Supermarket")
	after := time.Now().UTC()

	assert.False(t, r.OccurredAt.Before(before))
	assert.False(t, r.OccurredAt.After(after))
}

func TestGenerateTransactionRef_Distinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		ref := generateTransactionRef()
		assert.True(t, strings.HasPrefix(ref, "TXN-"))
		seen[ref] = true
	}
	assert.Greater(t, len(seen), 1)
}

// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/your-org/pos-companion/internal/domain/cart"
	"github.com/your-org/pos-companion/internal/domain/receipt"
	"github.com/your-org/pos-companion/internal/pkg/transaction"
)

var (
	// ErrEmptyCart is returned when checkout is attempted on a cart with no
	// lines
	ErrEmptyCart = errors.New("cannot checkout an empty cart")

	// ErrCheckoutFailed wraps any transaction service failure. The cart is
	// left untouched so the operation can be retried.
	ErrCheckoutFailed = errors.New("checkout failed")
)

// TransactionAPI is the slice of the transaction service client checkout
// depends on
type TransactionAPI interface {
	Create(ctx context.Context, req transaction.CreateRequest) (*transaction.Transaction, error)
}

// Service turns a cart into a settled transaction and a normalized receipt
type Service struct {
	client      TransactionAPI
	merchantRef string
}

// NewService creates a new checkout service
func NewService(client TransactionAPI, merchantRef string) *Service {
	return &Service{client: client, merchantRef: merchantRef}
}

// Checkout submits the cart's lines to the transaction service and maps the
// settled transaction to a receipt. It never mutates the cart; clearing the
// cart after success is the caller's responsibility.
func (s *Service) Checkout(ctx context.Context, state cart.State, customerRef string) (*receipt.Receipt, error) {
	if state.IsEmpty() {
		return nil, ErrEmptyCart
	}

	req := transaction.CreateRequest{
		TransactionRef: generateTransactionRef(),
		CustomerRef:    customerRef,
		LineItems:      make([]transaction.CreateLineItem, 0, len(state.Lines)),
	}
	for _, line := range state.Lines {
		req.LineItems = append(req.LineItems, transaction.CreateLineItem{
			ProductCode: line.Code,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		})
	}

	tx, err := s.client.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	r := ReceiptFromTransaction(tx, s.merchantRef)
	return &r, nil
}

// ReceiptFromTransaction normalizes a settled transaction into a receipt.
// The item count is the number of settled lines as reported by the service,
// not a recount of the submitted cart.
func ReceiptFromTransaction(tx *transaction.Transaction, merchantRef string) receipt.Receipt {
	r := receipt.Receipt{
		TransactionID: tx.ID,
		TotalAmount:   float64(tx.TotalAmount),
		ItemCount:     len(tx.Items),
		OccurredAt:    parseTimestamp(tx.Timestamp),
		MerchantRef:   merchantRef,
		PaymentRef:    tx.PaymentReference,
		LineItems:     make([]receipt.LineItem, 0, len(tx.Items)),
	}
	for _, item := range tx.Items {
		r.LineItems = append(r.LineItems, receipt.LineItem{
			Name:      item.Item.Name,
			Quantity:  item.Quantity,
			UnitPrice: float64(item.UnitPrice),
		})
	}
	return r
}

// parseTimestamp accepts the service's timestamp formats; an unparseable
// value falls back to the current time rather than failing the checkout.
func parseTimestamp(value string) time.Time {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02 15:04:05", value); err == nil {
		return ts.UTC()
	}
	return time.Now().UTC()
}

// generateTransactionRef builds a client-side reference for idempotent
// submission, e.g. TXN-1724917800123-4821
func generateTransactionRef() string {
	return fmt.Sprintf("TXN-%d-%04d", time.Now().UnixMilli(), rand.Intn(10000))
}

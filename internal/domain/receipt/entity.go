// internal/domain/receipt/entity.go
package receipt

import "time"

// LineItem is a denormalized snapshot of one purchased product. It is
// independent of the live cart and catalog, since products may change after
// purchase.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Receipt is the normalized record of a completed transaction, derived from
// the transaction service's response.
type Receipt struct {
	TransactionID string     `json:"transaction_id"`
	TotalAmount   float64    `json:"total_amount"`
	ItemCount     int        `json:"item_count"`
	OccurredAt    time.Time  `json:"occurred_at"`
	MerchantRef   string     `json:"merchant_ref,omitempty"`
	PaymentRef    string     `json:"payment_ref,omitempty"`
	LineItems     []LineItem `json:"line_items,omitempty"`
}

// SavedReceipt is a Receipt plus storage metadata. ID is storage-generated
// and independent of TransactionID; the same transaction can be saved more
// than once and each save gets its own ID.
type SavedReceipt struct {
	Receipt
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
}

// Update carries the fields of a partial receipt update. Nil fields are left
// untouched; set fields are shallow-merged into the stored record.
type Update struct {
	TransactionID *string     `json:"transaction_id,omitempty"`
	TotalAmount   *float64    `json:"total_amount,omitempty"`
	ItemCount     *int        `json:"item_count,omitempty"`
	OccurredAt    *time.Time  `json:"occurred_at,omitempty"`
	MerchantRef   *string     `json:"merchant_ref,omitempty"`
	PaymentRef    *string     `json:"payment_ref,omitempty"`
	LineItems     *[]LineItem `json:"line_items,omitempty"`
}

// Result is the uniform outcome of every store operation. Failures are
// reported here rather than panicking past the store boundary, so callers
// decide whether a failure is fatal or ignorable.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](message string) Result[T] {
	return Result[T]{Success: false, Error: message}
}

// internal/domain/receipt/service.go
package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/your-org/pos-companion/internal/infrastructure/storage"
)

// NotFoundError is the Result error reported when no receipt matches the
// requested id.
const NotFoundError = "Receipt not found"

// Service handles durable receipt storage. The whole collection is one
// serialized array under a single storage key: every mutation loads the full
// collection, changes it in memory and writes the full collection back. Two
// overlapping mutations can therefore lose one of the writes; the underlying
// store replaces the value atomically per key, so prior data is never
// corrupted, only the in-flight mutation can be lost.
type Service struct {
	store storage.KV
	key   string
}

// NewService creates a new receipt store over the given key-value backend
func NewService(store storage.KV, key string) *Service {
	return &Service{store: store, key: key}
}

// SaveReceipt appends a new SavedReceipt with a generated id and save
// timestamp. Saving never deduplicates by transaction id.
func (s *Service) SaveReceipt(ctx context.Context, r Receipt) Result[SavedReceipt] {
	receipts, err := s.loadAll(ctx)
	if err != nil {
		return fail[SavedReceipt](fmt.Sprintf("Failed to retrieve existing receipts: %v", err))
	}

	saved := SavedReceipt{
		Receipt: r,
		ID:      generateReceiptID(),
		SavedAt: time.Now().UTC(),
	}
	receipts = append(receipts, saved)

	if err := s.writeAll(ctx, receipts); err != nil {
		return fail[SavedReceipt](fmt.Sprintf("Failed to save receipt: %v", err))
	}

	return ok(saved)
}

// GetAllReceipts returns the full collection. A missing or unreadable blob
// yields an empty collection, never an outward failure.
func (s *Service) GetAllReceipts(ctx context.Context) Result[[]SavedReceipt] {
	receipts, err := s.loadAll(ctx)
	if err != nil {
		return ok([]SavedReceipt{})
	}
	return ok(receipts)
}

// GetReceiptByID finds a receipt by its storage id
func (s *Service) GetReceiptByID(ctx context.Context, id string) Result[SavedReceipt] {
	receipts, err := s.loadAll(ctx)
	if err != nil {
		return fail[SavedReceipt](fmt.Sprintf("Failed to retrieve receipts: %v", err))
	}

	for _, r := range receipts {
		if r.ID == id {
			return ok(r)
		}
	}
	return fail[SavedReceipt](NotFoundError)
}

// DeleteReceipt removes the receipt with the given id. Deleting an id that
// was never present still succeeds.
func (s *Service) DeleteReceipt(ctx context.Context, id string) Result[bool] {
	receipts, err := s.loadAll(ctx)
	if err != nil {
		return fail[bool](fmt.Sprintf("Failed to retrieve receipts: %v", err))
	}

	filtered := make([]SavedReceipt, 0, len(receipts))
	for _, r := range receipts {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}

	if err := s.writeAll(ctx, filtered); err != nil {
		return fail[bool](fmt.Sprintf("Failed to delete receipt: %v", err))
	}
	return ok(true)
}

// UpdateReceipt shallow-merges the set fields of upd into the matching record
func (s *Service) UpdateReceipt(ctx context.Context, id string, upd Update) Result[SavedReceipt] {
	receipts, err := s.loadAll(ctx)
	if err != nil {
		return fail[SavedReceipt](fmt.Sprintf("Failed to retrieve receipts: %v", err))
	}

	index := -1
	for i, r := range receipts {
		if r.ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return fail[SavedReceipt](NotFoundError)
	}

	merged := receipts[index]
	if upd.TransactionID != nil {
		merged.TransactionID = *upd.TransactionID
	}
	if upd.TotalAmount != nil {
		merged.TotalAmount = *upd.TotalAmount
	}
	if upd.ItemCount != nil {
		merged.ItemCount = *upd.ItemCount
	}
	if upd.OccurredAt != nil {
		merged.OccurredAt = *upd.OccurredAt
	}
	if upd.MerchantRef != nil {
		merged.MerchantRef = *upd.MerchantRef
	}
	if upd.PaymentRef != nil {
		merged.PaymentRef = *upd.PaymentRef
	}
	if upd.LineItems != nil {
		merged.LineItems = *upd.LineItems
	}
	receipts[index] = merged

	if err := s.writeAll(ctx, receipts); err != nil {
		return fail[SavedReceipt](fmt.Sprintf("Failed to update receipt: %v", err))
	}
	return ok(merged)
}

// GetReceiptsByDateRange filters the collection by OccurredAt, inclusive on
// both ends
func (s *Service) GetReceiptsByDateRange(ctx context.Context, start, end time.Time) Result[[]SavedReceipt] {
	receipts, err := s.loadAll(ctx)
	if err != nil {
		return fail[[]SavedReceipt](fmt.Sprintf("Failed to retrieve receipts: %v", err))
	}

	filtered := make([]SavedReceipt, 0, len(receipts))
	for _, r := range receipts {
		if r.OccurredAt.Before(start) || r.OccurredAt.After(end) {
			continue
		}
		filtered = append(filtered, r)
	}
	return ok(filtered)
}

// GetTotalSpending sums TotalAmount over the full collection
func (s *Service) GetTotalSpending(ctx context.Context) Result[float64] {
	receipts, err := s.loadAll(ctx)
	if err != nil {
		return fail[float64](fmt.Sprintf("Failed to calculate total: %v", err))
	}

	total := 0.0
	for _, r := range receipts {
		total += r.TotalAmount
	}
	return ok(total)
}

// GetReceiptsCount returns the number of stored receipts
func (s *Service) GetReceiptsCount(ctx context.Context) Result[int] {
	receipts, err := s.loadAll(ctx)
	if err != nil {
		return fail[int](fmt.Sprintf("Failed to get count: %v", err))
	}
	return ok(len(receipts))
}

// ClearAllReceipts deletes the entire collection
func (s *Service) ClearAllReceipts(ctx context.Context) Result[bool] {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fail[bool](fmt.Sprintf("Failed to clear receipts: %v", err))
	}
	return ok(true)
}

// loadAll reads and deserializes the whole collection. A missing key is an
// empty collection; a read or parse failure is an error for mutating callers
// to report.
func (s *Service) loadAll(ctx context.Context) ([]SavedReceipt, error) {
	blob, err := s.store.Get(ctx, s.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []SavedReceipt{}, nil
	}
	if err != nil {
		return nil, err
	}

	var receipts []SavedReceipt
	if err := json.Unmarshal([]byte(blob), &receipts); err != nil {
		return nil, err
	}
	if receipts == nil {
		receipts = []SavedReceipt{}
	}
	return receipts, nil
}

func (s *Service) writeAll(ctx context.Context, receipts []SavedReceipt) error {
	blob, err := json.Marshal(receipts)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, s.key, string(blob))
}

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// generateReceiptID builds a storage id from the current time plus a short
// random token, e.g. receipt_1724917800123_x7k29dm1q
func generateReceiptID() string {
	token := make([]byte, 9)
	for i := range token {
		token[i] = tokenAlphabet[rand.Intn(len(tokenAlphabet))]
	}
	return fmt.Sprintf("receipt_%d_%s", time.Now().UnixMilli(), token)
}

package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/pos-companion/internal/config"
	"github.com/your-org/pos-companion/internal/domain/receipt"
)

func TestGenerateHTML(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "POS Companion"
	cfg.Checkout.MerchantRef = "Fresco Supermarket"
	service := NewService(cfg)

	saved := &receipt.SavedReceipt{
		Receipt: receipt.Receipt{
			TransactionID: "tx_8842",
			TotalAmount:   1139000,
			ItemCount:     2,
			OccurredAt:    time.Date(2024, 8, 15, 10, 30, 0, 0, time.UTC),
			PaymentRef:    "Mobile Money",
			LineItems: []receipt.LineItem{
				{Name: "Tecno Camon 20", Quantity: 1, UnitPrice: 899000},
				{Name: "MTN MiFi Router", Quantity: 2, UnitPrice: 120000},
			},
		},
		ID:      "receipt_1724917800123_x7k29dm1q",
		SavedAt: time.Date(2024, 8, 15, 10, 31, 0, 0, time.UTC),
	}

	html, err := service.generateHTML(ReceiptData{
		Receipt:  saved,
		Merchant: cfg.Checkout.MerchantRef,
		AppName:  cfg.App.Name,
	})

	require.NoError(t, err)
	assert.Contains(t, html, "tx_8842")
	assert.Contains(t, html, "Fresco Supermarket")
	assert.Contains(t, html, "Tecno Camon 20")
	assert.Contains(t, html, "1139000.00")
	assert.Contains(t, html, "Mobile Money")
}

// The stored merchant reference wins over the configured one
func TestGenerateReceipt_PrefersStoredMerchant(t *testing.T) {
	cfg := &config.Config{}
	cfg.Checkout.MerchantRef = "Configured Shop"
	service := NewService(cfg)

	saved := &receipt.SavedReceipt{
		Receipt: receipt.Receipt{MerchantRef: "Kampala Branch"},
	}

	data := ReceiptData{Receipt: saved, Merchant: service.config.Checkout.MerchantRef}
	if saved.MerchantRef != "" {
		data.Merchant = saved.MerchantRef
	}
	html, err := service.generateHTML(data)

	require.NoError(t, err)
	assert.Contains(t, html, "Kampala Branch")
	assert.NotContains(t, html, "Configured Shop")
}

// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/pos-companion/internal/config"
	"github.com/your-org/pos-companion/internal/domain/receipt"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateReceipt renders a saved receipt as a printable PDF
func (s *Service) GenerateReceipt(r *receipt.SavedReceipt) (*bytes.Buffer, error) {
	data := ReceiptData{
		Receipt:  r,
		Merchant: s.config.Checkout.MerchantRef,
		AppName:  s.config.App.Name,
	}
	if r.MerchantRef != "" {
		data.Merchant = r.MerchantRef
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(data ReceiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	Receipt  *receipt.SavedReceipt `json:"receipt"`
	Merchant string                `json:"merchant"`
	AppName  string                `json:"app_name"`
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.Receipt.TransactionID}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .merchant-info {
            flex: 1;
        }
        .receipt-info {
            text-align: right;
            flex: 1;
        }
        .receipt-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .receipt-details {
            margin-bottom: 30px;
        }
        .receipt-details table {
            width: 100%;
        }
        .receipt-details td {
            padding: 5px 0;
            vertical-align: top;
        }
        .receipt-details .label {
            font-weight: bold;
            width: 150px;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 90px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 120px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="merchant-info">
            <h1>{{.Merchant}}</h1>
            <p>{{.AppName}}</p>
        </div>
        <div class="receipt-info">
            <div class="receipt-title">RECEIPT</div>
            <p><strong>Transaction #:</strong> {{.Receipt.TransactionID}}</p>
            <p><strong>Date:</strong> {{.Receipt.OccurredAt.Format "January 2, 2006 15:04"}}</p>
            {{if .Receipt.PaymentRef}}<p><strong>Payment:</strong> {{.Receipt.PaymentRef}}</p>{{end}}
        </div>
    </div>

    <div class="receipt-details">
        <table>
            <tr>
                <td class="label">Receipt ID:</td>
                <td>{{.Receipt.ID}}</td>
                <td class="label" style="text-align: right;">Items:</td>
                <td style="text-align: right;">{{.Receipt.ItemCount}}</td>
            </tr>
            <tr>
                <td class="label">Saved:</td>
                <td>{{.Receipt.SavedAt.Format "January 2, 2006 15:04"}}</td>
                <td></td>
                <td></td>
            </tr>
        </table>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Unit Price</th>
            </tr>
        </thead>
        <tbody>
            {{range .Receipt.LineItems}}
            <tr>
                <td><strong>{{.Name}}</strong></td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{printf "%.2f" .UnitPrice}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">{{printf "%.2f" .Receipt.TotalAmount}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for shopping with us!</p>
    </div>
</body>
</html>
`

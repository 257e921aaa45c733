// internal/pkg/transaction/client.go
package transaction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Amount is a monetary value that the transaction service may encode either
// as a JSON number or as a string, e.g. "1139000.00".
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		value, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", s, err)
		}
		*a = Amount(value)
		return nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*a = Amount(value)
	return nil
}

// CreateRequest is the transaction submission payload
type CreateRequest struct {
	TransactionRef string           `json:"transaction_ref"`
	CustomerRef    string           `json:"customer_ref"`
	LineItems      []CreateLineItem `json:"line_items"`
}

// CreateLineItem is one cart line in a transaction submission
type CreateLineItem struct {
	ProductCode string  `json:"product_code"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Transaction is the service's record of a completed transaction
type Transaction struct {
	ID               string            `json:"id"`
	TotalAmount      Amount            `json:"total_amount"`
	Timestamp        string            `json:"timestamp"`
	PaymentReference string            `json:"payment_reference"`
	Items            []TransactionItem `json:"items"`
}

// TransactionItem is one settled line on a transaction, with the product
// snapshot nested under "item"
type TransactionItem struct {
	Item struct {
		Name string `json:"name"`
	} `json:"item"`
	Quantity  int    `json:"quantity"`
	UnitPrice Amount `json:"unit_price"`
}

type envelope struct {
	Data Transaction `json:"data"`
}

// Client talks to the remote transaction service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a transaction service client. Requests time out after the
// given duration.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Create submits a transaction and returns the service's settled record
func (c *Client) Create(ctx context.Context, req CreateRequest) (*Transaction, error) {
	body, err := c.call(ctx, http.MethodPost, "/transactions", req)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse transaction response: %w", err)
	}
	return &env.Data, nil
}

// Get fetches a transaction by its service-side id
func (c *Client) Get(ctx context.Context, id string) (*Transaction, error) {
	body, err := c.call(ctx, http.MethodGet, "/transactions/"+id, nil)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse transaction response: %w", err)
	}
	return &env.Data, nil
}

// call makes HTTP calls to the transaction service
func (c *Client) call(ctx context.Context, method, endpoint string, data interface{}) ([]byte, error) {
	var reqBody []byte
	var err error

	if data != nil {
		reqBody, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request data: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make API call: %w", err)
	}
	defer resp.Body.Close()

	var respBody bytes.Buffer
	if _, err := respBody.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API call failed with status %d: %s", resp.StatusCode, respBody.String())
	}
	return respBody.Bytes(), nil
}

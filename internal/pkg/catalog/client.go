// internal/pkg/catalog/client.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Serial tolerates the catalog service encoding serial numbers as either a
// JSON string or a bare number.
type Serial string

func (s *Serial) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Serial(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = Serial(n.String())
	return nil
}

// Item is a catalog product looked up by serial number
type Item struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	SerialNo Serial  `json:"serial_no"`
}

type envelope struct {
	Data Item `json:"data"`
}

// Client talks to the remote catalog service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog service client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// LookupItem fetches a product by its serial number
func (c *Client) LookupItem(ctx context.Context, serial string) (*Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/items/"+serial, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
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

	var env envelope
	if err := json.Unmarshal(respBody.Bytes(), &env); err != nil {
		return nil, fmt.Errorf("failed to parse item response: %w", err)
	}
	return &env.Data, nil
}

// Package sheets delivers payment audit rows to the Apps Script webhook
// backing the merchant's payment spreadsheet. The webhook reads everything
// from query parameters.
package sheets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/purnamyoga/checkout-backend/internal/notify"
)

// Client posts rows to the sheet webhook.
type Client struct {
	webhookURL string
	secret     string
	httpClient *http.Client
}

func NewClient(webhookURL, secret string) *Client {
	return &Client{
		webhookURL: webhookURL,
		secret:     secret,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Append writes one event as a sheet row.
func (c *Client) Append(ctx context.Context, ev notify.Event) error {
	params := url.Values{}
	params.Set("secret", c.secret)
	params.Set("order_id", ev.OrderID)
	params.Set("status", ev.Status)
	if ev.Amount != 0 {
		params.Set("amount", strconv.FormatFloat(ev.Amount, 'f', -1, 64))
	}
	if ev.Currency != "" {
		params.Set("currency", ev.Currency)
	}
	if ev.Email != "" {
		params.Set("email", ev.Email)
	}
	if ev.Phone != "" {
		params.Set("phone", ev.Phone)
	}
	if ev.Name != "" {
		params.Set("name", ev.Name)
	}
	if ev.ProductID != "" {
		params.Set("product_id", ev.ProductID)
	}
	if ev.RawResponse != "" {
		params.Set("raw_response", ev.RawResponse)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// Package gateway is a thin RPC wrapper around the hosted payment provider:
// order-session creation, authoritative order status and refunds.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the provider's merchant API.
type Client struct {
	baseURL     string
	apiKey      string
	merchantID  string
	responseKey []byte
	httpClient  *http.Client
}

// NewClient returns a Client for the given merchant credentials. responseKey
// is the secret used by the provider to sign asynchronous callbacks.
func NewClient(baseURL, apiKey, merchantID, responseKey string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		merchantID:  merchantID,
		responseKey: []byte(responseKey),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ResponseKey exposes the callback-signature secret for verification.
func (c *Client) ResponseKey() []byte {
	return c.responseKey
}

// GenerateOrderID produces an unguessable order identifier. Predictable ids
// would let an attacker pre-compute replayable callbacks.
func GenerateOrderID() string {
	return "order_" + uuid.NewString()
}

// GenerateRefundRequestID produces a default idempotency key for refunds.
func GenerateRefundRequestID() string {
	return "refund_" + uuid.NewString()
}

// OrderSession creates a hosted-checkout session and returns its payment links.
func (c *Client) OrderSession(ctx context.Context, payload SessionPayload) (*SessionResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/session", payload)
	if err != nil {
		return nil, err
	}
	var resp SessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	return &resp, nil
}

// OrderStatus fetches the provider's authoritative status for an order.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (*StatusResponse, error) {
	body, err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil)
	if err != nil {
		return nil, err
	}
	var resp StatusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	resp.Raw = body
	return &resp, nil
}

// Refund requests a refund against an order. The payload's UniqueRequestID
// makes retried refund submissions idempotent on the provider side.
func (c *Client) Refund(ctx context.Context, payload RefundPayload) (*RefundResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/orders/"+payload.OrderID+"/refunds", payload)
	if err != nil {
		return nil, err
	}
	var resp RefundResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode refund response: %w", err)
	}
	resp.Raw = body
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("x-merchantid", c.merchantID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

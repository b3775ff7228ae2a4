package gateway

import (
	"encoding/json"
	"fmt"
)

// SessionPayload is the order-session creation request sent to the provider.
// Amount and currency always come from the trusted catalog, never from the
// shopper's browser.
type SessionPayload struct {
	OrderID    string  `json:"order_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	ReturnURL  string  `json:"return_url"`
	CustomerID string  `json:"customer_id"`
	Email      string  `json:"customer_email,omitempty"`
	Phone      string  `json:"customer_phone,omitempty"`
	Name       string  `json:"first_name,omitempty"`
}

// PaymentLinks holds the hosted checkout URLs returned for a session.
type PaymentLinks struct {
	Web    string `json:"web"`
	Mobile string `json:"mobile,omitempty"`
}

// SessionResponse is the provider's answer to a session creation.
type SessionResponse struct {
	ID           string       `json:"id"`
	OrderID      string       `json:"order_id"`
	Status       string       `json:"status"`
	PaymentLinks PaymentLinks `json:"payment_links"`
}

// StatusResponse is the provider's authoritative view of an order. Raw keeps
// the undecoded body for audit logging downstream.
type StatusResponse struct {
	OrderID  string  `json:"order_id"`
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`

	Raw json.RawMessage `json:"-"`
}

// RefundPayload is a refund request against a charged order.
type RefundPayload struct {
	OrderID         string  `json:"order_id"`
	Amount          float64 `json:"amount"`
	UniqueRequestID string  `json:"unique_request_id"`
}

// RefundResponse is the provider's answer to a refund request.
type RefundResponse struct {
	OrderID string          `json:"order_id"`
	Status  string          `json:"status"`
	Raw     json.RawMessage `json:"-"`
}

// APIError is a provider API-level failure (non-2xx response), distinct from
// transport or decoding errors.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway api error: status=%d body=%s", e.StatusCode, e.Body)
}

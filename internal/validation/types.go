package validation

// CreateSessionRequest is the payload for POST /initiatePayment. The client
// sends only a product id; price and currency are resolved server-side from
// the catalog.
type CreateSessionRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// RefundRequest is the payload for POST /initiateRefund.
type RefundRequest struct {
	OrderID         string  `json:"order_id" validate:"required"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	UniqueRequestID string  `json:"unique_request_id,omitempty"` // refund idempotency key; generated when absent
}

package ledger

import "time"

// Gateway-reported order statuses with dedicated handling. The status set is
// open; anything else is stored as-is.
const (
	StatusCreated              = "CREATED"
	StatusPending              = "PENDING"
	StatusPendingVBV           = "PENDING_VBV"
	StatusCharged              = "CHARGED"
	StatusAuthorizationFailed  = "AUTHORIZATION_FAILED"
	StatusAuthenticationFailed = "AUTHENTICATION_FAILED"
)

// Order is the item stored in the orders DynamoDB table. Records are
// append-only: one record per order id, written once on first successful
// reconciliation and never updated.
type Order struct {
	OrderID   string    `dynamodbav:"order_id"` // PK
	Status    string    `dynamodbav:"status"`
	CreatedAt time.Time `dynamodbav:"created_at"`
}

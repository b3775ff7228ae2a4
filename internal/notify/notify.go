// Package notify carries payment events to the logging pipeline. Delivery is
// fire-and-forget: reconciliation correctness never depends on it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/purnamyoga/checkout-backend/internal/aws"
)

// Event is one row destined for the payment audit sheet.
type Event struct {
	OrderID     string  `json:"order_id"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	Email       string  `json:"email,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Name        string  `json:"name,omitempty"`
	ProductID   string  `json:"product_id,omitempty"`
	RawResponse string  `json:"raw_response,omitempty"`
}

// Notifier publishes payment events.
type Notifier interface {
	Publish(ctx context.Context, ev Event) error
}

// SQSNotifier publishes events to the payment-events queue, from which the
// worker delivers them to the sheet webhook.
type SQSNotifier struct {
	publisher *aws.Publisher
}

func NewSQSNotifier(sqsClient aws.SQSAPI, queueURL string) *SQSNotifier {
	return &SQSNotifier{publisher: aws.NewPublisher(sqsClient, queueURL)}
}

func (n *SQSNotifier) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	attrs := map[string]string{
		"order_id": ev.OrderID,
		"status":   ev.Status,
	}
	if err := n.publisher.SendPaymentEvent(ctx, string(body), attrs); err != nil {
		return fmt.Errorf("publish payment event: %w", err)
	}
	return nil
}

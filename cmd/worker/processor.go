package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/purnamyoga/checkout-backend/internal/metrics"
	"github.com/purnamyoga/checkout-backend/internal/notify"
	"github.com/purnamyoga/checkout-backend/internal/sheets"
)

// SheetAppender delivers one payment event row.
type SheetAppender interface {
	Append(ctx context.Context, ev notify.Event) error
}

// Counter records delivery metrics.
type Counter interface {
	Count(ctx context.Context, metric string)
}

// Processor consumes payment events from SQS and delivers them to the
// payment sheet webhook. The API publishes fire-and-forget; retries live
// here, driven by SQS redelivery.
type Processor struct {
	sheet   SheetAppender
	counter Counter
	logger  *zap.SugaredLogger
}

// NewProcessor creates a worker processor with its collaborators injected.
func NewProcessor(sheet *sheets.Client, counter Counter, logger *zap.SugaredLogger) *Processor {
	return &Processor{
		sheet:   sheet,
		counter: counter,
		logger:  logger,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.logger.Infow("received SQS messages", "count", len(ev.Records))
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			p.logger.Errorw("worker error", "error", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var ev notify.Event
	if err := json.Unmarshal([]byte(rec.Body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	p.logger.Infow("delivering payment event", "order_id", ev.OrderID, "status", ev.Status)

	if err := p.sheet.Append(ctx, ev); err != nil {
		return fmt.Errorf("append sheet row for order %s: %w", ev.OrderID, err)
	}

	p.counter.Count(ctx, metrics.SheetRowDelivered)
	return nil
}

package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/purnamyoga/checkout-backend/internal/metrics"
	"github.com/purnamyoga/checkout-backend/internal/notify"
)

type fakeSheet struct {
	mu   sync.Mutex
	rows []notify.Event
	err  error
}

func (f *fakeSheet) Append(ctx context.Context, ev notify.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, ev)
	return nil
}

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeCounter() *fakeCounter { return &fakeCounter{counts: map[string]int{}} }

func (f *fakeCounter) Count(ctx context.Context, metric string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[metric]++
}

func newTestProcessor(sheet SheetAppender, counter Counter) *Processor {
	return &Processor{
		sheet:   sheet,
		counter: counter,
		logger:  zap.NewNop().Sugar(),
	}
}

func TestHandleDeliversEvents(t *testing.T) {
	sheet := &fakeSheet{}
	counter := newFakeCounter()
	p := newTestProcessor(sheet, counter)

	ev := events.SQSEvent{
		Records: []events.SQSMessage{
			{Body: `{"order_id":"order_1","status":"CHARGED","amount":900,"currency":"INR"}`},
			{Body: `{"order_id":"order_2","status":"REFUND_PENDING","amount":450}`},
		},
	}

	if err := p.Handle(context.Background(), ev); err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if len(sheet.rows) != 2 {
		t.Fatalf("expected 2 delivered rows, got %d", len(sheet.rows))
	}
	if sheet.rows[0].OrderID != "order_1" || sheet.rows[0].Status != "CHARGED" {
		t.Fatalf("unexpected first row %+v", sheet.rows[0])
	}
	if sheet.rows[1].Status != "REFUND_PENDING" {
		t.Fatalf("unexpected second row %+v", sheet.rows[1])
	}
	if counter.counts[metrics.SheetRowDelivered] != 2 {
		t.Fatalf("expected 2 delivery metrics, got %d", counter.counts[metrics.SheetRowDelivered])
	}
}

func TestHandleInvalidBody(t *testing.T) {
	sheet := &fakeSheet{}
	p := newTestProcessor(sheet, newFakeCounter())

	ev := events.SQSEvent{Records: []events.SQSMessage{{Body: `not json`}}}
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatalf("expected error for invalid message body")
	}
	if len(sheet.rows) != 0 {
		t.Fatalf("row delivered despite invalid body")
	}
}

func TestHandleAppendFailurePropagates(t *testing.T) {
	sheet := &fakeSheet{err: errors.New("webhook down")}
	counter := newFakeCounter()
	p := newTestProcessor(sheet, counter)

	ev := events.SQSEvent{Records: []events.SQSMessage{{Body: `{"order_id":"order_1","status":"CHARGED"}`}}}
	if err := p.Handle(context.Background(), ev); err == nil {
		t.Fatalf("expected error so SQS redelivers the message")
	}
	if counter.counts[metrics.SheetRowDelivered] != 0 {
		t.Fatalf("delivery metric bumped despite failure")
	}
}

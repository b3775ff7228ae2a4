// Package reconcile processes one payment callback end-to-end exactly once:
// admit, verify, dedupe, fetch the authoritative status, persist, notify.
package reconcile

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/purnamyoga/checkout-backend/internal/gateway"
	"github.com/purnamyoga/checkout-backend/internal/ledger"
	"github.com/purnamyoga/checkout-backend/internal/metrics"
	"github.com/purnamyoga/checkout-backend/internal/notify"
	"github.com/purnamyoga/checkout-backend/internal/signature"
)

// Outcome is the terminal state of one callback reconciliation.
type Outcome int

const (
	// OutcomeMissingOrderID - request carried no order id; nothing was touched.
	OutcomeMissingOrderID Outcome = iota
	// OutcomeBusy - another reconciliation for this order id is in flight.
	OutcomeBusy
	// OutcomeBadSignature - callback failed HMAC verification.
	OutcomeBadSignature
	// OutcomeDuplicate - the ledger already holds a record for this order id.
	OutcomeDuplicate
	// OutcomePersisted - first valid callback; status durably recorded.
	OutcomePersisted
	// OutcomeFailed - a collaborator failed; nothing was persisted.
	OutcomeFailed
)

// Result describes how a callback resolved.
type Result struct {
	Outcome Outcome
	OrderID string
	Status  string // gateway-authoritative status, set on OutcomePersisted
	Message string // display message for the status, set on OutcomePersisted
}

// Guard is the process-local in-flight set (spec: best-effort concurrency
// guard; swappable for a distributed lock without touching this package).
type Guard interface {
	TryAcquire(orderID string) bool
	Release(orderID string)
}

// Ledger is the durable order store with a uniqueness constraint on order id.
type Ledger interface {
	FindByOrderID(ctx context.Context, orderID string) (*ledger.Order, error)
	Create(ctx context.Context, orderID, status string) (*ledger.Order, error)
}

// StatusFetcher yields the provider's authoritative view of an order. The
// callback body's own status field is never trusted for persistence.
type StatusFetcher interface {
	OrderStatus(ctx context.Context, orderID string) (*gateway.StatusResponse, error)
}

// Counter records outcome metrics best-effort.
type Counter interface {
	Count(ctx context.Context, metric string)
}

// Reconciler composes the callback-processing collaborators. All are
// injected so they can be swapped for test doubles or distributed
// implementations.
type Reconciler struct {
	guard       Guard
	ledger      Ledger
	gateway     StatusFetcher
	responseKey []byte
	notifier    notify.Notifier
	counter     Counter
	logger      *zap.SugaredLogger
}

func NewReconciler(guard Guard, l Ledger, g StatusFetcher, responseKey []byte, n notify.Notifier, c Counter, logger *zap.SugaredLogger) *Reconciler {
	return &Reconciler{
		guard:       guard,
		ledger:      l,
		gateway:     g,
		responseKey: responseKey,
		notifier:    n,
		counter:     c,
		logger:      logger,
	}
}

// Process runs the reconciliation state machine over one callback's
// parameters. It never returns an error: every collaborator failure is
// absorbed into a Result so nothing escapes to the transport layer. The
// in-flight guard is released on every path on which it was acquired,
// including panics unwinding through the deferred release.
func (r *Reconciler) Process(ctx context.Context, params map[string]string) Result {
	orderID := params["order_id"]
	if orderID == "" {
		orderID = params["orderId"]
	}
	if orderID == "" {
		return Result{Outcome: OutcomeMissingOrderID}
	}

	if !r.guard.TryAcquire(orderID) {
		r.logger.Infow("order already being processed, rejecting duplicate request", "order_id", orderID)
		r.counter.Count(ctx, metrics.CallbackBusy)
		return Result{Outcome: OutcomeBusy, OrderID: orderID}
	}
	defer r.guard.Release(orderID)

	// Verify before any trusted action. A callback that fails HMAC
	// verification must not trigger a gateway query or a ledger read.
	if !signature.Verify(params, r.responseKey) {
		r.logger.Errorw("callback signature verification failed", "order_id", orderID, "reason", "signature_mismatch")
		r.counter.Count(ctx, metrics.CallbackSignatureMismatch)
		return Result{Outcome: OutcomeBadSignature, OrderID: orderID}
	}

	existing, err := r.ledger.FindByOrderID(ctx, orderID)
	if err != nil {
		r.logger.Errorw("ledger lookup failed", "order_id", orderID, "error", err)
		r.counter.Count(ctx, metrics.CallbackFailed)
		return Result{Outcome: OutcomeFailed, OrderID: orderID}
	}
	if existing != nil {
		// Replayed or duplicate callback. Short-circuit without re-querying
		// the gateway or re-notifying the sheet.
		r.logger.Infow("duplicate callback detected", "order_id", orderID, "recorded_status", existing.Status)
		r.counter.Count(ctx, metrics.CallbackDuplicate)
		return Result{Outcome: OutcomeDuplicate, OrderID: orderID, Status: existing.Status}
	}

	statusResp, err := r.gateway.OrderStatus(ctx, orderID)
	if err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) {
			r.logger.Errorw("gateway order status failed", "order_id", orderID, "status_code", apiErr.StatusCode, "error", err)
		} else {
			r.logger.Errorw("gateway order status failed", "order_id", orderID, "error", err)
		}
		r.counter.Count(ctx, metrics.CallbackFailed)
		return Result{Outcome: OutcomeFailed, OrderID: orderID}
	}

	created, err := r.ledger.Create(ctx, orderID, statusResp.Status)
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateOrder) {
			// Lost the race against a concurrent creator. The constraint is
			// the authoritative tie-break; treat exactly like a duplicate.
			r.logger.Infow("concurrent create lost, treating as duplicate", "order_id", orderID)
			r.counter.Count(ctx, metrics.CallbackDuplicate)
			return Result{Outcome: OutcomeDuplicate, OrderID: orderID, Status: statusResp.Status}
		}
		r.logger.Errorw("ledger create failed", "order_id", orderID, "error", err)
		r.counter.Count(ctx, metrics.CallbackFailed)
		return Result{Outcome: OutcomeFailed, OrderID: orderID}
	}

	// Best-effort audit row; a delivery failure never rolls back the ledger.
	ev := notify.Event{
		OrderID:     orderID,
		Status:      created.Status,
		Amount:      statusResp.Amount,
		Currency:    statusResp.Currency,
		RawResponse: string(statusResp.Raw),
	}
	if err := r.notifier.Publish(ctx, ev); err != nil {
		r.logger.Warnw("failed to publish payment event", "order_id", orderID, "error", err)
	}

	r.counter.Count(ctx, metrics.CallbackPersisted)
	return Result{
		Outcome: OutcomePersisted,
		OrderID: orderID,
		Status:  created.Status,
		Message: StatusMessage(created.Status),
	}
}

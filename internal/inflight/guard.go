// Package inflight provides a process-local guard against concurrent
// reconciliation of the same order id. It is best-effort only: the durable
// defense against replay across restarts or instances is the ledger's
// uniqueness constraint.
package inflight

import "sync"

// Guard is a mutual-exclusion set of order ids currently being processed.
type Guard struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{ids: map[string]struct{}{}}
}

// TryAcquire atomically inserts orderID into the in-flight set. It returns
// false, without inserting, if the id is already in flight.
func (g *Guard) TryAcquire(orderID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.ids[orderID]; ok {
		return false
	}
	g.ids[orderID] = struct{}{}
	return true
}

// Release removes orderID from the in-flight set. Callers must invoke it on
// every exit path of a reconciliation that acquired the id.
func (g *Guard) Release(orderID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.ids, orderID)
}

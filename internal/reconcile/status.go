package reconcile

import "github.com/purnamyoga/checkout-backend/internal/ledger"

// StatusMessage maps a gateway-reported order status to a display message.
// Unrecognized statuses fall back to a generic description; the status set
// is provider-defined and open.
func StatusMessage(status string) string {
	switch status {
	case ledger.StatusCharged:
		return "order payment done successfully"
	case ledger.StatusPending, ledger.StatusPendingVBV:
		return "order payment pending"
	case ledger.StatusAuthorizationFailed:
		return "order payment authorization failed"
	case ledger.StatusAuthenticationFailed:
		return "order payment authentication failed"
	default:
		return "order status " + status
	}
}

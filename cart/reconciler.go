package cart

import (
	"context"

	"github.com/surplusmarket/client-go/client"
	"github.com/surplusmarket/client-go/logging"
)

// Source fetches the authoritative cart. *client.CartService satisfies it.
type Source interface {
	Get(ctx context.Context) (*client.Cart, error)
}

// Reconciler keeps the cache consistent with the server by re-fetching full
// state after every mutation instead of applying local deltas, so local math
// can never drift from server-side business rules.
//
// Concurrent resyncs are not deduplicated: each one fetches full current
// truth, so the result is last-response-wins regardless of call order.
type Reconciler struct {
	source Source
	cache  *Cache
	logger logging.Logger
}

// NewReconciler creates a reconciler writing into cache.
func NewReconciler(source Source, cache *Cache, logger logging.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Reconciler{source: source, cache: cache, logger: logger}
}

// Resync fetches the authoritative cart and overwrites the cache. A failed
// fetch leaves the cache unchanged, stale but valid, and is only logged:
// the badge is a convenience, so the failure must not surface to the user.
func (r *Reconciler) Resync(ctx context.Context) {
	authoritative, err := r.source.Get(ctx)
	if err != nil {
		r.logger.Debug("cart resync failed, keeping stale summary", map[string]interface{}{
			"operation": "cart_resync",
			"error":     err.Error(),
		})
		return
	}

	summary := Summary{
		ItemCount:    len(authoritative.Items),
		RunningTotal: authoritative.Total,
	}
	r.cache.set(summary)

	r.logger.Debug("cart resynced", map[string]interface{}{
		"operation":  "cart_resync",
		"item_count": summary.ItemCount,
		"total":      summary.RunningTotal,
	})
}

// Clear zeroes the cache, for logout.
func (r *Reconciler) Clear() {
	r.cache.set(Summary{})
}

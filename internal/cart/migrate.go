package cart

import (
	"context"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
	"github.com/premieratx/party-on-delivery-sub002/internal/kvstore"
)

// MigrateLegacy absorbs the pre-unification cart entry into this store,
// at most once per store lifetime. It only acts when a legacy entry
// exists and the unified cart is empty; otherwise it is a no-op. The
// legacy entry itself is kept (only Empty deletes it), and an entry
// that fails to parse is skipped, leaving the store empty.
func (s *Store) MigrateLegacy(ctx context.Context) {
	s.mu.Lock()
	if s.migrated || len(s.items) > 0 {
		s.migrated = true
		s.mu.Unlock()
		return
	}
	s.migrated = true
	s.mu.Unlock()

	var legacy []domain.RawCartItem
	if !s.kv.Get(ctx, kvstore.KeyLegacyCart, &legacy) || len(legacy) == 0 {
		return
	}
	items := NormalizeBulk(legacy)
	if len(items) == 0 {
		s.logf("cart: legacy entry produced no usable items, skipping migration")
		return
	}

	s.mu.Lock()
	// Re-check: a mutation may have landed while we were parsing.
	if len(s.items) > 0 {
		s.mu.Unlock()
		return
	}
	s.items = items
	s.dirty = true
	s.mu.Unlock()

	s.notifyWriter()
	s.logf("cart: migrated %d legacy lines into the unified cart", len(items))
}

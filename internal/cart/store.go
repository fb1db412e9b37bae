package cart

import (
	"context"
	"log"
	"math"
	"sync"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
	"github.com/premieratx/party-on-delivery-sub002/internal/kvstore"
)

// Scheduler receives a nudge after every cart mutation. The telemetry
// emitter satisfies it.
type Scheduler interface {
	Schedule()
}

// Options carries the optional collaborators of a Store.
type Options struct {
	// Telemetry, when set, is scheduled after every mutation.
	Telemetry Scheduler
	// OnFlash, when set, is invoked with the added line after a single
	// add. It is a transient UI signal, not state.
	OnFlash func(domain.CartLineItem)
	Logger  *log.Logger
}

// Store is the unified cart: an insertion-ordered, duplicate-free list
// of line items keyed by (id, variant). Mutations apply to the
// in-memory list immediately and are mirrored to durable storage by a
// background writer; persistence failure never rolls back a mutation.
type Store struct {
	mu       sync.Mutex
	items    []domain.CartLineItem
	dirty    bool
	migrated bool

	kv        *kvstore.Adapter
	telemetry Scheduler
	onFlash   func(domain.CartLineItem)
	logger    *log.Logger

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

// New builds a Store seeded from durable storage and starts its
// background writer. Callers own the returned store's lifecycle and
// must Close it.
func New(ctx context.Context, kv *kvstore.Adapter, opts Options) *Store {
	s := &Store{
		kv:        kv,
		telemetry: opts.Telemetry,
		onFlash:   opts.OnFlash,
		logger:    opts.Logger,
		wake:      make(chan struct{}, 1),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	var items []domain.CartLineItem
	if kv.Get(ctx, kvstore.KeyUnifiedCart, &items) {
		s.items = items
	}
	go s.writer()
	return s
}

// Close flushes any pending write and stops the background writer.
func (s *Store) Close() {
	close(s.quit)
	<-s.done
}

// Add inserts one more unit of the given item. If a line with the same
// (id, variant) pair exists its quantity is incremented by exactly 1;
// otherwise a new line is appended with quantity 1. Rejected input is a
// no-op.
func (s *Store) Add(raw domain.RawCartItem) {
	item, ok := Normalize(raw)
	if !ok {
		s.logf("cart: rejected add (id=%q)", raw.ID)
		return
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].Matches(item.ID, item.Variant) {
			s.items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	s.dirty = true
	s.mu.Unlock()

	s.notifyWriter()
	if s.onFlash != nil {
		s.onFlash(item)
	}
	s.scheduleTelemetry()
}

// AddBulk replaces the entire cart with the normalized input. This is
// the party-planner import path: a full overwrite, not a merge with
// whatever was in the cart before.
//
// TODO: confirm with the planner flow owners whether replace-all is
// really wanted before exposing this to a second bulk caller.
func (s *Store) AddBulk(raws []domain.RawCartItem) {
	items := NormalizeBulk(raws)

	s.mu.Lock()
	s.items = items
	s.dirty = true
	s.mu.Unlock()

	s.notifyWriter()
	s.scheduleTelemetry()
}

// UpdateQuantity sets the quantity of the (id, variant) line. The value
// is clamped to max(0, floor(quantity)); a resolved quantity of 0
// removes the line. Lines are never created here, so a positive update
// against a missing pair is a no-op.
func (s *Store) UpdateQuantity(id, variant string, quantity float64) {
	// NaN removes the line and anything past int range saturates;
	// a bare float-to-int conversion of either flips negative.
	if math.IsNaN(quantity) {
		quantity = 0
	}
	quantity = math.Min(quantity, math.MaxInt32)
	resolved := int(math.Max(0, math.Floor(quantity)))

	s.mu.Lock()
	changed := false
	for i := range s.items {
		if !s.items[i].Matches(id, variant) {
			continue
		}
		if resolved == 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity = resolved
		}
		changed = true
		break
	}
	if changed {
		s.dirty = true
	}
	s.mu.Unlock()

	if changed {
		s.notifyWriter()
		s.scheduleTelemetry()
	}
}

// Remove deletes the (id, variant) line regardless of quantity.
func (s *Store) Remove(id, variant string) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].Matches(id, variant) {
			s.items = append(s.items[:i], s.items[i+1:]...)
			changed = true
			break
		}
	}
	if changed {
		s.dirty = true
	}
	s.mu.Unlock()

	if changed {
		s.notifyWriter()
		s.scheduleTelemetry()
	}
}

// Empty clears the cart and deletes the legacy mirror entry from
// durable storage.
func (s *Store) Empty(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.dirty = true
	s.mu.Unlock()

	s.kv.Delete(ctx, kvstore.KeyLegacyCart)
	s.notifyWriter()
	s.scheduleTelemetry()
}

// Items returns a snapshot of the cart lines in insertion order.
func (s *Store) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// TotalItems is the sum of quantities over all lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of price*quantity over all lines.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

// QuantityOf returns the quantity of the (id, variant) line, or 0.
func (s *Store) QuantityOf(id, variant string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.Matches(id, variant) {
			return item.Quantity
		}
	}
	return 0
}

// Flush persists the current cart synchronously. Mutations do not need
// it; it exists for leave-checkout call sites and tests.
func (s *Store) Flush(ctx context.Context) bool {
	s.mu.Lock()
	snapshot := s.snapshotLocked()
	s.dirty = false
	s.mu.Unlock()
	return s.kv.Set(ctx, kvstore.KeyUnifiedCart, snapshot)
}

func (s *Store) snapshotLocked() []domain.CartLineItem {
	out := make([]domain.CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

// writer mirrors dirty state to durable storage. Wakeups are coalesced:
// a burst of mutations lands as one write of the latest snapshot.
func (s *Store) writer() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.persist()
		case <-s.quit:
			s.persist()
			return
		}
	}
}

func (s *Store) persist() {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	snapshot := s.snapshotLocked()
	s.dirty = false
	s.mu.Unlock()

	if !s.kv.Set(context.Background(), kvstore.KeyUnifiedCart, snapshot) {
		s.logf("cart: persist failed, in-memory state stays authoritative")
	}
}

func (s *Store) notifyWriter() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Store) scheduleTelemetry() {
	if s.telemetry != nil {
		s.telemetry.Schedule()
	}
}

func (s *Store) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

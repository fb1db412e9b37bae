package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"
)

// DefaultRetention is how long an entry may sit untouched before the
// quota cleanup pass is allowed to evict it.
const DefaultRetention = 7 * 24 * time.Hour

// envelope wraps every value the adapter writes so cleanup can age
// entries without knowing their shape.
type envelope struct {
	Timestamp time.Time       `json:"timestamp"`
	Value     json.RawMessage `json:"value"`
}

// Adapter is the JSON layer over a Backend that higher layers talk to.
// Its methods never return errors: reads that miss or fail to parse
// report false, writes report success as a boolean, and a quota failure
// triggers one eviction-and-retry pass. With a nil backend the adapter
// degrades to "nothing stored": Get reports false and Set reports
// false, leaving in-memory state authoritative for the session.
type Adapter struct {
	backend   Backend
	retention time.Duration
	logger    *log.Logger
	now       func() time.Time
}

// NewAdapter wraps backend. A nil backend is allowed and yields the
// degraded adapter described above. logger may be nil.
func NewAdapter(backend Backend, logger *log.Logger) *Adapter {
	return &Adapter{
		backend:   backend,
		retention: DefaultRetention,
		logger:    logger,
		now:       time.Now,
	}
}

// Get decodes the value stored under key into out and reports whether a
// usable value was found. Values written by this adapter are unwrapped
// from their envelope; foreign keys written by other subsystems are
// decoded as-is.
func (a *Adapter) Get(ctx context.Context, key string, out interface{}) bool {
	if a.backend == nil {
		return false
	}
	raw, err := a.backend.Get(ctx, key)
	if err != nil {
		return false
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Value) > 0 {
		if err := json.Unmarshal(env.Value, out); err == nil {
			return true
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		a.logf("kvstore: unreadable value under %q treated as miss: %v", key, err)
		return false
	}
	return true
}

// Set stores value under key and reports success. On a quota failure it
// evicts stale application entries once and retries exactly once.
func (a *Adapter) Set(ctx context.Context, key string, value interface{}) bool {
	if a.backend == nil {
		return false
	}
	payload, err := json.Marshal(value)
	if err != nil {
		a.logf("kvstore: marshal %q: %v", key, err)
		return false
	}
	raw, err := json.Marshal(envelope{Timestamp: a.now(), Value: payload})
	if err != nil {
		a.logf("kvstore: envelope %q: %v", key, err)
		return false
	}

	err = a.backend.Set(ctx, key, raw)
	if errors.Is(err, ErrQuotaExceeded) {
		a.evictStale(ctx)
		err = a.backend.Set(ctx, key, raw)
	}
	if err != nil {
		a.logf("kvstore: set %q: %v", key, err)
		return false
	}
	return true
}

// Delete removes key. Failures are logged and swallowed.
func (a *Adapter) Delete(ctx context.Context, key string) {
	if a.backend == nil {
		return
	}
	if err := a.backend.Delete(ctx, key); err != nil {
		a.logf("kvstore: delete %q: %v", key, err)
	}
}

// evictStale scans application-prefixed entries and deletes those whose
// envelope timestamp is older than the retention window, along with
// entries that no longer parse.
func (a *Adapter) evictStale(ctx context.Context) {
	keys, err := a.backend.Keys(ctx, Prefix)
	if err != nil {
		a.logf("kvstore: quota cleanup scan failed: %v", err)
		return
	}
	cutoff := a.now().Add(-a.retention)
	removed := 0
	for _, key := range keys {
		raw, err := a.backend.Get(ctx, key)
		if err != nil {
			continue
		}
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			// Corrupted entry under our prefix.
			if err := a.backend.Delete(ctx, key); err == nil {
				removed++
			}
			continue
		}
		if !env.Timestamp.IsZero() && env.Timestamp.Before(cutoff) {
			if err := a.backend.Delete(ctx, key); err == nil {
				removed++
			}
		}
	}
	a.logf("kvstore: quota cleanup removed %d of %d entries", removed, len(keys))
}

func (a *Adapter) logf(format string, args ...interface{}) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}

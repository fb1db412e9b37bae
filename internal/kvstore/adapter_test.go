package kvstore

import (
	"context"
	"testing"
	"time"
)

// flakyBackend wraps Memory, failing Set with ErrQuotaExceeded a fixed
// number of times and counting Keys scans.
type flakyBackend struct {
	*Memory
	failures int
	setCalls int
	keyScans int
}

func (f *flakyBackend) Set(ctx context.Context, key string, value []byte) error {
	f.setCalls++
	if f.failures > 0 {
		f.failures--
		return ErrQuotaExceeded
	}
	return f.Memory.Set(ctx, key, value)
}

func (f *flakyBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	f.keyScans++
	return f.Memory.Keys(ctx, prefix)
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemory(0), nil)

	type blob struct {
		Name string `json:"name"`
		N    int    `json:"n"`
	}
	if !a.Set(ctx, KeyUnifiedCart, blob{Name: "x", N: 3}) {
		t.Fatalf("set failed")
	}
	var out blob
	if !a.Get(ctx, KeyUnifiedCart, &out) {
		t.Fatalf("get failed")
	}
	if out.Name != "x" || out.N != 3 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestAdapterReadsForeignValues(t *testing.T) {
	// Other subsystems write raw JSON without the adapter's envelope.
	ctx := context.Background()
	backend := NewMemory(0)
	if err := backend.Set(ctx, KeyCustomerInfo, []byte(`{"email":"a@b.c"}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	a := NewAdapter(backend, nil)

	var out struct {
		Email string `json:"email"`
	}
	if !a.Get(ctx, KeyCustomerInfo, &out) || out.Email != "a@b.c" {
		t.Fatalf("foreign value not readable: %+v", out)
	}
}

func TestAdapterMissAndCorruptAreCacheMisses(t *testing.T) {
	ctx := context.Background()
	backend := NewMemory(0)
	if err := backend.Set(ctx, KeyUnifiedCart, []byte("{broken")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	a := NewAdapter(backend, nil)

	var out map[string]interface{}
	if a.Get(ctx, "absent-key", &out) {
		t.Fatalf("missing key must report false")
	}
	if a.Get(ctx, KeyUnifiedCart, &out) {
		t.Fatalf("corrupt value must report false, not error")
	}
}

func TestAdapterNilBackendDegrades(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(nil, nil)

	var out int
	if a.Get(ctx, KeySessionID, &out) {
		t.Fatalf("get must report false without a backend")
	}
	if a.Set(ctx, KeySessionID, 1) {
		t.Fatalf("set must report false without a backend")
	}
	a.Delete(ctx, KeySessionID) // must not panic
}

func TestAdapterQuotaRecoveryRetriesOnce(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{Memory: NewMemory(0)}
	a := NewAdapter(backend, nil)

	now := time.Now()
	a.now = func() time.Time { return now.Add(-8 * 24 * time.Hour) }
	if !a.Set(ctx, Prefix+"stale-entry", "old") {
		t.Fatalf("seed stale entry")
	}

	a.now = func() time.Time { return now }
	if err := backend.Memory.Set(ctx, Prefix+"corrupt-entry", []byte("???")); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}
	if !a.Set(ctx, Prefix+"fresh-entry", "new") {
		t.Fatalf("seed fresh entry")
	}
	backend.setCalls = 0
	backend.keyScans = 0
	backend.failures = 1

	if !a.Set(ctx, KeyUnifiedCart, []string{"item"}) {
		t.Fatalf("set must succeed after one recovery pass")
	}
	if backend.setCalls != 2 {
		t.Fatalf("expected exactly one retry (2 set calls), got %d", backend.setCalls)
	}
	if backend.keyScans != 1 {
		t.Fatalf("expected exactly one cleanup scan, got %d", backend.keyScans)
	}

	var out string
	if a.Get(ctx, Prefix+"stale-entry", &out) {
		t.Fatalf("stale entry must be evicted")
	}
	if a.Get(ctx, Prefix+"corrupt-entry", &out) {
		t.Fatalf("corrupt entry must be deleted during cleanup")
	}
	if !a.Get(ctx, Prefix+"fresh-entry", &out) || out != "new" {
		t.Fatalf("fresh entry must survive cleanup")
	}
}

func TestAdapterQuotaStillFullReportsFalse(t *testing.T) {
	ctx := context.Background()
	backend := &flakyBackend{Memory: NewMemory(0), failures: 2}
	a := NewAdapter(backend, nil)

	if a.Set(ctx, KeyUnifiedCart, "value") {
		t.Fatalf("set must report false when the retry also fails")
	}
	if backend.setCalls != 2 {
		t.Fatalf("expected exactly 2 set attempts, got %d", backend.setCalls)
	}
}

func TestMemoryQuota(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	if err := m.Set(ctx, "a", []byte("12345")); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := m.Set(ctx, "b", []byte("123456")); err != ErrQuotaExceeded {
		t.Fatalf("expected quota error, got %v", err)
	}
	// Overwriting a key only counts the new payload.
	if err := m.Set(ctx, "a", []byte("1234567890")); err != nil {
		t.Fatalf("overwrite within quota: %v", err)
	}
}

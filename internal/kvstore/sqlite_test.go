package kvstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
)

func openTestSQLite(t *testing.T, maxBytes int64) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"), maxBytes)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t, 0)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.Set(ctx, "k1", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.Get(ctx, "k1")
	if err != nil || string(got) != `{"a":1}` {
		t.Fatalf("get: %q, %v", got, err)
	}

	// Overwrite.
	if err := s.Set(ctx, "k1", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = s.Get(ctx, "k1")
	if string(got) != `{"a":2}` {
		t.Fatalf("overwrite not visible: %q", got)
	}

	if err := s.Delete(ctx, "k1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "k1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestSQLiteKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t, 0)

	for _, k := range []string{Prefix + "b", Prefix + "a", "other:c"} {
		if err := s.Set(ctx, k, []byte("x")); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	keys, err := s.Keys(ctx, Prefix)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != Prefix+"a" || keys[1] != Prefix+"b" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestSQLiteQuota(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t, 10)

	if err := s.Set(ctx, "a", []byte("12345")); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := s.Set(ctx, "b", []byte("123456")); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	// Replacing a key is charged against the quota without the old payload.
	if err := s.Set(ctx, "a", []byte("1234567890")); err != nil {
		t.Fatalf("overwrite within quota: %v", err)
	}
}

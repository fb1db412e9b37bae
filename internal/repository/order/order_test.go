package order

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
	"github.com/premieratx/party-on-delivery-sub002/internal/migrate"
)

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping postgres integration test")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func TestPostgres_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE shared_orders`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	repo := NewPostgres(pool)
	created, err := repo.Upsert(ctx, domain.SharedOrder{
		ShareToken:      "tok123",
		DeliveryDate:    "2026-09-12",
		DeliveryTime:    "18:00-20:00",
		DeliveryAddress: "1100 Congress Ave",
		BuyerLastName:   "Smith",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if created.ShareToken != "tok123" || created.CreatedAt.IsZero() {
		t.Fatalf("unexpected order %+v", created)
	}

	fetched, err := repo.GetByShareToken(ctx, "tok123")
	if err != nil {
		t.Fatalf("GetByShareToken: %v", err)
	}
	if fetched.BuyerLastName != "Smith" || fetched.DeliveryTime != "18:00-20:00" {
		t.Fatalf("fetched mismatch %+v", fetched)
	}

	// Upsert replaces the delivery details for the same token.
	if _, err := repo.Upsert(ctx, domain.SharedOrder{
		ShareToken:      "tok123",
		DeliveryDate:    "2026-09-13",
		DeliveryTime:    "10:00-12:00",
		DeliveryAddress: "1100 Congress Ave",
		BuyerLastName:   "Smith",
	}); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	fetched, err = repo.GetByShareToken(ctx, "tok123")
	if err != nil {
		t.Fatalf("GetByShareToken after upsert: %v", err)
	}
	if fetched.DeliveryDate != "2026-09-13" {
		t.Fatalf("upsert did not replace details: %+v", fetched)
	}

	if _, err := repo.GetByShareToken(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
	orderrepo "github.com/premieratx/party-on-delivery-sub002/internal/repository/order"
)

// Apply inserts shared orders for manual testing of the join flow. It
// is idempotent via the repository upsert.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	repo := orderrepo.NewPostgres(pool)

	orders := []domain.SharedOrder{
		{
			ShareToken:      "demo-bachelor-party",
			DeliveryDate:    "2026-09-12",
			DeliveryTime:    "18:00-20:00",
			DeliveryAddress: "1100 Congress Ave, Austin, TX 78701",
			BuyerLastName:   "Smith",
		},
		{
			ShareToken:      "demo-boat-day",
			DeliveryDate:    "2026-09-19",
			DeliveryTime:    "10:00-12:00",
			DeliveryAddress: "2100 Lakeshore Blvd, Austin, TX 78741",
			// Last name unknown: joining this order yields no discount code.
		},
	}

	for _, o := range orders {
		if _, err := repo.Upsert(ctx, o); err != nil {
			return fmt.Errorf("upsert shared order %s: %w", o.ShareToken, err)
		}
	}

	return nil
}

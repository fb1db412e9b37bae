package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByShareToken(ctx context.Context, shareToken string) (*domain.SharedOrder, error) {
	const q = `
SELECT share_token, delivery_date, delivery_time, delivery_address, buyer_last_name, created_at
FROM shared_orders
WHERE share_token = $1
`
	var order domain.SharedOrder
	err := r.pool.QueryRow(ctx, q, shareToken).Scan(
		&order.ShareToken,
		&order.DeliveryDate,
		&order.DeliveryTime,
		&order.DeliveryAddress,
		&order.BuyerLastName,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, in domain.SharedOrder) (*domain.SharedOrder, error) {
	const q = `
INSERT INTO shared_orders (share_token, delivery_date, delivery_time, delivery_address, buyer_last_name)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (share_token) DO UPDATE SET
	delivery_date = EXCLUDED.delivery_date,
	delivery_time = EXCLUDED.delivery_time,
	delivery_address = EXCLUDED.delivery_address,
	buyer_last_name = EXCLUDED.buyer_last_name
RETURNING share_token, delivery_date, delivery_time, delivery_address, buyer_last_name, created_at
`
	var order domain.SharedOrder
	err := r.pool.QueryRow(ctx, q,
		in.ShareToken,
		in.DeliveryDate,
		in.DeliveryTime,
		in.DeliveryAddress,
		in.BuyerLastName,
	).Scan(
		&order.ShareToken,
		&order.DeliveryDate,
		&order.DeliveryTime,
		&order.DeliveryAddress,
		&order.BuyerLastName,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

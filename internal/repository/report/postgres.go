package report

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Insert(ctx context.Context, in domain.CartReport) (*domain.CartReport, error) {
	const q = `
INSERT INTO abandoned_cart_reports
	(session_id, items, customer_email, customer_name, customer_phone, delivery_address, subtotal, total_amount, affiliate_code)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id::text, reported_at
`
	out := in
	err := r.pool.QueryRow(ctx, q,
		in.SessionID,
		in.Items,
		in.CustomerEmail,
		in.CustomerName,
		in.CustomerPhone,
		in.DeliveryAddress,
		in.Subtotal,
		in.TotalAmount,
		in.AffiliateCode,
	).Scan(&out.ID, &out.ReportedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]domain.CartReport, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id::text, session_id, items, customer_email, customer_name, customer_phone, delivery_address, subtotal, total_amount, affiliate_code, reported_at
FROM abandoned_cart_reports
ORDER BY reported_at DESC
LIMIT $1
`
	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.CartReport
	for rows.Next() {
		var rep domain.CartReport
		if err := rows.Scan(
			&rep.ID,
			&rep.SessionID,
			&rep.Items,
			&rep.CustomerEmail,
			&rep.CustomerName,
			&rep.CustomerPhone,
			&rep.DeliveryAddress,
			&rep.Subtotal,
			&rep.TotalAmount,
			&rep.AffiliateCode,
			&rep.ReportedAt,
		); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

package order

import (
	"context"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
)

type Repository interface {
	GetByShareToken(ctx context.Context, shareToken string) (*domain.SharedOrder, error)
	Upsert(ctx context.Context, in domain.SharedOrder) (*domain.SharedOrder, error)
}

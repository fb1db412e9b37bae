package report

import (
	"context"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
)

type Repository interface {
	Insert(ctx context.Context, in domain.CartReport) (*domain.CartReport, error)
	ListRecent(ctx context.Context, limit int) ([]domain.CartReport, error)
}

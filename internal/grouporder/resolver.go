package grouporder

import (
	"context"
	"log"
	"strings"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
	"github.com/premieratx/party-on-delivery-sub002/internal/kvstore"
)

const discountPrefix = "GROUP-SHIPPING-"

// Resolver derives and persists the join state for a shared order. It
// never touches the cart; checkout reads the persisted context and
// applies the discount and delivery constraints.
type Resolver struct {
	kv     *kvstore.Adapter
	logger *log.Logger
}

func NewResolver(kv *kvstore.Adapter, logger *log.Logger) *Resolver {
	return &Resolver{kv: kv, logger: logger}
}

// Join builds the context a joining cart must adopt: the original
// order's delivery constraints verbatim, plus a discount code derived
// from the buyer's last name when one is known. The context and a "yes"
// join decision are persisted for checkout.
func (r *Resolver) Join(ctx context.Context, shareToken string, order domain.SharedOrder) domain.GroupOrderContext {
	join := domain.GroupOrderContext{
		ShareToken:      shareToken,
		DeliveryDate:    order.DeliveryDate,
		DeliveryTime:    order.DeliveryTime,
		DeliveryAddress: order.DeliveryAddress,
	}
	if last := strings.TrimSpace(order.BuyerLastName); last != "" {
		join.DiscountCode = discountPrefix + strings.ToUpper(last)
	}

	r.kv.Set(ctx, kvstore.KeyGroupOrderToken, shareToken)
	r.kv.Set(ctx, kvstore.KeyGroupContext, join)
	r.kv.Set(ctx, kvstore.KeyGroupJoinDecision, "yes")
	if r.logger != nil {
		r.logger.Printf("grouporder: joined order %s (discount %q)", shareToken, join.DiscountCode)
	}
	return join
}

// Decline records a "no" decision and clears any previously persisted
// join context.
func (r *Resolver) Decline(ctx context.Context, shareToken string) {
	r.kv.Set(ctx, kvstore.KeyGroupJoinDecision, "no")
	r.kv.Delete(ctx, kvstore.KeyGroupOrderToken)
	r.kv.Delete(ctx, kvstore.KeyGroupContext)
	if r.logger != nil {
		r.logger.Printf("grouporder: declined order %s", shareToken)
	}
}

// Context returns the persisted join context when the customer has
// accepted a join, for checkout to consume.
func (r *Resolver) Context(ctx context.Context) (domain.GroupOrderContext, bool) {
	var decision string
	if !r.kv.Get(ctx, kvstore.KeyGroupJoinDecision, &decision) || decision != "yes" {
		return domain.GroupOrderContext{}, false
	}
	var join domain.GroupOrderContext
	if !r.kv.Get(ctx, kvstore.KeyGroupContext, &join) {
		return domain.GroupOrderContext{}, false
	}
	return join, true
}

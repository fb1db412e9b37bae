package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/premieratx/party-on-delivery-sub002/internal/cart"
	"github.com/premieratx/party-on-delivery-sub002/internal/config"
	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
	"github.com/premieratx/party-on-delivery-sub002/internal/grouporder"
	"github.com/premieratx/party-on-delivery-sub002/internal/kvstore"
	"github.com/premieratx/party-on-delivery-sub002/internal/telemetry"
)

// cartsim drives the whole client stack against a running collector:
// durable store, legacy migration, cart mutations, group-order join,
// and an immediate telemetry report. Useful for manual end-to-end
// checks without a browser.
func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[cartsim] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	backend, cleanup := openBackend(ctx, cfg, logger)
	defer cleanup()

	kv := kvstore.NewAdapter(backend, logger)
	store := cart.New(ctx, kv, cart.Options{
		OnFlash: func(item domain.CartLineItem) {
			logger.Printf("added %q x%d", item.Title, item.Quantity)
		},
		Logger: logger,
	})
	defer store.Close()

	emitter := telemetry.New(cfg.TelemetryURL, store, kv, logger, telemetry.Options{
		Window: cfg.TelemetryDebounce,
	})
	defer emitter.Close()

	store.MigrateLegacy(ctx)

	store.Add(domain.RawCartItem{ID: "beer-lone-star-12pk", Title: "Lone Star 12-Pack", Price: 14.99})
	store.Add(domain.RawCartItem{ID: "beer-lone-star-12pk", Title: "Lone Star 12-Pack", Price: 14.99})
	store.Add(domain.RawCartItem{ProductID: "wine-prosecco", Name: "Prosecco", Price: "21.50", Variant: "750ml"})
	store.UpdateQuantity("beer-lone-star-12pk", "", 3)

	logger.Printf("cart: %d items, $%.2f", store.TotalItems(), store.TotalPrice())

	if token := os.Getenv("GROUP_TOKEN"); token != "" {
		lookup := grouporder.NewClient(cfg.LookupURL, nil)
		order, err := lookup.OrderByToken(ctx, token)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			logger.Printf("no shared order for token %q", token)
		case err != nil:
			logger.Printf("lookup failed: %v", err)
		default:
			resolver := grouporder.NewResolver(kv, logger)
			join := resolver.Join(ctx, token, *order)
			logger.Printf("joined group order: delivery %s %s, discount %q",
				join.DeliveryDate, join.DeliveryTime, join.DiscountCode)
		}
	}

	if !store.Flush(ctx) {
		logger.Printf("warning: cart not persisted, session is memory-only")
	}
	emitter.Emit(ctx)
}

// openBackend picks the shared Redis store when configured, otherwise
// the local file store, otherwise degrades to memory-only.
func openBackend(ctx context.Context, cfg config.Config, logger *log.Logger) (kvstore.Backend, func()) {
	if cfg.RedisURL != "" {
		backend, err := kvstore.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatalf("open redis store: %v", err)
		}
		return backend, func() { backend.Close() }
	}
	backend, err := kvstore.OpenSQLite(ctx, cfg.StorePath, cfg.StoreMaxBytes)
	if err != nil {
		logger.Printf("open local store: %v (continuing memory-only)", err)
		return kvstore.NewMemory(0), func() {}
	}
	return backend, func() { backend.Close() }
}

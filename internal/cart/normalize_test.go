package cart

import (
	"testing"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
)

func TestNormalizeResolvesAliases(t *testing.T) {
	item, ok := Normalize(domain.RawCartItem{ProductID: "sku1", Name: "Pale Ale", Price: 9.5})
	if !ok {
		t.Fatalf("expected item to be accepted")
	}
	if item.ID != "sku1" || item.ProductID != "sku1" {
		t.Fatalf("id not resolved from productId: %+v", item)
	}
	if item.Title != "Pale Ale" || item.Name != "Pale Ale" {
		t.Fatalf("title/name backfill failed: %+v", item)
	}

	item, ok = Normalize(domain.RawCartItem{ID: "sku2", Title: "Stout", Price: 4})
	if !ok || item.Name != "Stout" {
		t.Fatalf("name not backfilled from title: %+v", item)
	}
}

func TestNormalizeForcesSingleQuantity(t *testing.T) {
	item, ok := Normalize(domain.RawCartItem{ID: "sku1", Title: "IPA", Price: 8, Quantity: 7})
	if !ok {
		t.Fatalf("expected item to be accepted")
	}
	if item.Quantity != 1 {
		t.Fatalf("single add must mean one unit, got %d", item.Quantity)
	}
}

func TestNormalizeRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  domain.RawCartItem
	}{
		{"empty id", domain.RawCartItem{Title: "Mystery", Price: 10}},
		{"zero price", domain.RawCartItem{ID: "sku2", Price: 0}},
		{"negative price", domain.RawCartItem{ID: "sku3", Price: -4.5}},
		{"non-numeric price", domain.RawCartItem{ID: "sku4", Price: "free"}},
		{"missing price", domain.RawCartItem{ID: "sku5"}},
	}
	for _, tc := range cases {
		if _, ok := Normalize(tc.raw); ok {
			t.Fatalf("%s: expected rejection", tc.name)
		}
	}
}

func TestNormalizePriceCoercion(t *testing.T) {
	item, ok := Normalize(domain.RawCartItem{ID: "sku1", Title: "Cider", Price: "12.99"})
	if !ok {
		t.Fatalf("string price should parse")
	}
	if item.Price != 12.99 {
		t.Fatalf("unexpected price %v", item.Price)
	}
}

func TestNormalizeBulkQuantities(t *testing.T) {
	items := NormalizeBulk([]domain.RawCartItem{
		{ID: "a", Title: "A", Price: 5, Quantity: 3},
		{ID: "b", Title: "B", Price: 2},
		{ID: "", Title: "dropped", Price: 9},
		{ID: "c", Title: "C", Price: 1, Quantity: "oops"},
	})
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d: %+v", len(items), items)
	}
	if items[0].Quantity != 3 {
		t.Fatalf("bulk import must keep provided quantity, got %d", items[0].Quantity)
	}
	if items[1].Quantity != 1 || items[2].Quantity != 1 {
		t.Fatalf("missing/unusable quantities must default to 1: %+v", items)
	}
}

func TestNormalizeBulkCollapsesDuplicates(t *testing.T) {
	items := NormalizeBulk([]domain.RawCartItem{
		{ID: "a", Title: "A", Price: 5, Quantity: 2},
		{ID: "a", Title: "A", Price: 5, Quantity: 3},
		{ID: "a", Title: "A", Price: 5, Variant: "magnum", Quantity: 1},
	})
	if len(items) != 2 {
		t.Fatalf("expected duplicate pair collapsed, got %+v", items)
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", items[0].Quantity)
	}
	if items[1].Variant != "magnum" {
		t.Fatalf("distinct variant must stay a separate line: %+v", items[1])
	}
}

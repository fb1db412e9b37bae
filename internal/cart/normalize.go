package cart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/premieratx/party-on-delivery-sub002/internal/domain"
)

// Normalize maps a loosely-typed raw item onto the canonical line-item
// shape. The id is resolved from id then productId, title and name back
// fill each other, and the price is coerced to a finite non-negative
// number. It reports false for items that must not be inserted: empty
// resolved id, or price that is not strictly positive after coercion.
// Quantity is always 1; a single add means "one more unit" regardless
// of any quantity the caller sent.
func Normalize(raw domain.RawCartItem) (domain.CartLineItem, bool) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = strings.TrimSpace(raw.ProductID)
	}

	title := strings.TrimSpace(raw.Title)
	name := strings.TrimSpace(raw.Name)
	if title == "" {
		title = name
	}
	if name == "" {
		name = title
	}

	price := coerceNumber(raw.Price)
	if id == "" || price <= 0 {
		return domain.CartLineItem{}, false
	}

	return domain.CartLineItem{
		ID:        id,
		ProductID: id,
		Title:     title,
		Name:      name,
		Price:     price,
		Quantity:  1,
		Image:     strings.TrimSpace(raw.Image),
		Variant:   strings.TrimSpace(raw.Variant),
		EventName: raw.EventName,
		Category:  raw.Category,
	}, true
}

// NormalizeBulk maps a bulk import onto canonical line items, dropping
// rejected entries. Unlike single adds, provided quantities are kept,
// defaulting to 1 when absent or unusable. Duplicate (id, variant)
// pairs are collapsed into the first occurrence so the store's
// uniqueness invariant holds.
func NormalizeBulk(raws []domain.RawCartItem) []domain.CartLineItem {
	items := make([]domain.CartLineItem, 0, len(raws))
	for _, raw := range raws {
		item, ok := Normalize(raw)
		if !ok {
			continue
		}
		if qty := int(math.Floor(coerceNumber(raw.Quantity))); qty > 1 {
			item.Quantity = qty
		}
		merged := false
		for i := range items {
			if items[i].Matches(item.ID, item.Variant) {
				items[i].Quantity += item.Quantity
				merged = true
				break
			}
		}
		if !merged {
			items = append(items, item)
		}
	}
	return items
}

// coerceNumber turns the untyped numeric fields of raw input into a
// finite non-negative float64, treating anything unusable as 0.
func coerceNumber(v interface{}) float64 {
	var out float64
	switch n := v.(type) {
	case float64:
		out = n
	case float32:
		out = float64(n)
	case int:
		out = float64(n)
	case int64:
		out = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		out = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		out = parsed
	default:
		return 0
	}
	if math.IsNaN(out) || math.IsInf(out, 0) || out < 0 {
		return 0
	}
	return out
}

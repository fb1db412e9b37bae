package domain

// CartLineItem is one product/variant selection in the unified cart.
// ID and ProductID carry the same value; ProductID is retained because
// older call sites still read it. Title and Name are kept in sync the
// same way.
type CartLineItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId,omitempty"`
	Title     string  `json:"title"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	Variant   string  `json:"variant,omitempty"`
	EventName string  `json:"eventName,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// Matches reports whether this line is the cart line for the given
// (id, variant) pair, the uniqueness key of the store.
func (l CartLineItem) Matches(id, variant string) bool {
	return l.ID == id && l.Variant == variant
}

// Subtotal is the line total at the unit price captured on add.
func (l CartLineItem) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// RawCartItem is the loosely-typed shape cart inputs arrive in. Callers
// historically sent several aliases for the same field, and numeric
// fields may arrive as JSON numbers or strings, so Price and Quantity
// are decoded untyped and coerced during normalization.
type RawCartItem struct {
	ID        string      `json:"id"`
	ProductID string      `json:"productId"`
	Title     string      `json:"title"`
	Name      string      `json:"name"`
	Price     interface{} `json:"price"`
	Quantity  interface{} `json:"quantity"`
	Image     string      `json:"image"`
	Variant   string      `json:"variant"`
	EventName string      `json:"eventName"`
	Category  string      `json:"category"`
}

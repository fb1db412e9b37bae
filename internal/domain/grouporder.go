package domain

import "time"

// SharedOrder is the externally-fetched record of an order whose
// delivery slot can be joined via its share token. The lookup service
// owns it; the join resolver treats it as read-only input.
type SharedOrder struct {
	ShareToken      string    `json:"shareToken"`
	DeliveryDate    string    `json:"deliveryDate"`
	DeliveryTime    string    `json:"deliveryTime"`
	DeliveryAddress string    `json:"deliveryAddress"`
	BuyerLastName   string    `json:"buyerLastName,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

// GroupOrderContext is the join state derived from a shared order. It
// is written once per join action and consumed read-only by checkout.
type GroupOrderContext struct {
	ShareToken      string `json:"shareToken"`
	DeliveryDate    string `json:"deliveryDate"`
	DeliveryTime    string `json:"deliveryTime"`
	DeliveryAddress string `json:"deliveryAddress"`
	DiscountCode    string `json:"discountCode,omitempty"`
}

package domain

import "time"

// CartReport is one abandoned-cart telemetry payload as stored by the
// collector.
type CartReport struct {
	ID              string         `json:"id"`
	SessionID       string         `json:"session_id"`
	Items           []CartLineItem `json:"cart_items"`
	CustomerEmail   string         `json:"customer_email,omitempty"`
	CustomerName    string         `json:"customer_name,omitempty"`
	CustomerPhone   string         `json:"customer_phone,omitempty"`
	DeliveryAddress string         `json:"delivery_address,omitempty"`
	Subtotal        float64        `json:"subtotal"`
	TotalAmount     float64        `json:"total_amount"`
	AffiliateCode   string         `json:"affiliate_code,omitempty"`
	ReportedAt      time.Time      `json:"reportedAt"`
}

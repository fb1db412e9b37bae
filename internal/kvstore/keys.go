package kvstore

// Prefix namespaces every key this application writes. The quota
// cleanup scan only ever touches keys under it.
const Prefix = "pod:"

// Well-known durable-storage keys shared across subsystems.
const (
	// KeyUnifiedCart holds the unified cart line-item list.
	KeyUnifiedCart = Prefix + "unified-cart"
	// KeyLegacyCart holds the pre-unification cart representation. It is
	// read by the one-time migration and deleted only by emptying the cart.
	KeyLegacyCart = Prefix + "party-planner-cart"
	// KeySessionID holds the per-browser telemetry session identifier.
	KeySessionID = Prefix + "session-id"
	// KeyCustomerInfo and KeyDeliveryAddress are owned by the checkout
	// subsystem; telemetry reads them best-effort.
	KeyCustomerInfo    = Prefix + "customer-info"
	KeyDeliveryAddress = Prefix + "delivery-address"
	// KeyAffiliateCode holds the referral attribution code, if any.
	KeyAffiliateCode = Prefix + "affiliate-code"
	// Group-order join state, written by the resolver and read by checkout.
	KeyGroupOrderToken   = Prefix + "group-order-token"
	KeyGroupJoinDecision = Prefix + "group-join-decision"
	KeyGroupContext      = Prefix + "group-discount-context"
)

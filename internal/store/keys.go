package store

const (
	// Order collection: JSON array of orders, newest first.
	KeyOrders = "pamlee_orders"

	// Cart: JSON array of line items, insertion order.
	KeyCart = "cart"

	// Fallback-channel envelope: {"data":...,"t":...,"origin":...},
	// overwritten on every publish when the fallback strategy is active.
	KeyOrdersEvent = "pamlee_orders_event"

	// Session record: {"email":...}, read-only here.
	KeySession = "pamlee_user"
)

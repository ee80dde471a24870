package orders

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentEFT  PaymentMethod = "eft"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentCard || p == PaymentEFT
}

type Fulfilment string

const (
	FulfilmentPickup   Fulfilment = "pickup"
	FulfilmentDelivery Fulfilment = "delivery"
)

func (f Fulfilment) Valid() bool {
	return f == FulfilmentPickup || f == FulfilmentDelivery
}

// StatusPlaced is the only status this package assigns on its own.
// Everything after that comes from the admin surface; the set is open
// unless the log was built with an allow-list.
const StatusPlaced = "placed"

type LineItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int    `json:"priceCents"`
	Image      string `json:"image"`
	Quantity   int    `json:"quantity"`
}

// TimelineEntry is one audit-trail line on an order. Entries are only
// ever appended, never rewritten.
type TimelineEntry struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}

type Order struct {
	TrackerID        string         `json:"trackerId"`
	UserEmail        string         `json:"userEmail"`
	Items            []LineItem     `json:"items"`
	SubtotalCents    int            `json:"subtotal"`
	DeliveryFeeCents int            `json:"deliveryFee"`
	TotalCents       int            `json:"total"`
	PaymentMethod    PaymentMethod  `json:"paymentMethod"`
	Fulfilment       Fulfilment     `json:"fulfilment"`
	Status           string         `json:"status"`
	PlacedAt         int64          `json:"placedAt"` // epoch millis
	// UpdatedAt stays zero (and off the wire) until the first status change.
	UpdatedAt int64           `json:"updatedAt,omitempty"`
	Timeline  []TimelineEntry `json:"timeline,omitempty"`
}

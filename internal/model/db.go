package model

import "time"

// Order lifecycle. Status only moves forward through this graph:
// pending -> paid -> fulfillment_requested -> fulfilled | failed
const (
	OrderStatusPending              = "pending"
	OrderStatusPaid                 = "paid"
	OrderStatusFulfillmentRequested = "fulfillment_requested"
	OrderStatusFulfilled            = "fulfilled"
	OrderStatusFailed               = "failed"
)

type ShopItem struct {
	ID          string `gorm:"primaryKey;size:64;not null"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"size:1024"`
	CreatorID   string `gorm:"size:64;index;not null"`
	ImageURL    string `gorm:"size:512"`

	Variants []PrintVariant `gorm:"foreignKey:ShopItemID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PrintVariant is one purchasable size of a ShopItem. Size labels are
// unique within an item.
type PrintVariant struct {
	ID         uint   `gorm:"primaryKey"`
	ShopItemID string `gorm:"size:64;uniqueIndex:idx_item_size;not null"`
	SizeLabel  string `gorm:"size:32;uniqueIndex:idx_item_size;not null"`
	PriceCents int64  `gorm:"not null"`
	Currency   string `gorm:"size:8;not null"`

	// Provider-side catalog identifiers used when dispatching fulfillment.
	PodProductID string `gorm:"size:64"`
	PodVariantID string `gorm:"size:64"`

	CreatedAt time.Time
}

// Order denormalizes the size label, unit price and revenue split at
// purchase time so later catalog edits never mutate historical orders.
type Order struct {
	ID         string `gorm:"primaryKey;size:64;not null"` // uuid
	ShopItemID string `gorm:"size:64;index;not null"`
	SizeLabel  string `gorm:"size:32;not null"`

	UnitPriceCents   int64  `gorm:"not null"`
	Quantity         int32  `gorm:"not null"`
	AmountCents      int64  `gorm:"not null"`
	Currency         string `gorm:"size:8;not null"`
	CreatorCutCents  int64  `gorm:"not null"`
	PlatformCutCents int64  `gorm:"not null"`

	BuyerID   string `gorm:"size:64;index;not null"`
	CreatorID string `gorm:"size:64;index;not null"`

	// SessionID is the payment-session identifier and the idempotency key:
	// exactly one Order exists per session.
	SessionID  string `gorm:"size:128;uniqueIndex;not null"`
	PaymentID  string `gorm:"size:128"` // provider transaction id, set when paid
	PodOrderID string `gorm:"size:64"`  // provider fulfillment id, set when dispatched

	Status string `gorm:"size:32;index;not null"`

	RecipientName    string `gorm:"size:255"`
	RecipientAddress string `gorm:"size:255"`
	RecipientCity    string `gorm:"size:128"`
	RecipientState   string `gorm:"size:64"`
	RecipientCountry string `gorm:"size:8"`
	RecipientZip     string `gorm:"size:32"`

	CreatedAt time.Time
	PaidAt    *time.Time
	UpdatedAt time.Time
}

// WebhookEvent records provider event ids we have already processed so an
// exact redelivery can be short-circuited before touching any Order.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Order описывает покупку объявления.
type Order struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	BuyerID      uuid.UUID  `db:"buyer_id" json:"buyer_id"`
	SellerID     uuid.UUID  `db:"seller_id" json:"seller_id"`
	ListingID    uuid.UUID  `db:"listing_id" json:"listing_id"`
	Price        float64    `db:"price" json:"price"`
	Commission   float64    `db:"commission" json:"commission"`
	Status       string     `db:"status" json:"status"`
	DeliveryNote *string    `db:"delivery_note" json:"delivery_note,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	CompletedAt  *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// orderTransitions допустимые переходы статусов заказа.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusDelivered, OrderStatusDisputed, OrderStatusCancelled},
	OrderStatusDelivered: {OrderStatusCompleted, OrderStatusDisputed},
	OrderStatusDisputed:  {OrderStatusCompleted, OrderStatusCancelled},
}

// CanTransition сообщает, разрешён ли переход из статуса from в статус to.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal сообщает, что из статуса нет переходов.
func IsTerminal(status string) bool {
	return len(orderTransitions[status]) == 0
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Report запрос на возврат или спор по заказу.
type Report struct {
	ID         uuid.UUID `db:"id" json:"id"`
	OrderID    uuid.UUID `db:"order_id" json:"order_id"`
	ReporterID uuid.UUID `db:"reporter_id" json:"reporter_id"`
	Reason     string    `db:"reason" json:"reason"`
	Details    *string   `db:"details" json:"details,omitempty"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

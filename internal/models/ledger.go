package models

import (
	"time"

	"github.com/google/uuid"
)

// Причины движения по балансу.
const (
	LedgerReasonAdminAdjustment = "admin_adjustment"
	LedgerReasonUsernameChange  = "username_change"
)

// LedgerEntry неизменяемая запись об изменении баланса.
type LedgerEntry struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	Amount         float64    `db:"amount" json:"amount"`
	BalanceAfter   float64    `db:"balance_after" json:"balance_after"`
	Reason         string     `db:"reason" json:"reason"`
	ActorID        *uuid.UUID `db:"actor_id" json:"actor_id,omitempty"`
	IdempotencyKey *string    `db:"idempotency_key" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

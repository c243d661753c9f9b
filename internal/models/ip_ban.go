package models

import (
	"time"

	"github.com/google/uuid"
)

// IPBan запись о блокировке адреса.
type IPBan struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	IPAddress string     `db:"ip_address" json:"ip_address"`
	Reason    *string    `db:"reason" json:"reason"`
	ExpiresAt *time.Time `db:"expires_at" json:"expires_at"`
	BannedBy  *uuid.UUID `db:"banned_by" json:"banned_by"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// ActiveAt сообщает, действует ли блокировка в момент now.
// Блокировка без срока действует бессрочно.
func (b *IPBan) ActiveAt(now time.Time) bool {
	return b.ExpiresAt == nil || b.ExpiresAt.After(now)
}

// IPBanDecision результат проверки адреса.
type IPBanDecision struct {
	IPAddress string  `json:"ip_address"`
	IsBanned  bool    `json:"is_banned"`
	BanReason *string `json:"ban_reason"`
}

// Package cache хранит вычисленные сводки репутации продавцов.
package cache

import (
	"github.com/google/uuid"
)

// reputationKey формирует ключ сводки репутации продавца.
func reputationKey(sellerID uuid.UUID) string {
	return "reputation:" + sellerID.String()
}

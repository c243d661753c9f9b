package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

// LedgerRepository читает журнал движений по балансу.
// Запись в журнал идёт только через ProfileTx.
type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ListByUser возвращает записи журнала пользователя, новые первыми.
func (r *LedgerRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error) {
	entries := []models.LedgerEntry{}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, amount, balance_after, reason, actor_id, idempotency_key, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ledger repository: list %w", err)
	}
	return entries, nil
}

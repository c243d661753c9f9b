package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

// IPBanRepository работает с таблицей ip_bans.
type IPBanRepository struct {
	db *sqlx.DB
}

func NewIPBanRepository(db *sqlx.DB) *IPBanRepository {
	return &IPBanRepository{db: db}
}

// FindActive ищет действующую на момент now блокировку адреса (точное совпадение).
// Возвращает nil, nil, если блокировки нет.
func (r *IPBanRepository) FindActive(ctx context.Context, ip string, now time.Time) (*models.IPBan, error) {
	var ban models.IPBan
	err := r.db.GetContext(ctx, &ban, `
		SELECT id, ip_address, reason, expires_at, banned_by, created_at
		FROM ip_bans
		WHERE ip_address = $1 AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY created_at DESC
		LIMIT 1
	`, ip, now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ip ban repository: find active %w", err)
	}
	return &ban, nil
}

// List возвращает все блокировки, новые первыми.
func (r *IPBanRepository) List(ctx context.Context) ([]models.IPBan, error) {
	bans := []models.IPBan{}
	err := r.db.SelectContext(ctx, &bans, `
		SELECT id, ip_address, reason, expires_at, banned_by, created_at
		FROM ip_bans
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("ip ban repository: list %w", err)
	}
	return bans, nil
}

// Create добавляет блокировку.
func (r *IPBanRepository) Create(ctx context.Context, ban *models.IPBan) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO ip_bans (ip_address, reason, expires_at, banned_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, ban.IPAddress, ban.Reason, ban.ExpiresAt, ban.BannedBy).Scan(&ban.ID, &ban.CreatedAt)
	if err != nil {
		return fmt.Errorf("ip ban repository: create %w", err)
	}
	return nil
}

// Delete снимает блокировку.
func (r *IPBanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ip_bans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ip ban repository: delete %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrIPBanNotFound
	}
	return nil
}

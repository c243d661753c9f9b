package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

type AnnouncementRepository struct {
	db *sqlx.DB
}

func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// Create публикует объявление администрации.
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO announcements (title, body, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, a.Title, a.Body, a.CreatedBy).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("announcement repository: create %w", err)
	}
	return nil
}

// List возвращает последние объявления.
func (r *AnnouncementRepository) List(ctx context.Context, limit int) ([]models.Announcement, error) {
	items := []models.Announcement{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT id, title, body, created_by, created_at
		FROM announcements
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("announcement repository: list %w", err)
	}
	return items, nil
}

// Delete удаляет объявление.
func (r *AnnouncementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("announcement repository: delete %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAnnouncementGone
	}
	return nil
}

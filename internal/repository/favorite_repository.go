package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

type FavoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add добавляет объявление в избранное. Повторное добавление ничего не меняет.
func (r *FavoriteRepository) Add(ctx context.Context, userID, listingID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, listing_id) VALUES ($1, $2)
		ON CONFLICT (user_id, listing_id) DO NOTHING
	`, userID, listingID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrListingNotFound
		}
		return fmt.Errorf("favorite repository: add %w", err)
	}
	return nil
}

// Remove убирает объявление из избранного.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	if err != nil {
		return fmt.Errorf("favorite repository: remove %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

// ListListings возвращает избранные объявления пользователя.
func (r *FavoriteRepository) ListListings(ctx context.Context, userID uuid.UUID) ([]models.Listing, error) {
	listings := []models.Listing{}
	err := r.db.SelectContext(ctx, &listings, `
		SELECT l.id, l.seller_id, l.title, l.description, l.price, l.category, l.images, l.status,
			l.created_at, l.updated_at
		FROM favorites f
		JOIN listings l ON l.id = f.listing_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("favorite repository: list %w", err)
	}
	return listings, nil
}

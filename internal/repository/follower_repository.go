package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

type FollowerRepository struct {
	db *sqlx.DB
}

func NewFollowerRepository(db *sqlx.DB) *FollowerRepository {
	return &FollowerRepository{db: db}
}

// Follow подписывает пользователя на продавца.
func (r *FollowerRepository) Follow(ctx context.Context, followerID, sellerID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO followers (follower_id, seller_id) VALUES ($1, $2)`, followerID, sellerID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("follower repository: follow %w", err)
	}
	return nil
}

// Unfollow отменяет подписку.
func (r *FollowerRepository) Unfollow(ctx context.Context, followerID, sellerID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM followers WHERE follower_id = $1 AND seller_id = $2`, followerID, sellerID)
	if err != nil {
		return fmt.Errorf("follower repository: unfollow %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFollowNotFound
	}
	return nil
}

// ListFollowers возвращает подписчиков продавца.
func (r *FollowerRepository) ListFollowers(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Follower, error) {
	followers := []models.Follower{}
	err := r.db.SelectContext(ctx, &followers, `
		SELECT f.follower_id, f.seller_id, p.username AS follower_username, f.created_at
		FROM followers f
		JOIN profiles p ON p.user_id = f.follower_id
		WHERE f.seller_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`, sellerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("follower repository: list %w", err)
	}
	return followers, nil
}

// CountFollowers считает подписчиков продавца.
func (r *FollowerRepository) CountFollowers(ctx context.Context, sellerID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM followers WHERE seller_id = $1`, sellerID); err != nil {
		return 0, fmt.Errorf("follower repository: count %w", err)
	}
	return count, nil
}

package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create создаёт отзыв. Второй отзыв по тому же заказу отклоняется уникальным индексом.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO reviews (order_id, reviewer_id, reviewed_user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, review.OrderID, review.ReviewerID, review.ReviewedUserID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrReviewExists
		}
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

// ExistsForOrder проверяет, оставлен ли уже отзыв по заказу.
func (r *ReviewRepository) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM reviews WHERE order_id = $1)`, orderID); err != nil {
		return false, fmt.Errorf("review repository: exists %w", err)
	}
	return exists, nil
}

// ListAboutUser возвращает отзывы о пользователе, новые первыми.
func (r *ReviewRepository) ListAboutUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ReviewWithAuthor, error) {
	reviews := []models.ReviewWithAuthor{}
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT r.id, r.order_id, r.reviewer_id, r.reviewed_user_id, r.rating, r.comment, r.created_at,
			p.username AS reviewer_username
		FROM reviews r
		JOIN profiles p ON p.user_id = r.reviewer_id
		WHERE r.reviewed_user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("review repository: list about user %w", err)
	}
	return reviews, nil
}

// RatingsFor возвращает все оценки, полученные пользователем.
func (r *ReviewRepository) RatingsFor(ctx context.Context, userID uuid.UUID) ([]int, error) {
	ratings := []int{}
	if err := r.db.SelectContext(ctx, &ratings, `SELECT rating FROM reviews WHERE reviewed_user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("review repository: ratings %w", err)
	}
	return ratings, nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Границы шкалы оценок.
const (
	RatingMin = 1
	RatingMax = 10
)

// Review отзыв покупателя о продавце по завершённому заказу.
type Review struct {
	ID             uuid.UUID `db:"id" json:"id"`
	OrderID        uuid.UUID `db:"order_id" json:"order_id"`
	ReviewerID     uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	ReviewedUserID uuid.UUID `db:"reviewed_user_id" json:"reviewed_user_id"`
	Rating         int       `db:"rating" json:"rating"`
	Comment        *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ReviewWithAuthor отзыв вместе с именем автора.
type ReviewWithAuthor struct {
	Review
	ReviewerUsername string `db:"reviewer_username" json:"reviewer_username"`
}

// ReputationSummary количество отзывов и средняя оценка.
type ReputationSummary struct {
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

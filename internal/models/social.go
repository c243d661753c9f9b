package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite объявление в избранном пользователя.
type Favorite struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	ListingID uuid.UUID `db:"listing_id" json:"listing_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Follower подписка пользователя на продавца.
type Follower struct {
	FollowerID       uuid.UUID `db:"follower_id" json:"follower_id"`
	SellerID         uuid.UUID `db:"seller_id" json:"seller_id"`
	FollowerUsername string    `db:"follower_username" json:"follower_username"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Announcement объявление администрации.
type Announcement struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Body      string     `db:"body" json:"body"`
	CreatedBy *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

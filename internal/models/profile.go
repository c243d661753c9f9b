package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile хранит публичные данные и баланс пользователя.
type Profile struct {
	UserID          uuid.UUID `db:"user_id" json:"user_id"`
	Username        string    `db:"username" json:"username"`
	AvatarURL       *string   `db:"avatar_url" json:"avatar_url"`
	CoverURL        *string   `db:"cover_url" json:"cover_url"`
	Description     *string   `db:"description" json:"description"`
	DeliveryHours   *string   `db:"delivery_hours" json:"delivery_hours"`
	Balance         float64   `db:"balance" json:"balance"`
	UsernameChanges int       `db:"username_changes" json:"username_changes"`
	SellerScore     float64   `db:"seller_score" json:"seller_score"`
	TotalSales      int       `db:"total_sales" json:"total_sales"`
	Verified        bool      `db:"verified" json:"verified"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// AdminUserView профиль с ролью и email для админ-панели.
type AdminUserView struct {
	Profile
	Email string `db:"email" json:"email"`
	Role  string `db:"role" json:"role"`
}

// SellerPage агрегированные данные публичной страницы продавца.
type SellerPage struct {
	Profile         *Profile          `json:"profile"`
	Reputation      ReputationSummary `json:"reputation"`
	Badges          []string          `json:"badges"`
	CompletedOrders int               `json:"completed_orders"`
	ActiveListings  int               `json:"active_listings"`
	Followers       int               `json:"followers"`
}

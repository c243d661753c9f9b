package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Listing объявление продавца.
type Listing struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	SellerID    uuid.UUID      `db:"seller_id" json:"seller_id"`
	Title       string         `db:"title" json:"title"`
	Description *string        `db:"description" json:"description,omitempty"`
	Price       float64        `db:"price" json:"price"`
	Category    string         `db:"category" json:"category"`
	Images      pq.StringArray `db:"images" json:"images"`
	Status      string         `db:"status" json:"status"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// FeaturedListing объявление для главной страницы с данными продавца.
type FeaturedListing struct {
	Listing
	SellerUsername string  `db:"seller_username" json:"seller_username"`
	SellerScore    float64 `db:"seller_score" json:"seller_score"`
	TotalSales     int     `db:"total_sales" json:"total_sales"`
	SellerVerified bool    `db:"seller_verified" json:"seller_verified"`
}

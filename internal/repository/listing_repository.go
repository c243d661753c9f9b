package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/repository/common"
)

const listingColumns = `id, seller_id, title, description, price, category, images, status, created_at, updated_at`

// ListingRepository работает с объявлениями.
type ListingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Create сохраняет новое объявление.
func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if listing.Images == nil {
		listing.Images = []string{}
	}
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO listings (seller_id, title, description, price, category, images)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, created_at, updated_at
	`, listing.SellerID, listing.Title, listing.Description, listing.Price, listing.Category, listing.Images,
	).Scan(&listing.ID, &listing.Status, &listing.CreatedAt, &listing.UpdatedAt)
}

// GetByID возвращает объявление.
func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	return common.GetByID[models.Listing](ctx, r.db, "listings", id, ErrListingNotFound)
}

// ListBySeller возвращает объявления продавца.
func (r *ListingRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Listing, error) {
	listings := []models.Listing{}
	err := r.db.SelectContext(ctx, &listings, `
		SELECT `+listingColumns+` FROM listings
		WHERE seller_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, sellerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing repository: list by seller %w", err)
	}
	return listings, nil
}

// ListFeatured возвращает свежие активные объявления вместе с данными продавца.
func (r *ListingRepository) ListFeatured(ctx context.Context, limit int) ([]models.FeaturedListing, error) {
	listings := []models.FeaturedListing{}
	err := r.db.SelectContext(ctx, &listings, `
		SELECT l.id, l.seller_id, l.title, l.description, l.price, l.category, l.images, l.status,
			l.created_at, l.updated_at,
			p.username AS seller_username, p.seller_score, p.total_sales, p.verified AS seller_verified
		FROM listings l
		JOIN profiles p ON p.user_id = l.seller_id
		WHERE l.status = 'active'
		ORDER BY l.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing repository: featured %w", err)
	}
	return listings, nil
}

// CountActiveBySeller считает активные объявления продавца.
func (r *ListingRepository) CountActiveBySeller(ctx context.Context, sellerID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM listings WHERE seller_id = $1 AND status = 'active'`, sellerID)
	if err != nil {
		return 0, fmt.Errorf("listing repository: count active %w", err)
	}
	return count, nil
}

// DeleteOwned удаляет объявление, если оно принадлежит продавцу.
// Объявление, по которому уже есть заказы, снимается с продажи.
func (r *ListingRepository) DeleteOwned(ctx context.Context, id, sellerID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1 AND seller_id = $2`, id, sellerID)
	if isForeignKeyViolation(err) {
		res, err = r.db.ExecContext(ctx, `
			UPDATE listings SET status = 'inactive', updated_at = NOW()
			WHERE id = $1 AND seller_id = $2
		`, id, sellerID)
	}
	if err != nil {
		return fmt.Errorf("listing repository: delete %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrListingNotFound
	}
	return nil
}

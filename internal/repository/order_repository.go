package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/repository/common"
)

const orderColumns = `id, buyer_id, seller_id, listing_id, price, commission, status, delivery_note,
	created_at, updated_at, completed_at`

// OrderRepository работает с заказами.
type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create сохраняет заказ со снимком цены.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO orders (buyer_id, seller_id, listing_id, price, commission, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, order.BuyerID, order.SellerID, order.ListingID, order.Price, order.Commission, order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

// GetByID возвращает заказ.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.GetContext(ctx, &order, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("order repository: get %w", err)
	}
	return &order, nil
}

// ListByBuyer возвращает покупки пользователя.
func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return r.list(ctx, "buyer_id", buyerID, limit, offset)
}

// ListBySeller возвращает продажи пользователя.
func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return r.list(ctx, "seller_id", sellerID, limit, offset)
}

func (r *OrderRepository) list(ctx context.Context, column string, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.SelectContext(ctx, &orders, `
		SELECT `+orderColumns+` FROM orders
		WHERE `+column+` = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("order repository: list by %s %w", column, err)
	}
	return orders, nil
}

// CountCompletedBySeller считает завершённые продажи.
func (r *OrderRepository) CountCompletedBySeller(ctx context.Context, sellerID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders WHERE seller_id = $1 AND status = 'completed'`, sellerID)
	if err != nil {
		return 0, fmt.Errorf("order repository: count completed %w", err)
	}
	return count, nil
}

// UpdateStatus переводит заказ из статуса from в статус to.
// Если заказ уже сменил статус, возвращается ErrStaleOrderStep.
// При завершении проставляется completed_at и увеличивается счётчик продаж продавца.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to string, deliveryNote *string) (*models.Order, error) {
	var order models.Order
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &order, `
			UPDATE orders SET
				status = $3,
				delivery_note = COALESCE($4, delivery_note),
				completed_at = CASE WHEN $3 = 'completed' THEN NOW() ELSE completed_at END,
				updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING `+orderColumns, id, from, to, deliveryNote)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrStaleOrderStep
			}
			return fmt.Errorf("order repository: update status %w", err)
		}

		if to == models.OrderStatusCompleted {
			if _, err := tx.ExecContext(ctx, `
				UPDATE profiles SET total_sales = total_sales + 1, updated_at = NOW() WHERE user_id = $1
			`, order.SellerID); err != nil {
				return fmt.Errorf("order repository: increment total sales %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

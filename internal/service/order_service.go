package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/notshop-backend/internal/logger"
	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/repository"
	"github.com/ignatzorin/notshop-backend/internal/session"
	"github.com/ignatzorin/notshop-backend/internal/validation"
)

// DefaultCommissionRate комиссия платформы по умолчанию.
const DefaultCommissionRate = 0.05

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, limit, offset int) ([]models.Order, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string, deliveryNote *string) (*models.Order, error)
}

type ListingGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	List(ctx context.Context, status string, limit, offset int) ([]models.Report, error)
}

// OrderService управляет покупками и их статусами.
type OrderService struct {
	orders         OrderRepository
	listings       ListingGetter
	reports        ReportRepository
	commissionRate float64
}

func NewOrderService(orders OrderRepository, listings ListingGetter, reports ReportRepository, commissionRate float64) *OrderService {
	return &OrderService{
		orders:         orders,
		listings:       listings,
		reports:        reports,
		commissionRate: commissionRate,
	}
}

// Commission считает комиссию платформы с точностью до копеек.
func Commission(price, rate float64) float64 {
	return roundCents(price * rate)
}

// Create оформляет покупку активного объявления по текущей цене.
func (s *OrderService) Create(ctx context.Context, buyerID, listingID uuid.UUID) (*models.Order, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, err
	}
	if listing.SellerID == buyerID {
		return nil, apperror.ErrOwnListing
	}
	if listing.Status != models.ListingStatusActive {
		return nil, apperror.ErrListingInactive
	}

	order := &models.Order{
		BuyerID:    buyerID,
		SellerID:   listing.SellerID,
		ListingID:  listing.ID,
		Price:      listing.Price,
		Commission: Commission(listing.Price, s.commissionRate),
		Status:     models.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListBuying возвращает покупки пользователя.
func (s *OrderService) ListBuying(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return s.orders.ListByBuyer(ctx, userID, limit, offset)
}

// ListSelling возвращает продажи пользователя.
func (s *OrderService) ListSelling(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Order, error) {
	return s.orders.ListBySeller(ctx, userID, limit, offset)
}

// Get возвращает заказ участнику сделки или администратору.
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin() && sess.UserID != order.BuyerID && sess.UserID != order.SellerID {
		return nil, apperror.ErrForbidden
	}
	return order, nil
}

// ChangeStatus переводит заказ в новый статус от имени пользователя из сессии.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID uuid.UUID, to string, deliveryNote *string) (*models.Order, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	if _, valid := models.ValidOrderStatuses[to]; !valid {
		return nil, apperror.Validation("неизвестный статус заказа")
	}
	if err := validation.ValidateOptionalText("комментарий к доставке", deliveryNote, validation.MaxDeliveryNoteLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, to) {
		return nil, apperror.ErrInvalidTransition
	}
	if !mayTransition(sess, order, to) {
		return nil, apperror.ErrForbidden
	}
	if to != models.OrderStatusDelivered {
		deliveryNote = nil
	}

	updated, err := s.orders.UpdateStatus(ctx, order.ID, order.Status, to, deliveryNote)
	if err != nil {
		if errors.Is(err, repository.ErrStaleOrderStep) {
			return nil, apperror.ErrInvalidTransition
		}
		return nil, err
	}

	logger.Component("orders").WithFields(logrus.Fields{
		"order_id": order.ID,
		"from":     order.Status,
		"to":       to,
		"actor":    sess.UserID,
	}).Info("orders: статус изменён")
	return updated, nil
}

// OpenReport создаёт запрос на возврат и переводит заказ в спор, если это допустимо.
func (s *OrderService) OpenReport(ctx context.Context, orderID uuid.UUID, reason string, details *string) (*models.Report, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}
	reason = strings.TrimSpace(reason)
	if err := validation.ValidateNonEmpty("причина", reason); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("причина", reason, 0, validation.MaxReportReasonLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateOptionalText("подробности", details, validation.MaxReportDetailsLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != order.BuyerID {
		return nil, apperror.ErrForbidden
	}

	report := &models.Report{
		OrderID:    order.ID,
		ReporterID: sess.UserID,
		Reason:     reason,
		Details:    details,
		Status:     models.ReportStatusPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	if models.CanTransition(order.Status, models.OrderStatusDisputed) {
		if _, err := s.orders.UpdateStatus(ctx, order.ID, order.Status, models.OrderStatusDisputed, nil); err != nil &&
			!errors.Is(err, repository.ErrStaleOrderStep) {
			return nil, err
		}
	}
	return report, nil
}

// ListReports возвращает жалобы для модерации.
func (s *OrderService) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, error) {
	return s.reports.List(ctx, status, limit, offset)
}

func (s *OrderService) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// mayTransition проверяет, может ли участник сделки выполнить переход.
// Продавец отмечает доставку, покупатель оплачивает, подтверждает и открывает спор.
// Отменить заказ может любая из сторон. Администратор может всё.
func mayTransition(sess session.Session, order *models.Order, to string) bool {
	if sess.IsAdmin() {
		return true
	}
	isBuyer := sess.UserID == order.BuyerID
	isSeller := sess.UserID == order.SellerID

	switch to {
	case models.OrderStatusDelivered:
		return isSeller
	case models.OrderStatusPaid, models.OrderStatusCompleted, models.OrderStatusDisputed:
		return isBuyer
	case models.OrderStatusCancelled:
		return isBuyer || isSeller
	default:
		return false
	}
}

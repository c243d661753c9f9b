package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/repository"
	"github.com/ignatzorin/notshop-backend/internal/validation"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	ListAboutUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ReviewWithAuthor, error)
}

type OrderRepoForReview interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

// UserReviews отзывы о пользователе вместе со сводкой.
type UserReviews struct {
	Reviews []models.ReviewWithAuthor `json:"reviews"`
	Summary models.ReputationSummary  `json:"summary"`
}

type ReviewService struct {
	repo       ReviewRepository
	orders     OrderRepoForReview
	reputation *ReputationService
}

func NewReviewService(repo ReviewRepository, orders OrderRepoForReview, reputation *ReputationService) *ReviewService {
	return &ReviewService{repo: repo, orders: orders, reputation: reputation}
}

// CreateReview сохраняет отзыв покупателя о продавце по завершённому заказу.
func (s *ReviewService) CreateReview(ctx context.Context, orderID, reviewerID uuid.UUID, rating int, comment *string) (*models.Review, error) {
	if err := validation.ValidateRating(rating); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateOptionalText("комментарий", comment, validation.MaxReviewCommentLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, err
	}
	if order.BuyerID != reviewerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отзыв может оставить только покупатель")
	}
	if order.Status != models.OrderStatusCompleted {
		return nil, apperror.ErrOrderNotCompleted
	}

	exists, err := s.repo.ExistsForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ErrReviewExists
	}

	review := &models.Review{
		OrderID:        orderID,
		ReviewerID:     reviewerID,
		ReviewedUserID: order.SellerID,
		Rating:         rating,
		Comment:        comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewExists) {
			return nil, apperror.ErrReviewExists
		}
		return nil, err
	}

	s.reputation.Invalidate(ctx, order.SellerID)
	return review, nil
}

// ListForUser возвращает отзывы о пользователе и сводку его репутации.
func (s *ReviewService) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) (*UserReviews, error) {
	reviews, err := s.repo.ListAboutUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	summary, err := s.reputation.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserReviews{Reviews: reviews, Summary: summary}, nil
}

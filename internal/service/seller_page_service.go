package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

type CompletedOrderCounter interface {
	CountCompletedBySeller(ctx context.Context, sellerID uuid.UUID) (int, error)
}

type ActiveListingCounter interface {
	CountActiveBySeller(ctx context.Context, sellerID uuid.UUID) (int, error)
}

type FollowerCounter interface {
	CountFollowers(ctx context.Context, sellerID uuid.UUID) (int, error)
}

// SellerPageService собирает публичную страницу продавца.
type SellerPageService struct {
	profiles   ProfileRepository
	reputation *ReputationService
	orders     CompletedOrderCounter
	listings   ActiveListingCounter
	followers  FollowerCounter
}

func NewSellerPageService(
	profiles ProfileRepository,
	reputation *ReputationService,
	orders CompletedOrderCounter,
	listings ActiveListingCounter,
	followers FollowerCounter,
) *SellerPageService {
	return &SellerPageService{
		profiles:   profiles,
		reputation: reputation,
		orders:     orders,
		listings:   listings,
		followers:  followers,
	}
}

// Get загружает части страницы параллельно. Первая ошибка отменяет остальные запросы.
func (s *SellerPageService) Get(ctx context.Context, sellerID uuid.UUID) (*models.SellerPage, error) {
	page := &models.SellerPage{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := s.profiles.GetByUserID(gctx, sellerID)
		if err != nil {
			return mapProfileError(err)
		}
		page.Profile = profile
		return nil
	})
	g.Go(func() error {
		summary, err := s.reputation.Summary(gctx, sellerID)
		page.Reputation = summary
		return err
	})
	g.Go(func() error {
		n, err := s.orders.CountCompletedBySeller(gctx, sellerID)
		page.CompletedOrders = n
		return err
	})
	g.Go(func() error {
		n, err := s.listings.CountActiveBySeller(gctx, sellerID)
		page.ActiveListings = n
		return err
	})
	g.Go(func() error {
		n, err := s.followers.CountFollowers(gctx, sellerID)
		page.Followers = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	page.Badges = Badges(page.CompletedOrders, page.Reputation.AverageRating)
	return page, nil
}

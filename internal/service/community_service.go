package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/repository"
)

const publicAnnouncementsLimit = 20

type FavoriteRepository interface {
	Add(ctx context.Context, userID, listingID uuid.UUID) error
	Remove(ctx context.Context, userID, listingID uuid.UUID) error
	ListListings(ctx context.Context, userID uuid.UUID) ([]models.Listing, error)
}

type FollowerRepository interface {
	FollowerCounter
	Follow(ctx context.Context, followerID, sellerID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, sellerID uuid.UUID) error
	ListFollowers(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Follower, error)
}

// CommunityService избранное, подписки и объявления администрации.
type CommunityService struct {
	favorites     FavoriteRepository
	followers     FollowerRepository
	announcements AnnouncementRepository
}

func NewCommunityService(favorites FavoriteRepository, followers FollowerRepository, announcements AnnouncementRepository) *CommunityService {
	return &CommunityService{
		favorites:     favorites,
		followers:     followers,
		announcements: announcements,
	}
}

// AddFavorite добавляет объявление в избранное.
func (s *CommunityService) AddFavorite(ctx context.Context, userID, listingID uuid.UUID) error {
	if err := s.favorites.Add(ctx, userID, listingID); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return apperror.ErrListingNotFound
		}
		return err
	}
	return nil
}

// RemoveFavorite убирает объявление из избранного.
func (s *CommunityService) RemoveFavorite(ctx context.Context, userID, listingID uuid.UUID) error {
	if err := s.favorites.Remove(ctx, userID, listingID); err != nil {
		if errors.Is(err, repository.ErrFavoriteNotFound) {
			return apperror.New(apperror.ErrCodeNotFound, "объявление не в избранном")
		}
		return err
	}
	return nil
}

// Favorites возвращает избранные объявления.
func (s *CommunityService) Favorites(ctx context.Context, userID uuid.UUID) ([]models.Listing, error) {
	return s.favorites.ListListings(ctx, userID)
}

// Follow подписывает пользователя на продавца.
func (s *CommunityService) Follow(ctx context.Context, followerID, sellerID uuid.UUID) error {
	if followerID == sellerID {
		return apperror.ErrSelfFollow
	}
	if err := s.followers.Follow(ctx, followerID, sellerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			return apperror.ErrAlreadyFollowing
		case errors.Is(err, repository.ErrProfileNotFound):
			return apperror.ErrProfileNotFound
		}
		return err
	}
	return nil
}

// Unfollow отменяет подписку.
func (s *CommunityService) Unfollow(ctx context.Context, followerID, sellerID uuid.UUID) error {
	if err := s.followers.Unfollow(ctx, followerID, sellerID); err != nil {
		if errors.Is(err, repository.ErrFollowNotFound) {
			return apperror.New(apperror.ErrCodeNotFound, "подписка не найдена")
		}
		return err
	}
	return nil
}

// Followers возвращает подписчиков продавца.
func (s *CommunityService) Followers(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Follower, error) {
	return s.followers.ListFollowers(ctx, sellerID, limit, offset)
}

// Announcements возвращает последние объявления администрации.
func (s *CommunityService) Announcements(ctx context.Context) ([]models.Announcement, error) {
	return s.announcements.List(ctx, publicAnnouncementsLimit)
}

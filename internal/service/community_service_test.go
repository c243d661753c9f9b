package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/repository"
)

type mockFollowerRepository struct {
	mock.Mock
}

func (m *mockFollowerRepository) CountFollowers(ctx context.Context, sellerID uuid.UUID) (int, error) {
	args := m.Called(ctx, sellerID)
	return args.Int(0), args.Error(1)
}

func (m *mockFollowerRepository) Follow(ctx context.Context, followerID, sellerID uuid.UUID) error {
	return m.Called(ctx, followerID, sellerID).Error(0)
}

func (m *mockFollowerRepository) Unfollow(ctx context.Context, followerID, sellerID uuid.UUID) error {
	return m.Called(ctx, followerID, sellerID).Error(0)
}

func (m *mockFollowerRepository) ListFollowers(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Follower, error) {
	args := m.Called(ctx, sellerID, limit, offset)
	return args.Get(0).([]models.Follower), args.Error(1)
}

type mockListingRepository struct {
	mock.Mock
}

func (m *mockListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.Listing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	return m.Called(ctx, listing).Error(0)
}

func (m *mockListingRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Listing, error) {
	args := m.Called(ctx, sellerID, limit, offset)
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *mockListingRepository) ListFeatured(ctx context.Context, limit int) ([]models.FeaturedListing, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.FeaturedListing), args.Error(1)
}

func (m *mockListingRepository) DeleteOwned(ctx context.Context, id, sellerID uuid.UUID) error {
	return m.Called(ctx, id, sellerID).Error(0)
}

func TestCommunityService_Follow(t *testing.T) {
	ctx := context.Background()
	follower, seller, ghost := uuid.New(), uuid.New(), uuid.New()

	followers := new(mockFollowerRepository)
	followers.On("Follow", ctx, follower, seller).Return(nil).Once()
	followers.On("Follow", ctx, follower, seller).Return(repository.ErrAlreadyExists)
	followers.On("Follow", ctx, follower, ghost).Return(repository.ErrProfileNotFound)

	svc := NewCommunityService(nil, followers, nil)

	require.NoError(t, svc.Follow(ctx, follower, seller))
	assert.ErrorIs(t, svc.Follow(ctx, follower, seller), apperror.ErrAlreadyFollowing)
	assert.ErrorIs(t, svc.Follow(ctx, follower, ghost), apperror.ErrProfileNotFound)
	assert.ErrorIs(t, svc.Follow(ctx, follower, follower), apperror.ErrSelfFollow)
}

func TestListingService_Create(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	repo := new(mockListingRepository)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Listing")).Return(nil)

	svc := NewListingService(repo)
	listing, err := svc.Create(ctx, sellerID, ListingInput{
		Title:    "  Ключ Steam  ",
		Price:    199.999,
		Category: "games",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ключ Steam", listing.Title)
	assert.Equal(t, 200.0, listing.Price)
	assert.Equal(t, sellerID, listing.SellerID)

	_, err = svc.Create(ctx, sellerID, ListingInput{Title: "ok title", Price: -1, Category: "games"})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.Create(ctx, sellerID, ListingInput{Title: "ab", Price: 10, Category: "games"})
	assert.True(t, apperror.IsValidation(err))
}

func TestListingService_Delete(t *testing.T) {
	ctx := context.Background()
	sellerID, id := uuid.New(), uuid.New()
	repo := new(mockListingRepository)
	repo.On("DeleteOwned", ctx, id, sellerID).Return(repository.ErrListingNotFound)

	err := NewListingService(repo).Delete(ctx, sellerID, id)
	assert.ErrorIs(t, err, apperror.ErrListingNotFound)
}

func TestListingService_Featured(t *testing.T) {
	ctx := context.Background()
	repo := new(mockListingRepository)
	repo.On("ListFeatured", ctx, FeaturedListingsLimit).Return([]models.FeaturedListing{{SellerUsername: "seller"}}, nil)

	got, err := NewListingService(repo).Featured(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/repository"
	"github.com/ignatzorin/notshop-backend/internal/validation"
)

// FeaturedListingsLimit количество объявлений на главной.
const FeaturedListingsLimit = 8

type ListingRepository interface {
	ListingGetter
	Create(ctx context.Context, listing *models.Listing) error
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Listing, error)
	ListFeatured(ctx context.Context, limit int) ([]models.FeaturedListing, error)
	DeleteOwned(ctx context.Context, id, sellerID uuid.UUID) error
}

// ListingInput данные нового объявления.
type ListingInput struct {
	Title       string
	Description *string
	Price       float64
	Category    string
	Images      []string
}

type ListingService struct {
	repo ListingRepository
}

func NewListingService(repo ListingRepository) *ListingService {
	return &ListingService{repo: repo}
}

// Create публикует объявление продавца.
func (s *ListingService) Create(ctx context.Context, sellerID uuid.UUID, in ListingInput) (*models.Listing, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = trimOptional(in.Description)

	if err := validateListing(in); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	listing := &models.Listing{
		SellerID:    sellerID,
		Title:       in.Title,
		Description: in.Description,
		Price:       roundCents(in.Price),
		Category:    in.Category,
		Images:      in.Images,
	}
	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func validateListing(in ListingInput) error {
	if err := validation.ValidateListingTitle(in.Title); err != nil {
		return err
	}
	if err := validation.ValidatePrice(in.Price); err != nil {
		return err
	}
	if err := validation.ValidateNonEmpty("категория", in.Category); err != nil {
		return err
	}
	if err := validation.ValidateLength("категория", in.Category, 0, validation.MaxCategoryLength); err != nil {
		return err
	}
	if err := validation.ValidateOptionalText("описание", in.Description, validation.MaxListingDescription); err != nil {
		return err
	}
	if len(in.Images) > validation.MaxListingImages {
		return errors.New("слишком много изображений")
	}
	return nil
}

// Get возвращает объявление.
func (s *ListingService) Get(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, err
	}
	return listing, nil
}

// ListMine возвращает объявления продавца.
func (s *ListingService) ListMine(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]models.Listing, error) {
	return s.repo.ListBySeller(ctx, sellerID, limit, offset)
}

// Featured возвращает свежие активные объявления для главной страницы.
func (s *ListingService) Featured(ctx context.Context) ([]models.FeaturedListing, error) {
	return s.repo.ListFeatured(ctx, FeaturedListingsLimit)
}

// Delete удаляет собственное объявление продавца.
func (s *ListingService) Delete(ctx context.Context, sellerID, id uuid.UUID) error {
	if err := s.repo.DeleteOwned(ctx, id, sellerID); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return apperror.ErrListingNotFound
		}
		return err
	}
	return nil
}

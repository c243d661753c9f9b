package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/notshop-backend/internal/logger"
	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/repository"
	"github.com/ignatzorin/notshop-backend/internal/validation"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateDetails(ctx context.Context, userID uuid.UUID, description, deliveryHours *string) (*models.Profile, error)
	SetImageURL(ctx context.Context, userID uuid.UUID, kind, url string) (*models.Profile, error)
}

// ObjectStore хранилище загружаемых изображений.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageUpload загружаемое изображение профиля.
type ImageUpload struct {
	Kind        string
	Extension   string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ProfileService struct {
	profiles ProfileRepository
	store    ObjectStore
	events   ProfileEvents
}

func NewProfileService(profiles ProfileRepository, store ObjectStore, events ProfileEvents) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		store:    store,
		events:   eventsOrNoop(events),
	}
}

// Get возвращает профиль пользователя.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapProfileError(err)
	}
	return profile, nil
}

// UpdateDetails обновляет описание продавца и время доставки.
func (s *ProfileService) UpdateDetails(ctx context.Context, userID uuid.UUID, description, deliveryHours *string) (*models.Profile, error) {
	description = trimOptional(description)
	deliveryHours = trimOptional(deliveryHours)

	if err := validation.ValidateOptionalText("описание", description, validation.MaxProfileDescription); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateOptionalText("время доставки", deliveryHours, validation.MaxDeliveryHoursLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	profile, err := s.profiles.UpdateDetails(ctx, userID, description, deliveryHours)
	if err != nil {
		return nil, mapProfileError(err)
	}
	s.events.ProfileUpdated(ctx, profile)
	return profile, nil
}

// ImageKey возвращает ключ объекта для изображения профиля.
func ImageKey(userID uuid.UUID, kind, ext string) string {
	return fmt.Sprintf("%ss/%s/%s.%s", kind, userID, kind, ext)
}

// UploadImage сохраняет аватар или обложку и записывает ссылку в профиль.
// Объект перезаписывается по тому же ключу, старый файл с другим расширением удаляется.
func (s *ProfileService) UploadImage(ctx context.Context, userID uuid.UUID, in ImageUpload) (*models.Profile, error) {
	if in.Kind != models.ProfileImageAvatar && in.Kind != models.ProfileImageCover {
		return nil, apperror.Validation("неизвестный тип изображения")
	}
	if in.Extension == "" {
		return nil, apperror.Validation("не удалось определить формат изображения")
	}

	current, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapProfileError(err)
	}

	key := ImageKey(userID, in.Kind, in.Extension)
	url, err := s.store.Put(ctx, key, in.ContentType, in.Body, in.Size)
	if err != nil {
		return nil, fmt.Errorf("profile service: не удалось сохранить изображение: %w", err)
	}

	profile, err := s.profiles.SetImageURL(ctx, userID, in.Kind, url)
	if err != nil {
		return nil, mapProfileError(err)
	}

	previous := current.AvatarURL
	if in.Kind == models.ProfileImageCover {
		previous = current.CoverURL
	}
	if oldKey, ok := previousImageKey(previous, userID, in.Kind); ok && oldKey != key {
		if err := s.store.Delete(ctx, oldKey); err != nil {
			logger.Component("profile").WithFields(logrus.Fields{
				"user_id": userID,
				"key":     oldKey,
				"error":   err.Error(),
			}).Warn("profile: не удалось удалить старое изображение")
		}
	}

	s.events.ProfileUpdated(ctx, profile)
	return profile, nil
}

// previousImageKey восстанавливает ключ объекта из сохранённой ссылки.
func previousImageKey(url *string, userID uuid.UUID, kind string) (string, bool) {
	if url == nil {
		return "", false
	}
	prefix := fmt.Sprintf("%ss/%s/%s.", kind, userID, kind)
	idx := strings.Index(*url, prefix)
	if idx < 0 {
		return "", false
	}
	return (*url)[idx:], true
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	return &trimmed
}

func mapProfileError(err error) error {
	if errors.Is(err, repository.ErrProfileNotFound) {
		return apperror.ErrProfileNotFound
	}
	return err
}

package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/repository"
)

// stubProfileRepository хранит профили в памяти.
type stubProfileRepository struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile
}

func newStubProfileRepository(profiles ...*models.Profile) *stubProfileRepository {
	r := &stubProfileRepository{profiles: make(map[uuid.UUID]*models.Profile)}
	for _, p := range profiles {
		r.profiles[p.UserID] = p
	}
	return r
}

func (r *stubProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *stubProfileRepository) UpdateDetails(ctx context.Context, userID uuid.UUID, description, deliveryHours *string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	p.Description = description
	p.DeliveryHours = deliveryHours
	copied := *p
	return &copied, nil
}

func (r *stubProfileRepository) SetImageURL(ctx context.Context, userID uuid.UUID, kind, url string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	if kind == models.ProfileImageCover {
		p.CoverURL = &url
	} else {
		p.AvatarURL = &url
	}
	copied := *p
	return &copied, nil
}

// memoryObjectStore складывает объекты в карту.
type memoryObjectStore struct {
	objects map[string][]byte
	deleted []string
	putErr  error
}

func newMemoryObjectStore() *memoryObjectStore {
	return &memoryObjectStore{objects: make(map[string][]byte)}
}

func (s *memoryObjectStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[key] = data
	return "https://cdn.example.com/media/" + key, nil
}

func (s *memoryObjectStore) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func TestImageKey(t *testing.T) {
	id := uuid.MustParse("4f8a1c2e-0000-4000-8000-000000000001")
	assert.Equal(t, "avatars/4f8a1c2e-0000-4000-8000-000000000001/avatar.png", ImageKey(id, models.ProfileImageAvatar, "png"))
	assert.Equal(t, "covers/4f8a1c2e-0000-4000-8000-000000000001/cover.jpg", ImageKey(id, models.ProfileImageCover, "jpg"))
}

func TestProfileService_UploadImageReplacesOldObject(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	oldURL := "https://cdn.example.com/media/" + ImageKey(userID, models.ProfileImageAvatar, "jpg")
	repo := newStubProfileRepository(&models.Profile{UserID: userID, AvatarURL: &oldURL})
	store := newMemoryObjectStore()
	events := &recordingEvents{}

	svc := NewProfileService(repo, store, events)
	profile, err := svc.UploadImage(ctx, userID, ImageUpload{
		Kind:        models.ProfileImageAvatar,
		Extension:   "png",
		ContentType: "image/png",
		Size:        4,
		Body:        bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}),
	})
	require.NoError(t, err)

	newKey := ImageKey(userID, models.ProfileImageAvatar, "png")
	require.NotNil(t, profile.AvatarURL)
	assert.True(t, strings.HasSuffix(*profile.AvatarURL, newKey))
	assert.Contains(t, store.objects, newKey)
	assert.Equal(t, []string{ImageKey(userID, models.ProfileImageAvatar, "jpg")}, store.deleted)
	assert.Equal(t, 1, events.count())
}

func TestProfileService_UploadImageSameKeyKeepsObject(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	oldURL := "https://cdn.example.com/media/" + ImageKey(userID, models.ProfileImageCover, "png")
	repo := newStubProfileRepository(&models.Profile{UserID: userID, CoverURL: &oldURL})
	store := newMemoryObjectStore()

	_, err := NewProfileService(repo, store, nil).UploadImage(ctx, userID, ImageUpload{
		Kind: models.ProfileImageCover, Extension: "png", Body: strings.NewReader("img"),
	})
	require.NoError(t, err)
	assert.Empty(t, store.deleted)
}

func TestProfileService_UploadImageErrors(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newStubProfileRepository(&models.Profile{UserID: userID})
	store := newMemoryObjectStore()
	svc := NewProfileService(repo, store, nil)

	_, err := svc.UploadImage(ctx, userID, ImageUpload{Kind: "banner", Extension: "png", Body: strings.NewReader("x")})
	assert.True(t, apperror.IsValidation(err))

	_, err = svc.UploadImage(ctx, uuid.New(), ImageUpload{Kind: models.ProfileImageAvatar, Extension: "png", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, apperror.ErrProfileNotFound)

	store.putErr = errors.New("bucket unavailable")
	_, err = svc.UploadImage(ctx, userID, ImageUpload{Kind: models.ProfileImageAvatar, Extension: "png", Body: strings.NewReader("x")})
	assert.Error(t, err)
	p, _ := repo.GetByUserID(ctx, userID)
	assert.Nil(t, p.AvatarURL)
}

func TestProfileService_UpdateDetails(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newStubProfileRepository(&models.Profile{UserID: userID})
	svc := NewProfileService(repo, newMemoryObjectStore(), nil)

	desc := "  Продаю игровые ключи  "
	hours := "1-2 часа"
	profile, err := svc.UpdateDetails(ctx, userID, &desc, &hours)
	require.NoError(t, err)
	assert.Equal(t, "Продаю игровые ключи", *profile.Description)

	long := strings.Repeat("я", 1001)
	_, err = svc.UpdateDetails(ctx, userID, &long, nil)
	assert.True(t, apperror.IsValidation(err))
}

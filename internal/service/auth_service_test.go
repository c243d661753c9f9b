package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/repository"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
	profiles     map[uuid.UUID]*models.Profile
	sessions     map[string]*models.Session
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
		profiles:     make(map[uuid.UUID]*models.Profile),
		sessions:     make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) CreateWithProfile(ctx context.Context, user *models.User, username string) (*models.Profile, error) {
	if _, ok := m.usersByEmail[user.Email]; ok {
		return nil, repository.ErrEmailTaken
	}
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user

	profile := &models.Profile{UserID: user.ID, Username: username, CreatedAt: now, UpdatedAt: now}
	m.profiles[user.ID] = profile
	return profile, nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if user, ok := m.usersByID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, ok := m.sessions[refreshToken]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(m.sessions, refreshToken)
	return nil
}

// stubGate возвращает заранее заданное решение.
type stubGate struct {
	decision *models.IPBanDecision
	err      error
	checked  []string
}

func (g *stubGate) Check(ctx context.Context, ip string) (*models.IPBanDecision, error) {
	g.checked = append(g.checked, ip)
	if g.err != nil {
		return nil, g.err
	}
	if g.decision == nil {
		return &models.IPBanDecision{IPAddress: ip}, nil
	}
	return g.decision, nil
}

func newTestAuthService(gate Gate) (*AuthService, *mockAuthRepository) {
	repo := newMockAuthRepository()
	tokenManager := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	return NewAuthService(repo, tokenManager, gate), repo
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	gate := &stubGate{}
	service, repo := newTestAuthService(gate)
	ctx := context.Background()

	res, err := service.Register(ctx, RegisterInput{
		Email:    "Test@Example.com",
		Password: "Password123",
	}, ClientMeta{IP: "127.0.0.1", UserAgent: "go-test"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.User.ID)
	assert.Equal(t, "test@example.com", res.User.Email)
	assert.Equal(t, models.RoleUser, res.User.Role)
	require.NotNil(t, res.Profile)
	assert.Regexp(t, `^user_[0-9a-f]{12}$`, res.Profile.Username)
	assert.Equal(t, 0, res.Profile.UsernameChanges)
	assert.Equal(t, []string{"127.0.0.1"}, gate.checked)
	assert.Len(t, repo.sessions, 1)

	loginRes, err := service.Login(ctx, LoginInput{
		Email:    "test@example.com",
		Password: "Password123",
	}, ClientMeta{})
	require.NoError(t, err)
	assert.NotEmpty(t, loginRes.TokenPair.AccessToken)
	assert.NotNil(t, repo.usersByID[res.User.ID].LastLoginAt)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	service, _ := newTestAuthService(nil)
	ctx := context.Background()

	in := RegisterInput{Email: "dup@example.com", Password: "Password123"}
	_, err := service.Register(ctx, in, ClientMeta{})
	require.NoError(t, err)

	_, err = service.Register(ctx, in, ClientMeta{})
	assert.ErrorIs(t, err, apperror.ErrEmailTaken)
}

func TestAuthService_RegisterFromBannedAddress(t *testing.T) {
	reason := "спам"
	gate := &stubGate{decision: &models.IPBanDecision{IPAddress: "10.0.0.1", IsBanned: true, BanReason: &reason}}
	service, repo := newTestAuthService(gate)

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "Password123",
	}, ClientMeta{IP: "10.0.0.1"})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ErrCodeForbidden, appErr.Code)
	assert.Contains(t, appErr.Message, "спам")
	assert.Empty(t, repo.usersByEmail)
}

func TestAuthService_RegisterGateUnavailable(t *testing.T) {
	gate := &stubGate{err: errors.New("dial tcp: connection refused")}
	service, repo := newTestAuthService(gate)

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "Password123",
	}, ClientMeta{IP: "10.0.0.2"})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ErrCodeUnavailable, appErr.Code)
	assert.Empty(t, repo.usersByEmail)
}

func TestAuthService_RegisterWeakPasswordSkipsGate(t *testing.T) {
	gate := &stubGate{}
	service, repo := newTestAuthService(gate)

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "weak@example.com",
		Password: "password123",
	}, ClientMeta{IP: "10.0.0.3"})

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ErrCodeValidation, appErr.Code)
	assert.Empty(t, gate.checked)
	assert.Empty(t, repo.usersByEmail)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	service, _ := newTestAuthService(nil)
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{Email: "a@example.com", Password: "Password123"}, ClientMeta{})
	require.NoError(t, err)

	_, err = service.Login(ctx, LoginInput{Email: "a@example.com", Password: "wrong-password"}, ClientMeta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = service.Login(ctx, LoginInput{Email: "missing@example.com", Password: "Password123"}, ClientMeta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Refresh(t *testing.T) {
	service, repo := newTestAuthService(nil)
	tokenManager := service.tokenManager
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	repo.usersByEmail[user.Email] = user
	repo.usersByID[user.ID] = user

	tokenPair, accessExp, refreshExp, err := tokenManager.GeneratePair(user)
	require.NoError(t, err)
	assert.True(t, accessExp.Before(refreshExp))

	repo.sessions[tokenPair.RefreshToken] = &models.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}

	newPair, err := service.Refresh(ctx, tokenPair.RefreshToken, ClientMeta{})
	require.NoError(t, err)
	assert.NotEqual(t, tokenPair.RefreshToken, newPair.RefreshToken)
	assert.NotContains(t, repo.sessions, tokenPair.RefreshToken)

	_, err = service.Refresh(ctx, tokenPair.RefreshToken, ClientMeta{})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.ErrCodeUnauthorized, appErr.Code)
}

func TestTokenManager_AccessRejectsRefreshToken(t *testing.T) {
	tm := NewTokenManager("access", "refresh", time.Minute, time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}

	pair, _, _, err := tm.GeneratePair(user)
	require.NoError(t, err)

	id, role, err := tm.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, models.RoleAdmin, role)

	_, _, err = tm.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}

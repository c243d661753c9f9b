package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/repository/common"
)

// UserRepository инкапсулирует работу с учётными записями и сессиями.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateWithProfile создаёт пользователя, его роль и пустой профиль в одной транзакции.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *models.User, username string) (*models.Profile, error) {
	user.Email = strings.ToLower(user.Email)
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	var profile models.Profile
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO users (email, password_hash)
			VALUES ($1, $2)
			RETURNING id, is_active, created_at, updated_at
		`, user.Email, user.PasswordHash).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err, "") {
				return ErrEmailTaken
			}
			return fmt.Errorf("user repository: create user %w", err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, user.ID, user.Role); err != nil {
			return fmt.Errorf("user repository: create role %w", err)
		}

		err = tx.GetContext(ctx, &profile, `
			INSERT INTO profiles (user_id, username)
			VALUES ($1, $2)
			RETURNING `+profileColumns, user.ID, username)
		if err != nil {
			if isUniqueViolation(err, "") {
				return ErrUsernameTaken
			}
			return fmt.Errorf("user repository: create profile %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

const userSelect = `
	SELECT u.id, u.email, u.password_hash, COALESCE(ur.role, 'user') AS role,
		u.is_active, u.last_login_at, u.created_at, u.updated_at
	FROM users u
	LEFT JOIN user_roles ur ON ur.user_id = u.id`

// GetByEmail ищет пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.email = $1`, strings.ToLower(email))
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.id = $1`, id)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get %w", err)
	}
	return &user, nil
}

// UpdateLastLoginAt обновляет время последнего входа.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID)
	return err
}

// CreateSession сохраняет refresh токен.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	return r.db.QueryRowxContext(ctx, `
		INSERT INTO user_sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt)
}

// DeleteSession удаляет сессию по refresh токену.
// Возвращает ErrSessionNotFound, если сессии не было.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1`, refreshToken)
	if err != nil {
		return fmt.Errorf("user repository: delete session %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

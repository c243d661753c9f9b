package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/repository/common"
)

const profileColumns = `user_id, username, avatar_url, cover_url, description, delivery_hours,
	balance, username_changes, seller_score, total_sales, verified, created_at, updated_at`

// ProfileTx набор операций над профилем, удерживаемым под блокировкой строки
// до конца транзакции.
type ProfileTx interface {
	Profile() *models.Profile
	UpdateBalance(ctx context.Context, balance float64) error
	InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error
	LedgerEntryByKey(ctx context.Context, key string) (*models.LedgerEntry, error)
	UsernameTaken(ctx context.Context, username string) (bool, error)
	UpdateUsername(ctx context.Context, username string, changes int) error
}

// ProfileRepository работает с таблицей profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository создаёт репозиторий профилей.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID возвращает профиль пользователя.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile repository: get %w", err)
	}
	return &profile, nil
}

// UpdateDetails обновляет описание и время доставки.
func (r *ProfileRepository) UpdateDetails(ctx context.Context, userID uuid.UUID, description, deliveryHours *string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `
		UPDATE profiles SET description = $2, delivery_hours = $3, updated_at = NOW()
		WHERE user_id = $1
		RETURNING `+profileColumns, userID, description, deliveryHours)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile repository: update details %w", err)
	}
	return &profile, nil
}

// SetImageURL сохраняет ссылку на аватар или обложку.
func (r *ProfileRepository) SetImageURL(ctx context.Context, userID uuid.UUID, kind, url string) (*models.Profile, error) {
	column := "avatar_url"
	if kind == models.ProfileImageCover {
		column = "cover_url"
	}

	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `
		UPDATE profiles SET `+column+` = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING `+profileColumns, userID, url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile repository: set %s %w", column, err)
	}
	return &profile, nil
}

// ToggleVerified инвертирует флаг верификации.
func (r *ProfileRepository) ToggleVerified(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.GetContext(ctx, &profile, `
		UPDATE profiles SET verified = NOT verified, updated_at = NOW()
		WHERE user_id = $1
		RETURNING `+profileColumns, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile repository: toggle verified %w", err)
	}
	return &profile, nil
}

// ListWithRoles возвращает профили вместе с ролями, новые первыми.
func (r *ProfileRepository) ListWithRoles(ctx context.Context, limit, offset int) ([]models.AdminUserView, error) {
	var users []models.AdminUserView
	err := r.db.SelectContext(ctx, &users, `
		SELECT p.user_id, p.username, p.avatar_url, p.cover_url, p.description, p.delivery_hours,
			p.balance, p.username_changes, p.seller_score, p.total_sales, p.verified,
			p.created_at, p.updated_at, u.email, COALESCE(ur.role, 'user') AS role
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		LEFT JOIN user_roles ur ON ur.user_id = p.user_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("profile repository: list with roles %w", err)
	}
	return users, nil
}

// SetRole назначает роль пользователю.
func (r *ProfileRepository) SetRole(ctx context.Context, userID uuid.UUID, role string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
	`, userID, role)
	if err != nil {
		return fmt.Errorf("profile repository: set role %w", err)
	}
	return nil
}

// WithLockedProfile открывает транзакцию, блокирует строку профиля и вызывает fn.
// Ошибка fn откатывает транзакцию целиком.
func (r *ProfileRepository) WithLockedProfile(ctx context.Context, userID uuid.UUID, fn func(ProfileTx) error) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var profile models.Profile
		err := tx.GetContext(ctx, &profile, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1 FOR UPDATE`, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("profile repository: lock %w", err)
		}
		return fn(&lockedProfile{tx: tx, profile: &profile})
	})
}

// lockedProfile реализует ProfileTx поверх открытой транзакции.
type lockedProfile struct {
	tx      *sqlx.Tx
	profile *models.Profile
}

func (l *lockedProfile) Profile() *models.Profile {
	return l.profile
}

func (l *lockedProfile) UpdateBalance(ctx context.Context, balance float64) error {
	err := l.tx.QueryRowxContext(ctx, `
		UPDATE profiles SET balance = $2, updated_at = NOW()
		WHERE user_id = $1
		RETURNING balance, updated_at
	`, l.profile.UserID, balance).Scan(&l.profile.Balance, &l.profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("profile repository: update balance %w", err)
	}
	return nil
}

func (l *lockedProfile) InsertLedgerEntry(ctx context.Context, entry *models.LedgerEntry) error {
	entry.UserID = l.profile.UserID
	err := l.tx.QueryRowxContext(ctx, `
		INSERT INTO ledger_entries (user_id, amount, balance_after, reason, actor_id, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, entry.UserID, entry.Amount, entry.BalanceAfter, entry.Reason, entry.ActorID, entry.IdempotencyKey,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "ledger_entries_idem_key") {
			return ErrAlreadyExists
		}
		return fmt.Errorf("profile repository: insert ledger entry %w", err)
	}
	return nil
}

func (l *lockedProfile) LedgerEntryByKey(ctx context.Context, key string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := l.tx.GetContext(ctx, &entry, `
		SELECT id, user_id, amount, balance_after, reason, actor_id, idempotency_key, created_at
		FROM ledger_entries WHERE user_id = $1 AND idempotency_key = $2
	`, l.profile.UserID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile repository: ledger entry by key %w", err)
	}
	return &entry, nil
}

func (l *lockedProfile) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := l.tx.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM profiles WHERE username = $1 AND user_id <> $2)
	`, username, l.profile.UserID)
	if err != nil {
		return false, fmt.Errorf("profile repository: username taken %w", err)
	}
	return exists, nil
}

func (l *lockedProfile) UpdateUsername(ctx context.Context, username string, changes int) error {
	err := l.tx.QueryRowxContext(ctx, `
		UPDATE profiles SET username = $2, username_changes = $3, updated_at = NOW()
		WHERE user_id = $1
		RETURNING username, username_changes, updated_at
	`, l.profile.UserID, username, changes).Scan(&l.profile.Username, &l.profile.UsernameChanges, &l.profile.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrUsernameTaken
		}
		return fmt.Errorf("profile repository: update username %w", err)
	}
	return nil
}

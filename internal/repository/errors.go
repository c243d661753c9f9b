package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrListingNotFound  = errors.New("listing not found")
	ErrIPBanNotFound    = errors.New("ip ban not found")
	ErrAnnouncementGone = errors.New("announcement not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
	ErrFollowNotFound   = errors.New("follow not found")
	ErrSessionNotFound  = errors.New("session not found")

	ErrUsernameTaken  = errors.New("username already taken")
	ErrEmailTaken     = errors.New("email already registered")
	ErrReviewExists   = errors.New("review already exists")
	ErrAlreadyExists  = errors.New("entity already exists")
	ErrStaleOrderStep = errors.New("order status changed concurrently")
)

// Коды ошибок PostgreSQL.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// isUniqueViolation проверяет, что ошибка драйвера вызвана уникальным индексом.
// Если задан constraint, сравнивается и имя ограничения.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != uniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// isForeignKeyViolation проверяет нарушение внешнего ключа.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation
}

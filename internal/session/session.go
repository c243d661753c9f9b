// Package session переносит данные аутентифицированного пользователя через context.Context.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

// Session данные пользователя, извлечённые из access токена.
type Session struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin сообщает, что пользователь администратор.
func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

type ctxKey struct{}

// WithSession возвращает контекст с сессией.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext достаёт сессию из контекста.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	if !ok || s.UserID == uuid.Nil {
		return Session{}, false
	}
	return s, true
}

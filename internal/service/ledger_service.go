package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/notshop-backend/internal/logger"
	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/repository"
)

// ProfileLocker открывает транзакцию с блокировкой строки профиля.
type ProfileLocker interface {
	WithLockedProfile(ctx context.Context, userID uuid.UUID, fn func(repository.ProfileTx) error) error
}

// LedgerHistory читает журнал движений по балансу.
type LedgerHistory interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error)
}

// ApplyInput параметры изменения баланса.
type ApplyInput struct {
	UserID uuid.UUID
	// Amount знаковая сумма: положительная зачисляет, отрицательная списывает.
	Amount  float64
	Reason  string
	ActorID *uuid.UUID
	// IdempotencyKey защищает от повторного применения той же операции.
	// Без ключа каждый вызов создаёт новое движение.
	IdempotencyKey     string
	RequireNonNegative bool
}

// ApplyResult итог изменения баланса.
type ApplyResult struct {
	Entry    *models.LedgerEntry
	Profile  *models.Profile
	Replayed bool
}

// LedgerService применяет изменения баланса и ведёт журнал.
type LedgerService struct {
	profiles ProfileLocker
	history  LedgerHistory
	events   ProfileEvents
}

func NewLedgerService(profiles ProfileLocker, history LedgerHistory, events ProfileEvents) *LedgerService {
	return &LedgerService{
		profiles: profiles,
		history:  history,
		events:   eventsOrNoop(events),
	}
}

// NextBalance вычисляет баланс после операции.
// Нижняя граница проверяется только при requireNonNegative.
func NextBalance(current, amount float64, requireNonNegative bool) (float64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, apperror.Validation("сумма должна быть числом")
	}
	next := roundCents(current + amount)
	if requireNonNegative && next < 0 {
		return 0, apperror.ErrInsufficientBalance
	}
	return next, nil
}

// Apply изменяет баланс пользователя в отдельной транзакции.
func (s *LedgerService) Apply(ctx context.Context, in ApplyInput) (*ApplyResult, error) {
	if err := validateApplyInput(in); err != nil {
		return nil, err
	}

	var result *ApplyResult
	err := s.profiles.WithLockedProfile(ctx, in.UserID, func(tx repository.ProfileTx) error {
		var err error
		result, err = s.applyLocked(ctx, tx, in)
		return err
	})
	if err != nil {
		return nil, mapLedgerError(err)
	}

	if !result.Replayed {
		logger.Component("ledger").WithFields(logrus.Fields{
			"user_id":       in.UserID,
			"amount":        in.Amount,
			"reason":        in.Reason,
			"balance_after": result.Entry.BalanceAfter,
		}).Info("ledger: баланс изменён")
		s.events.ProfileUpdated(ctx, result.Profile)
	}
	return result, nil
}

// applyLocked выполняет изменение внутри уже открытой транзакции.
func (s *LedgerService) applyLocked(ctx context.Context, tx repository.ProfileTx, in ApplyInput) (*ApplyResult, error) {
	if in.IdempotencyKey != "" {
		existing, err := tx.LedgerEntryByKey(ctx, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &ApplyResult{Entry: existing, Profile: tx.Profile(), Replayed: true}, nil
		}
	}

	profile := tx.Profile()
	next, err := NextBalance(profile.Balance, in.Amount, in.RequireNonNegative)
	if err != nil {
		return nil, err
	}

	if err := tx.UpdateBalance(ctx, next); err != nil {
		return nil, err
	}

	entry := &models.LedgerEntry{
		UserID:       profile.UserID,
		Amount:       roundCents(in.Amount),
		BalanceAfter: next,
		Reason:       in.Reason,
		ActorID:      in.ActorID,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		entry.IdempotencyKey = &key
	}
	if err := tx.InsertLedgerEntry(ctx, entry); err != nil {
		return nil, err
	}

	return &ApplyResult{Entry: entry, Profile: tx.Profile()}, nil
}

// History возвращает журнал пользователя.
func (s *LedgerService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error) {
	return s.history.ListByUser(ctx, userID, limit, offset)
}

func validateApplyInput(in ApplyInput) error {
	if in.UserID == uuid.Nil {
		return apperror.Validation("не указан пользователь")
	}
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return apperror.Validation("сумма должна быть числом")
	}
	if roundCents(in.Amount) == 0 {
		return apperror.Validation("сумма должна быть отличной от нуля")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return apperror.Validation("не указана причина операции")
	}
	if len(in.IdempotencyKey) > 128 {
		return apperror.Validation("ключ идемпотентности слишком длинный")
	}
	return nil
}

// mapLedgerError переводит ошибки хранилища в ошибки приложения.
// Неизвестные ошибки возвращаются как есть.
func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		return apperror.ErrProfileNotFound
	case errors.Is(err, repository.ErrAlreadyExists):
		return apperror.Wrap(err, apperror.ErrCodeConflict, "операция с этим ключом уже выполняется")
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	return fmt.Errorf("ledger: %w", err)
}

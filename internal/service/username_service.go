package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/notshop-backend/internal/logger"
	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/repository"
	"github.com/ignatzorin/notshop-backend/internal/validation"
)

// DefaultUsernameChangeFee стоимость смены имени после первой бесплатной.
const DefaultUsernameChangeFee = 20.0

// UsernameChangeResult итог смены имени.
type UsernameChangeResult struct {
	Profile    *models.Profile `json:"profile"`
	FeeCharged float64         `json:"fee_charged"`
	Free       bool            `json:"free"`
}

// UsernameService меняет имя пользователя с оплатой по правилам платформы.
type UsernameService struct {
	profiles ProfileLocker
	ledger   *LedgerService
	events   ProfileEvents
	fee      float64
}

func NewUsernameService(profiles ProfileLocker, ledger *LedgerService, events ProfileEvents, fee float64) *UsernameService {
	return &UsernameService{
		profiles: profiles,
		ledger:   ledger,
		events:   eventsOrNoop(events),
		fee:      fee,
	}
}

// UsernameChangeFee возвращает стоимость смены при заданном числе прошлых смен.
// Первая смена бесплатна.
func UsernameChangeFee(changes int, fee float64) float64 {
	if changes == 0 {
		return 0
	}
	return fee
}

// Fee возвращает настроенную стоимость платной смены.
func (s *UsernameService) Fee() float64 {
	return s.fee
}

// Change меняет имя пользователя. Списание, переименование и счётчик
// фиксируются одной транзакцией под блокировкой профиля.
func (s *UsernameService) Change(ctx context.Context, userID uuid.UUID, newName string) (*UsernameChangeResult, error) {
	newName = strings.TrimSpace(newName)
	if err := validation.ValidateUsername(newName); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	var result *UsernameChangeResult
	err := s.profiles.WithLockedProfile(ctx, userID, func(tx repository.ProfileTx) error {
		profile := tx.Profile()
		if profile.Username == newName {
			return apperror.ErrSameUsername
		}

		taken, err := tx.UsernameTaken(ctx, newName)
		if err != nil {
			return err
		}
		if taken {
			return apperror.ErrDuplicateUsername
		}

		fee := UsernameChangeFee(profile.UsernameChanges, s.fee)
		if fee > 0 {
			if profile.Balance < fee {
				return apperror.ErrInsufficientBalance
			}
			if _, err := s.ledger.applyLocked(ctx, tx, ApplyInput{
				UserID:             userID,
				Amount:             -fee,
				Reason:             models.LedgerReasonUsernameChange,
				ActorID:            &userID,
				RequireNonNegative: true,
			}); err != nil {
				return err
			}
		}

		if err := tx.UpdateUsername(ctx, newName, profile.UsernameChanges+1); err != nil {
			return err
		}

		result = &UsernameChangeResult{
			Profile:    tx.Profile(),
			FeeCharged: fee,
			Free:       fee == 0,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, apperror.ErrDuplicateUsername
		}
		return nil, mapLedgerError(err)
	}

	logger.Component("username").WithFields(logrus.Fields{
		"user_id":     userID,
		"fee_charged": result.FeeCharged,
	}).Info("username: имя изменено")
	s.events.ProfileUpdated(ctx, result.Profile)

	return result, nil
}

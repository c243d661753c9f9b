package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/notshop-backend/internal/logger"
	"github.com/ignatzorin/notshop-backend/internal/models"
)

// RatingSource отдаёт все оценки, полученные пользователем.
type RatingSource interface {
	RatingsFor(ctx context.Context, userID uuid.UUID) ([]int, error)
}

// ReputationCache хранит вычисленные сводки.
type ReputationCache interface {
	Get(ctx context.Context, sellerID uuid.UUID) (*models.ReputationSummary, bool, error)
	Set(ctx context.Context, sellerID uuid.UUID, summary models.ReputationSummary) error
	Invalidate(ctx context.Context, sellerID uuid.UUID) error
}

// ReputationService вычисляет сводку репутации при чтении и кэширует её.
// Ошибки кэша не мешают ответу, сводка просто пересчитывается.
type ReputationService struct {
	ratings RatingSource
	cache   ReputationCache
}

func NewReputationService(ratings RatingSource, cache ReputationCache) *ReputationService {
	return &ReputationService{ratings: ratings, cache: cache}
}

// Summary возвращает сводку репутации продавца.
func (s *ReputationService) Summary(ctx context.Context, sellerID uuid.UUID) (models.ReputationSummary, error) {
	log := logger.Component("reputation").WithField("seller_id", sellerID)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, sellerID)
		if err != nil {
			log.WithError(err).Warn("reputation: кэш недоступен")
		} else if ok {
			return *cached, nil
		}
	}

	ratings, err := s.ratings.RatingsFor(ctx, sellerID)
	if err != nil {
		return models.ReputationSummary{}, err
	}
	summary := Aggregate(ratings)

	if s.cache != nil {
		if err := s.cache.Set(ctx, sellerID, summary); err != nil {
			log.WithError(err).Warn("reputation: не удалось сохранить сводку в кэш")
		}
	}
	return summary, nil
}

// Invalidate сбрасывает закэшированную сводку продавца.
func (s *ReputationService) Invalidate(ctx context.Context, sellerID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, sellerID); err != nil {
		logger.Component("reputation").WithFields(logrus.Fields{
			"seller_id": sellerID,
			"error":     err.Error(),
		}).Warn("reputation: не удалось сбросить кэш")
	}
}

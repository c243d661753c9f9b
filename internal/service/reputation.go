package service

import (
	"github.com/ignatzorin/notshop-backend/internal/models"
)

// Пороги бейджей продавца.
const (
	badgeOrders10Threshold = 10
	badgeOrders50Threshold = 50
	topRatedThreshold      = 9.0
)

// Aggregate считает количество отзывов и среднюю оценку с точностью до десятых.
// Без отзывов средняя оценка равна нулю.
func Aggregate(ratings []int) models.ReputationSummary {
	if len(ratings) == 0 {
		return models.ReputationSummary{}
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	return models.ReputationSummary{
		ReviewCount:   len(ratings),
		AverageRating: roundOneDecimal(float64(sum) / float64(len(ratings))),
	}
}

// Badges возвращает заработанные продавцом бейджи.
func Badges(completedOrders int, averageRating float64) []string {
	badges := []string{}
	if completedOrders >= badgeOrders10Threshold {
		badges = append(badges, models.BadgeOrders10)
	}
	if completedOrders >= badgeOrders50Threshold {
		badges = append(badges, models.BadgeOrders50)
	}
	if averageRating >= topRatedThreshold {
		badges = append(badges, models.BadgeTopRated)
	}
	return badges
}

package service

import (
	"context"

	"github.com/ignatzorin/notshop-backend/internal/models"
)

// EventProfileUpdated имя события об изменении профиля.
const EventProfileUpdated = "profile.updated"

// ProfileEvents получает уведомления об изменении профиля.
type ProfileEvents interface {
	ProfileUpdated(ctx context.Context, profile *models.Profile)
}

type noopEvents struct{}

func (noopEvents) ProfileUpdated(context.Context, *models.Profile) {}

func eventsOrNoop(events ProfileEvents) ProfileEvents {
	if events == nil {
		return noopEvents{}
	}
	return events
}

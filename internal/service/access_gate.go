package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/notshop-backend/internal/logger"
	"github.com/ignatzorin/notshop-backend/internal/models"
)

// UnknownAddress адрес вызывающего, если его не удалось определить.
const UnknownAddress = "unknown"

// IPBanLookup ищет действующую блокировку адреса.
type IPBanLookup interface {
	FindActive(ctx context.Context, ip string, now time.Time) (*models.IPBan, error)
}

// AccessGate проверяет адрес по списку блокировок.
type AccessGate struct {
	bans     IPBanLookup
	failOpen bool
	now      func() time.Time
}

// NewAccessGate создаёт проверку. При failOpen ошибка хранилища
// логируется и адрес считается незаблокированным.
func NewAccessGate(bans IPBanLookup, failOpen bool) *AccessGate {
	return &AccessGate{bans: bans, failOpen: failOpen, now: time.Now}
}

// FailOpen сообщает режим работы при ошибке хранилища.
func (g *AccessGate) FailOpen() bool {
	return g.failOpen
}

// Check возвращает решение по адресу.
func (g *AccessGate) Check(ctx context.Context, ip string) (*models.IPBanDecision, error) {
	decision := &models.IPBanDecision{IPAddress: ip}

	now := g.now()
	ban, err := g.bans.FindActive(ctx, ip, now)
	if err != nil {
		entry := logger.Component("access_gate").WithFields(logrus.Fields{
			"ip":    ip,
			"error": err.Error(),
		})
		if g.failOpen {
			entry.Warn("access gate: проверка блокировки не удалась, пропускаем")
			return decision, nil
		}
		entry.Error("access gate: проверка блокировки не удалась")
		return nil, err
	}

	if ban != nil && ban.ActiveAt(now) {
		decision.IsBanned = true
		decision.BanReason = ban.Reason
	}
	return decision, nil
}

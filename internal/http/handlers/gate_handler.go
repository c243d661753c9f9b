package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/notshop-backend/internal/http/handlers/common"
	"github.com/ignatzorin/notshop-backend/internal/logger"
	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
)

// IPChecker проверяет адрес по списку блокировок.
type IPChecker interface {
	Check(ctx context.Context, ip string) (*models.IPBanDecision, error)
}

// GateHandler отвечает на проверку блокировки адреса вызывающего.
type GateHandler struct {
	gate IPChecker
}

// NewGateHandler создаёт хэндлер.
func NewGateHandler(gate IPChecker) *GateHandler {
	return &GateHandler{gate: gate}
}

// CheckIPBan обрабатывает /functions/check-ip-ban любым методом. Тело запроса не читается.
// Причина сбоя только пишется в лог, клиент получает фиксированное сообщение.
func (h *GateHandler) CheckIPBan(c *gin.Context) {
	ip := common.CallerAddress(c.Request)

	decision, err := h.gate.Check(c.Request.Context(), ip)
	if err != nil {
		logger.Component("gate").WithField("ip", ip).WithError(err).Error("gate: проверка не удалась")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     apperror.ErrGateUnavailable.Message,
			"is_banned": false,
		})
		return
	}

	c.JSON(http.StatusOK, decision)
}

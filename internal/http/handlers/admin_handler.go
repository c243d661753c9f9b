package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/notshop-backend/internal/http/handlers/common"
	"github.com/ignatzorin/notshop-backend/internal/service"
)

// IdempotencyKeyHeader заголовок, защищающий ручную корректировку баланса от повторов.
const IdempotencyKeyHeader = "Idempotency-Key"

// AdminHandler админ-панель. Проверка роли выполняется в middleware и в сервисе.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler создаёт хэндлер.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ListUsers обрабатывает GET /admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	users, err := h.admin.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// SetRole обрабатывает PUT /admin/users/:id/role.
func (h *AdminHandler) SetRole(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "role обязателен")
		return
	}

	if err := h.admin.SetRole(c.Request.Context(), userID, req.Role); err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AdjustBalance обрабатывает POST /admin/users/:id/balance.
// Сумма со знаком: отрицательная списывает, положительная начисляет.
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Amount float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "amount обязателен")
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	result, err := h.admin.AdjustBalance(c.Request.Context(), userID, req.Amount, key)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	if result.Replayed {
		c.Header("Idempotent-Replayed", "true")
	}
	c.JSON(http.StatusOK, gin.H{
		"entry":   result.Entry,
		"balance": result.Profile.Balance,
	})
}

// LedgerHistory обрабатывает GET /admin/users/:id/ledger.
func (h *AdminHandler) LedgerHistory(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	entries, err := h.admin.LedgerHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ToggleVerified обрабатывает POST /admin/users/:id/verify.
func (h *AdminHandler) ToggleVerified(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.admin.ToggleVerified(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListBans обрабатывает GET /admin/ip-bans.
func (h *AdminHandler) ListBans(c *gin.Context) {
	bans, err := h.admin.ListBans(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, bans)
}

// BanIP обрабатывает POST /admin/ip-bans.
func (h *AdminHandler) BanIP(c *gin.Context) {
	var req struct {
		IPAddress string     `json:"ip_address" binding:"required"`
		Reason    *string    `json:"reason"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "ip_address обязателен")
		return
	}

	ban, err := h.admin.BanIP(c.Request.Context(), service.BanInput{
		IPAddress: req.IPAddress,
		Reason:    req.Reason,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ban)
}

// UnbanIP обрабатывает DELETE /admin/ip-bans/:id.
func (h *AdminHandler) UnbanIP(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.admin.UnbanIP(c.Request.Context(), id); err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateAnnouncement обрабатывает POST /admin/announcements.
func (h *AdminHandler) CreateAnnouncement(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
		Body  string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "title и body обязательны")
		return
	}

	a, err := h.admin.CreateAnnouncement(c.Request.Context(), req.Title, req.Body)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// DeleteAnnouncement обрабатывает DELETE /admin/announcements/:id.
func (h *AdminHandler) DeleteAnnouncement(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.admin.DeleteAnnouncement(c.Request.Context(), id); err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListReports обрабатывает GET /admin/reports?status=open.
func (h *AdminHandler) ListReports(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	reports, err := h.admin.ListReports(c.Request.Context(), c.Query("status"), limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

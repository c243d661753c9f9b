package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/notshop-backend/internal/http/handlers/common"
	"github.com/ignatzorin/notshop-backend/internal/service"
)

// ProfileHandler отвечает за работу с собственным профилем.
type ProfileHandler struct {
	profiles  *service.ProfileService
	usernames *service.UsernameService
}

// NewProfileHandler создаёт экземпляр.
func NewProfileHandler(profiles *service.ProfileService, usernames *service.UsernameService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, usernames: usernames}
}

// GetMe обрабатывает GET /profile.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":             profile,
		"username_change_fee": service.UsernameChangeFee(profile.UsernameChanges, h.usernames.Fee()),
	})
}

// UpdateMe обрабатывает PUT /profile.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		Description   *string `json:"description"`
		DeliveryHours *string `json:"delivery_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "")
		return
	}

	profile, err := h.profiles.UpdateDetails(c.Request.Context(), userID, req.Description, req.DeliveryHours)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ChangeUsername обрабатывает PUT /profile/username.
// Первая смена бесплатна, последующие списывают плату с баланса.
func (h *ProfileHandler) ChangeUsername(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "имя пользователя обязательно")
		return
	}

	result, err := h.usernames.Change(c.Request.Context(), userID, req.Username)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

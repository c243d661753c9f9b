package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/notshop-backend/internal/http/handlers/common"
	"github.com/ignatzorin/notshop-backend/internal/service"
)

// SellerHandler публичная страница продавца, отзывы и подписки.
type SellerHandler struct {
	pages     *service.SellerPageService
	reviews   *service.ReviewService
	community *service.CommunityService
}

// NewSellerHandler создаёт хэндлер.
func NewSellerHandler(pages *service.SellerPageService, reviews *service.ReviewService, community *service.CommunityService) *SellerHandler {
	return &SellerHandler{pages: pages, reviews: reviews, community: community}
}

// GetPage обрабатывает GET /sellers/:id.
func (h *SellerHandler) GetPage(c *gin.Context) {
	sellerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	page, err := h.pages.Get(c.Request.Context(), sellerID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ListUserReviews обрабатывает GET /users/:id/reviews.
func (h *SellerHandler) ListUserReviews(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	reviews, err := h.reviews.ListForUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// Follow обрабатывает POST /sellers/:id/follow.
func (h *SellerHandler) Follow(c *gin.Context) {
	h.toggleFollow(c, true)
}

// Unfollow обрабатывает DELETE /sellers/:id/follow.
func (h *SellerHandler) Unfollow(c *gin.Context) {
	h.toggleFollow(c, false)
}

func (h *SellerHandler) toggleFollow(c *gin.Context, follow bool) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	sellerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if follow {
		err = h.community.Follow(c.Request.Context(), userID, sellerID)
	} else {
		err = h.community.Unfollow(c.Request.Context(), userID, sellerID)
	}
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListFollowers обрабатывает GET /sellers/:id/followers.
func (h *SellerHandler) ListFollowers(c *gin.Context) {
	sellerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	followers, err := h.community.Followers(c.Request.Context(), sellerID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, followers)
}

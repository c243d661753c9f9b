package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/notshop-backend/internal/http/handlers/common"
	"github.com/ignatzorin/notshop-backend/internal/service"
)

// OrderHandler покупки, статусы заказов, жалобы и отзывы.
type OrderHandler struct {
	orders  *service.OrderService
	reviews *service.ReviewService
}

// NewOrderHandler создаёт хэндлер.
func NewOrderHandler(orders *service.OrderService, reviews *service.ReviewService) *OrderHandler {
	return &OrderHandler{orders: orders, reviews: reviews}
}

// Create обрабатывает POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		ListingID string `json:"listing_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "listing_id должен быть валидным UUID")
		return
	}

	order, err := h.orders.Create(c.Request.Context(), userID, uuid.MustParse(req.ListingID))
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ListBuying обрабатывает GET /orders/buying.
func (h *OrderHandler) ListBuying(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	limit, offset := common.GetPagination(c)
	orders, err := h.orders.ListBuying(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ListSelling обрабатывает GET /orders/selling.
func (h *OrderHandler) ListSelling(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	limit, offset := common.GetPagination(c)
	orders, err := h.orders.ListSelling(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Get обрабатывает GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Get(c.Request.Context(), orderID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateStatus обрабатывает PUT /orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Status       string  `json:"status" binding:"required"`
		DeliveryNote *string `json:"delivery_note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "status обязателен")
		return
	}

	order, err := h.orders.ChangeStatus(c.Request.Context(), orderID, req.Status, req.DeliveryNote)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// OpenReport обрабатывает POST /orders/:id/reports.
func (h *OrderHandler) OpenReport(c *gin.Context) {
	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Reason  string  `json:"reason" binding:"required"`
		Details *string `json:"details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "reason обязателен")
		return
	}

	report, err := h.orders.OpenReport(c.Request.Context(), orderID, req.Reason, req.Details)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// CreateReview обрабатывает POST /orders/:id/reviews.
func (h *OrderHandler) CreateReview(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Rating  int     `json:"rating" binding:"required"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "rating обязателен")
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), orderID, userID, req.Rating, req.Comment)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

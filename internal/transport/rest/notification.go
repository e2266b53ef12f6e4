package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Уведомления пользователя
// @Tags Уведомления
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Количество записей"
// @Param offset query int false "Смещение"
// @Success 200 {object} successResponseBody "Список уведомлений"
// @Router /notifications [get]
func (h *Handler) getNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	limit := parseQueryInt(c, "limit", 20)
	offset := parseQueryInt(c, "offset", 0)

	notifications, err := h.services.Notification.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("ошибка при получении уведомлений", zap.Int64("userID", userID), zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, notifications)
}

// @Summary Количество непрочитанных уведомлений
// @Tags Уведомления
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} successResponseBody "Счетчик непрочитанных"
// @Router /notifications/unread-count [get]
func (h *Handler) getUnreadNotificationCount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	count, err := h.services.Notification.CountUnread(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("ошибка при подсчете уведомлений", zap.Int64("userID", userID), zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, map[string]interface{}{
		"unread_count": count,
	})
}

// @Summary Отметить уведомление прочитанным
// @Tags Уведомления
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID уведомления"
// @Success 200 {object} messageResponseType "Уведомление прочитано"
// @Router /notifications/{id}/read [post]
func (h *Handler) markNotificationRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID уведомления")
		return
	}

	if err := h.services.Notification.MarkRead(c.Request.Context(), id, userID); err != nil {
		h.logger.Warn("ошибка при отметке уведомления", zap.Int64("notificationID", id), zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	messageResponse(c, http.StatusOK, "уведомление прочитано")
}

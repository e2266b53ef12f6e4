package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"klinika/internal/domain"
)

// @Summary Создание записи на прием
// @Description Создает запись к врачу на свободный слот, запись получает статус pending
// @Tags Записи
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body domain.CreateAppointmentDTO true "Данные записи"
// @Success 201 {object} domain.Appointment "Созданная запись"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 409 {object} errorResponseBody "Слот недоступен"
// @Failure 422 {object} errorResponseBody "Нарушение правил записи"
// @Router /appointments [post]
func (h *Handler) createAppointment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	appointment, err := h.services.Appointment.Book(c.Request.Context(), userID, input)
	if err != nil {
		h.logger.Warn("ошибка при создании записи", zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, appointment)
}

// @Summary Получение записи по ID
// @Tags Записи
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID записи"
// @Success 200 {object} domain.Appointment "Запись"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID записи")
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	if !h.canAccessAppointment(c, appointment) {
		forbiddenResponse(c)
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Список записей
// @Description Пациент видит свои записи, врач — записи к себе, администратор — все
// @Tags Записи
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Статус записи"
// @Param date_from query string false "Дата начала периода (YYYY-MM-DD)"
// @Param date_to query string false "Дата окончания периода (YYYY-MM-DD)"
// @Param limit query int false "Количество записей"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Список записей"
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	role, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	filter := domain.AppointmentFilter{
		Limit:  parseQueryInt(c, "limit", 20),
		Offset: parseQueryInt(c, "offset", 0),
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.AppointmentStatus(statusStr)
		if !status.IsValid() {
			badRequestResponse(c, "некорректный статус записи")
			return
		}
		filter.Status = &status
	}

	if dateFrom := c.Query("date_from"); dateFrom != "" {
		filter.StartDate = &dateFrom
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		filter.EndDate = &dateTo
	}

	switch role {
	case domain.UserRolePatient:
		filter.PatientID = &userID
	case domain.UserRoleDoctor:
		doctor, err := h.services.Doctor.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			notFoundResponse(c, "профиль врача не найден")
			return
		}
		filter.DoctorID = &doctor.ID
	}

	appointments, total, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка при получении записей", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	page := filter.Offset/filter.Limit + 1

	paginatedSuccessResponse(c, appointments, total, page, filter.Limit)
}

// @Summary Перенос записи
// @Description Переносит подтвержденную запись на новый слот с учетом лимита переносов и срока до приема
// @Tags Записи
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID записи"
// @Param input body domain.RescheduleAppointmentDTO true "Новая дата и время"
// @Success 200 {object} domain.Appointment "Обновленная запись"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 409 {object} errorResponseBody "Слот недоступен"
// @Failure 422 {object} errorResponseBody "Нарушение правил переноса"
// @Router /appointments/{id}/reschedule [post]
func (h *Handler) rescheduleAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID записи")
		return
	}

	var input domain.RescheduleAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	if !h.canAccessAppointment(c, appointment) {
		forbiddenResponse(c)
		return
	}

	updated, err := h.services.Appointment.Reschedule(c.Request.Context(), id, input)
	if err != nil {
		h.logger.Warn("ошибка при переносе записи", zap.Int64("appointmentID", id), zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, updated)
}

// @Summary Отмена записи
// @Tags Записи
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID записи"
// @Success 204 {object} nil "Запись отменена"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Router /appointments/{id} [delete]
func (h *Handler) cancelAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID записи")
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	if !h.canAccessAppointment(c, appointment) {
		forbiddenResponse(c)
		return
	}

	if err := h.services.Appointment.Cancel(c.Request.Context(), id); err != nil {
		h.logger.Warn("ошибка при отмене записи", zap.Int64("appointmentID", id), zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Подтверждение записи врачом
// @Tags Записи
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID записи"
// @Success 200 {object} messageResponseType "Запись подтверждена"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 422 {object} errorResponseBody "Недопустимая смена статуса"
// @Router /appointments/{id}/confirm [post]
func (h *Handler) confirmAppointment(c *gin.Context) {
	h.doctorStatusAction(c, "запись подтверждена", func(c *gin.Context, id int64) error {
		return h.services.Appointment.Confirm(c.Request.Context(), id)
	})
}

// @Summary Завершение приема
// @Tags Записи
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID записи"
// @Success 200 {object} messageResponseType "Прием завершен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 422 {object} errorResponseBody "Недопустимая смена статуса"
// @Router /appointments/{id}/complete [post]
func (h *Handler) completeAppointment(c *gin.Context) {
	var input struct {
		Notes *string `json:"notes"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequestResponse(c, "неверный формат данных")
			return
		}
	}

	h.doctorStatusAction(c, "прием завершен", func(c *gin.Context, id int64) error {
		return h.services.Appointment.Complete(c.Request.Context(), id, input.Notes)
	})
}

// @Summary Отклонение записи врачом
// @Tags Записи
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID записи"
// @Success 200 {object} messageResponseType "Запись отклонена"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 422 {object} errorResponseBody "Недопустимая смена статуса"
// @Router /appointments/{id}/reject [post]
func (h *Handler) rejectAppointment(c *gin.Context) {
	h.doctorStatusAction(c, "запись отклонена", func(c *gin.Context, id int64) error {
		return h.services.Appointment.Reject(c.Request.Context(), id)
	})
}

// doctorStatusAction проверяет, что запись принадлежит врачу текущего
// пользователя, и применяет смену статуса.
func (h *Handler) doctorStatusAction(c *gin.Context, successMessage string, action func(c *gin.Context, id int64) error) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID записи")
		return
	}

	doctor, err := h.services.Doctor.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		notFoundResponse(c, "профиль врача не найден")
		return
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	if appointment.DoctorID != doctor.ID {
		forbiddenResponse(c)
		return
	}

	if err := action(c, id); err != nil {
		h.logger.Warn("ошибка при смене статуса записи", zap.Int64("appointmentID", id), zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, successMessage)
}

// canAccessAppointment: пациент видит собственные записи, врач — записи к
// себе, администратор — любые.
func (h *Handler) canAccessAppointment(c *gin.Context, appointment *domain.Appointment) bool {
	userID, err := getUserID(c)
	if err != nil {
		return false
	}

	role, err := getUserRole(c)
	if err != nil {
		return false
	}

	switch role {
	case domain.UserRoleAdmin:
		return true
	case domain.UserRolePatient:
		return appointment.PatientID == userID
	case domain.UserRoleDoctor:
		doctor, err := h.services.Doctor.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			return false
		}
		return appointment.DoctorID == doctor.ID
	}

	return false
}

func parseQueryInt(c *gin.Context, key string, defaultValue int) int {
	value, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(defaultValue)))
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}

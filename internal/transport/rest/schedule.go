package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"klinika/internal/domain"
)

// @Summary Свободные слоты врача на дату
// @Description Возвращает получасовые слоты врача, свободные для записи на указанную дату
// @Tags Расписание
// @Produce json
// @Param id path int true "ID врача"
// @Param date query string true "Дата (YYYY-MM-DD)"
// @Success 200 {object} domain.DayAvailability "Доступность на дату"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 404 {object} errorResponseBody "Врач не найден"
// @Router /doctors/{id}/availability [get]
func (h *Handler) getDoctorAvailability(c *gin.Context) {
	doctorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID врача")
		return
	}

	date := c.Query("date")
	if date == "" {
		badRequestResponse(c, "не указана дата")
		return
	}

	availability, err := h.services.Availability.Resolve(c.Request.Context(), doctorID, date)
	if err != nil {
		h.logger.Warn("ошибка при расчете доступности", zap.Int64("doctorID", doctorID), zap.String("date", date), zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, availability)
}

// @Summary Список окон расписания
// @Tags Расписание
// @Produce json
// @Param doctor_id query int false "ID врача"
// @Param day_of_week query int false "День недели (0 = воскресенье)"
// @Success 200 {object} successResponseBody "Окна расписания"
// @Router /schedules [get]
func (h *Handler) getSchedules(c *gin.Context) {
	filter := domain.ScheduleFilter{
		Limit:  parseQueryInt(c, "limit", 50),
		Offset: parseQueryInt(c, "offset", 0),
	}

	if doctorIDStr := c.Query("doctor_id"); doctorIDStr != "" {
		doctorID, err := strconv.ParseInt(doctorIDStr, 10, 64)
		if err != nil {
			badRequestResponse(c, "некорректный ID врача")
			return
		}
		filter.DoctorID = &doctorID
	}

	if dayStr := c.Query("day_of_week"); dayStr != "" {
		day, err := strconv.Atoi(dayStr)
		if err != nil || day < 0 || day > 6 {
			badRequestResponse(c, "некорректный день недели")
			return
		}
		filter.DayOfWeek = &day
	}

	windows, err := h.services.Schedule.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка при получении расписания", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, windows)
}

// @Summary Окно расписания по ID
// @Tags Расписание
// @Produce json
// @Param id path int true "ID окна"
// @Success 200 {object} domain.ScheduleWindow "Окно расписания"
// @Failure 404 {object} errorResponseBody "Окно не найдено"
// @Router /schedules/{id} [get]
func (h *Handler) getScheduleByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID окна расписания")
		return
	}

	window, err := h.services.Schedule.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, window)
}

// @Summary Создание окна расписания
// @Description Добавляет окно еженедельного расписания текущего врача
// @Tags Расписание
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body domain.CreateScheduleWindowDTO true "Окно расписания"
// @Success 201 {object} successResponseBody "ID созданного окна"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 422 {object} errorResponseBody "Некорректный интервал времени"
// @Router /schedules [post]
func (h *Handler) createSchedule(c *gin.Context) {
	doctor, ok := h.currentDoctor(c)
	if !ok {
		return
	}

	var input domain.CreateScheduleWindowDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Schedule.Create(c.Request.Context(), doctor.ID, input)
	if err != nil {
		h.logger.Warn("ошибка при создании окна расписания", zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Изменение окна расписания
// @Tags Расписание
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID окна"
// @Param input body domain.UpdateScheduleWindowDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType "Окно обновлено"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Окно не найдено"
// @Router /schedules/{id} [put]
func (h *Handler) updateSchedule(c *gin.Context) {
	doctor, ok := h.currentDoctor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID окна расписания")
		return
	}

	window, err := h.services.Schedule.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}
	if window.DoctorID != doctor.ID {
		forbiddenResponse(c)
		return
	}

	var input domain.UpdateScheduleWindowDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Schedule.Update(c.Request.Context(), id, input); err != nil {
		h.logger.Warn("ошибка при обновлении окна расписания", zap.Int64("windowID", id), zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "окно расписания обновлено")
}

// @Summary Удаление окна расписания
// @Tags Расписание
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID окна"
// @Success 204 {object} nil "Окно удалено"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Окно не найдено"
// @Router /schedules/{id} [delete]
func (h *Handler) deleteSchedule(c *gin.Context) {
	doctor, ok := h.currentDoctor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID окна расписания")
		return
	}

	window, err := h.services.Schedule.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}
	if window.DoctorID != doctor.ID {
		forbiddenResponse(c)
		return
	}

	if err := h.services.Schedule.Delete(c.Request.Context(), id); err != nil {
		h.logger.Error("ошибка при удалении окна расписания", zap.Int64("windowID", id), zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	noContentResponse(c)
}

// currentDoctor возвращает профиль врача текущего пользователя. При
// отсутствии профиля ответ уже записан.
func (h *Handler) currentDoctor(c *gin.Context) (*domain.Doctor, bool) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return nil, false
	}

	doctor, err := h.services.Doctor.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		notFoundResponse(c, "профиль врача не найден")
		return nil, false
	}

	return doctor, true
}

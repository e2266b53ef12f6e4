package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"klinika/internal/domain"
)

// @Summary Список выходных дней
// @Tags Выходные
// @Produce json
// @Param doctor_id query int false "ID врача"
// @Param from_date query string false "Показывать с даты (YYYY-MM-DD)"
// @Success 200 {object} successResponseBody "Выходные дни"
// @Router /holidays [get]
func (h *Handler) getHolidays(c *gin.Context) {
	filter := domain.HolidayFilter{
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

	if fromDate := c.Query("from_date"); fromDate != "" {
		filter.FromDate = &fromDate
	}

	holidays, err := h.services.Holiday.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка при получении выходных", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, holidays)
}

// @Summary Добавление выходного дня
// @Description Отмечает будущую дату как выходной текущего врача
// @Tags Выходные
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body domain.CreateHolidayDTO true "Дата выходного"
// @Success 201 {object} successResponseBody "ID выходного"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 422 {object} errorResponseBody "Дата в прошлом или выходной уже существует"
// @Router /holidays [post]
func (h *Handler) createHoliday(c *gin.Context) {
	doctor, ok := h.currentDoctor(c)
	if !ok {
		return
	}

	var input domain.CreateHolidayDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Holiday.Create(c.Request.Context(), doctor.ID, input)
	if err != nil {
		h.logger.Warn("ошибка при добавлении выходного", zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Удаление выходного дня
// @Tags Выходные
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID выходного"
// @Success 204 {object} nil "Выходной удален"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Выходной не найден"
// @Router /holidays/{id} [delete]
func (h *Handler) deleteHoliday(c *gin.Context) {
	doctor, ok := h.currentDoctor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID выходного")
		return
	}

	if err := h.services.Holiday.Delete(c.Request.Context(), doctor.ID, id); err != nil {
		h.logger.Warn("ошибка при удалении выходного", zap.Int64("holidayID", id), zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

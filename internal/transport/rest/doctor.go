package rest

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"klinika/internal/domain"
)

const maxPhotoSizeBytes = 5 << 20

// @Summary Список врачей
// @Description Возвращает подтвержденных врачей с фильтрацией и пагинацией
// @Tags Врачи
// @Produce json
// @Param specialty query string false "Специальность"
// @Param limit query int false "Количество записей"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse "Список врачей"
// @Router /doctors [get]
func (h *Handler) getDoctors(c *gin.Context) {
	filter := domain.DoctorFilter{
		ApprovedOnly: true,
		Limit:        parseQueryInt(c, "limit", 20),
		Offset:       parseQueryInt(c, "offset", 0),
	}
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	if specialty := c.Query("specialty"); specialty != "" {
		filter.Specialty = &specialty
	}

	doctors, total, err := h.services.Doctor.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("ошибка при получении списка врачей", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	page := filter.Offset/filter.Limit + 1

	paginatedSuccessResponse(c, doctors, total, page, filter.Limit)
}

// @Summary Врач по ID
// @Tags Врачи
// @Produce json
// @Param id path int true "ID врача"
// @Success 200 {object} domain.Doctor "Данные врача"
// @Failure 404 {object} errorResponseBody "Врач не найден"
// @Router /doctors/{id} [get]
func (h *Handler) getDoctorByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID врача")
		return
	}

	doctor, err := h.services.Doctor.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Профиль врача текущего пользователя
// @Tags Врачи
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} domain.Doctor "Профиль врача"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Router /doctors/me [get]
func (h *Handler) getMyDoctorProfile(c *gin.Context) {
	doctor, ok := h.currentDoctor(c)
	if !ok {
		return
	}

	successResponse(c, http.StatusOK, doctor)
}

// @Summary Создание профиля врача
// @Description Создает профиль врача для текущего пользователя, профиль ожидает подтверждения администратором
// @Tags Врачи
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param input body domain.CreateDoctorDTO true "Данные профиля"
// @Success 201 {object} successResponseBody "ID созданного профиля"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /doctors [post]
func (h *Handler) createDoctor(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateDoctorDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Doctor.Create(c.Request.Context(), userID, input)
	if err != nil {
		h.logger.Warn("ошибка при создании профиля врача", zap.Error(err))
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Изменение профиля врача
// @Tags Врачи
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID врача"
// @Param input body domain.UpdateDoctorDTO true "Изменяемые поля"
// @Success 200 {object} messageResponseType "Профиль обновлен"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Врач не найден"
// @Router /doctors/{id} [put]
func (h *Handler) updateDoctor(c *gin.Context) {
	id, ok := h.doctorOwnedByCurrentUser(c)
	if !ok {
		return
	}

	var input domain.UpdateDoctorDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Doctor.Update(c.Request.Context(), id, input); err != nil {
		h.logger.Warn("ошибка при обновлении профиля врача", zap.Int64("doctorID", id), zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "профиль врача обновлен")
}

// @Summary Подтверждение профиля врача
// @Description Администратор подтверждает профиль, после чего к врачу можно записаться
// @Tags Врачи
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID врача"
// @Success 200 {object} messageResponseType "Профиль подтвержден"
// @Failure 404 {object} errorResponseBody "Врач не найден"
// @Router /doctors/{id}/approve [post]
func (h *Handler) approveDoctor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID врача")
		return
	}

	if err := h.services.Doctor.Approve(c.Request.Context(), id); err != nil {
		h.logger.Warn("ошибка при подтверждении профиля врача", zap.Int64("doctorID", id), zap.Error(err))
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "профиль врача подтвержден")
}

// @Summary Загрузка фото профиля
// @Tags Врачи
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "ID врача"
// @Param photo formData file true "Файл изображения"
// @Success 200 {object} messageResponseType "Фото загружено"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Router /doctors/{id}/photo [post]
func (h *Handler) uploadDoctorPhoto(c *gin.Context) {
	id, ok := h.doctorOwnedByCurrentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		badRequestResponse(c, "не передан файл изображения")
		return
	}

	if fileHeader.Size > maxPhotoSizeBytes {
		badRequestResponse(c, "файл изображения слишком большой")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("ошибка при чтении файла", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}
	defer file.Close()

	photo, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("ошибка при чтении файла", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	if err := h.services.Doctor.UploadProfilePhoto(c.Request.Context(), id, photo, fileHeader.Filename); err != nil {
		h.logger.Error("ошибка при загрузке фото", zap.Int64("doctorID", id), zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	messageResponse(c, http.StatusOK, "фото профиля загружено")
}

// doctorOwnedByCurrentUser проверяет, что профиль из пути принадлежит
// текущему пользователю либо запрос делает администратор.
func (h *Handler) doctorOwnedByCurrentUser(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "некорректный ID врача")
		return 0, false
	}

	role, err := getUserRole(c)
	if err != nil {
		unauthorizedResponse(c)
		return 0, false
	}
	if role == domain.UserRoleAdmin {
		return id, true
	}

	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return 0, false
	}

	doctor, err := h.services.Doctor.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return 0, false
	}

	if doctor.UserID != userID {
		forbiddenResponse(c)
		return 0, false
	}

	return id, true
}

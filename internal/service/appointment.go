package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"klinika/internal/domain"
	"klinika/internal/repository"
	"klinika/pkg/validator"
)

const (
	maxRescheduleCount = 3
	rescheduleLeadTime = 4 * time.Hour
)

type AppointmentServiceImpl struct {
	repo          repository.AppointmentRepository
	doctorRepo    repository.DoctorRepository
	userRepo      repository.UserRepository
	availability  AvailabilityService
	notifications NotificationService
	logger        *zap.Logger

	// подменяется в тестах
	now func() time.Time
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	availability AvailabilityService,
	notifications NotificationService,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:          repo,
		doctorRepo:    doctorRepo,
		userRepo:      userRepo,
		availability:  availability,
		notifications: notifications,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *AppointmentServiceImpl) Book(ctx context.Context, patientID int64, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	doctor, err := s.doctorRepo.GetByID(ctx, dto.DoctorID)
	if err != nil {
		s.logger.Warn("врач не найден при создании записи", zap.Int64("doctorID", dto.DoctorID), zap.Error(err))
		return nil, domain.ErrDoctorNotFound
	}
	if !doctor.IsApproved {
		s.logger.Warn("запись к неподтвержденному врачу", zap.Int64("doctorID", dto.DoctorID))
		return nil, domain.ErrDoctorNotFound
	}

	patient, err := s.userRepo.GetByID(ctx, patientID)
	if err != nil {
		s.logger.Warn("пациент не найден при создании записи", zap.Int64("patientID", patientID), zap.Error(err))
		return nil, domain.ErrPatientNotFound
	}

	if err := s.availability.CheckSlot(ctx, dto.DoctorID, dto.Date, dto.StartTime); err != nil {
		if domain.IsValidationError(err) {
			return nil, err
		}
		s.logger.Error("ошибка при проверке доступности времени", zap.Error(err))
		return nil, fmt.Errorf("ошибка при проверке доступности времени: %w", err)
	}

	endTime, err := validator.AddMinutes(dto.StartTime, domain.SlotDurationMinutes)
	if err != nil {
		return nil, domain.ErrBadTimeFormat
	}

	id, err := s.repo.CreateBooked(ctx, patientID, dto, endTime)
	if err != nil {
		if domain.IsValidationError(err) {
			return nil, err
		}
		s.logger.Error("ошибка создания записи", zap.Error(err))
		return nil, fmt.Errorf("ошибка при создании записи: %w", err)
	}

	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения созданной записи", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения созданной записи: %w", err)
	}

	s.notifications.Notify(ctx, domain.CreateNotificationDTO{
		UserID: doctor.UserID,
		Title:  "Новая запись на прием",
		Message: fmt.Sprintf("Пациент %s записался на %s %s",
			patient.FullName(), appointment.Date, appointment.StartTime),
		AppointmentID: &appointment.ID,
	})

	return appointment, nil
}

// Reschedule переносит подтвержденную запись на новые дату и время.
// Предусловия проверяются строго по порядку, первая неудача прерывает перенос.
func (s *AppointmentServiceImpl) Reschedule(ctx context.Context, id int64, dto domain.RescheduleAppointmentDTO) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return nil, err
		}
		s.logger.Error("ошибка получения записи для переноса", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}

	if appointment.Status != domain.AppointmentStatusConfirmed {
		return nil, domain.ErrRescheduleNotAllowed
	}

	if appointment.RescheduleCount >= maxRescheduleCount {
		return nil, domain.ErrRescheduleLimitReached
	}

	now := s.now()

	currentStart, err := parseDateTime(appointment.Date, appointment.StartTime)
	if err != nil {
		s.logger.Error("некорректные дата или время записи", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("некорректные дата или время записи: %w", err)
	}

	if !currentStart.After(now) {
		return nil, domain.ErrAppointmentAlreadyPassed
	}

	today := now.Format(validator.DateLayout)
	if appointment.Date == today || dto.Date == today {
		return nil, domain.ErrSameDayReschedule
	}

	if currentStart.Sub(now) < rescheduleLeadTime {
		return nil, domain.ErrInsufficientLeadTime
	}

	if !validator.ValidateDate(dto.Date) {
		return nil, domain.ErrBadDateFormat
	}
	// Даты в формате ISO сравниваются лексикографически.
	if dto.Date < today {
		return nil, domain.ErrPastDateForbidden
	}

	// Занятость целевого слота повторно проверяется в транзакции переноса,
	// здесь — выходной и попадание в окно расписания.
	if err := s.availability.CheckWindow(ctx, appointment.DoctorID, dto.Date, dto.StartTime); err != nil {
		if domain.IsValidationError(err) {
			return nil, err
		}
		s.logger.Error("ошибка при проверке доступности времени", zap.Error(err))
		return nil, fmt.Errorf("ошибка при проверке доступности времени: %w", err)
	}

	endTime := ""
	if dto.EndTime != nil && *dto.EndTime != "" {
		endTime = *dto.EndTime
		if !validator.ValidateTimeRange(dto.StartTime, endTime) {
			return nil, domain.ErrInvalidTimeRange
		}
	} else {
		endTime, err = validator.AddMinutes(dto.StartTime, domain.SlotDurationMinutes)
		if err != nil {
			return nil, domain.ErrBadTimeFormat
		}
	}

	upd := domain.RescheduleUpdate{
		Date:             dto.Date,
		StartTime:        dto.StartTime,
		EndTime:          endTime,
		Status:           domain.AppointmentStatusPending,
		RescheduledAt:    now,
		RescheduleReason: dto.Reason,
	}

	// Снимок исходных даты и времени делается только при первом переносе,
	// последующие переносы его не перезаписывают.
	if appointment.RescheduleCount == 0 {
		upd.OriginalDate = &appointment.Date
		upd.OriginalStartTime = &appointment.StartTime
		upd.OriginalEndTime = &appointment.EndTime
	}

	if err := s.repo.Reschedule(ctx, id, upd); err != nil {
		if domain.IsValidationError(err) {
			return nil, err
		}
		s.logger.Error("ошибка переноса записи", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка при переносе записи: %w", err)
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения перенесенной записи", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения перенесенной записи: %w", err)
	}

	doctor, err := s.doctorRepo.GetByID(ctx, updated.DoctorID)
	if err == nil {
		s.notifications.Notify(ctx, domain.CreateNotificationDTO{
			UserID: doctor.UserID,
			Title:  "Перенос записи",
			Message: fmt.Sprintf("Запись пациента %s перенесена на %s %s и ожидает подтверждения",
				updated.PatientName, updated.Date, updated.StartTime),
			AppointmentID: &updated.ID,
		})
	}

	return updated, nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return nil, err
		}
		s.logger.Error("ошибка получения записи", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}
	return appointment, nil
}

func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка записей", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка при получении списка записей: %w", err)
	}

	count, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения количества записей", zap.Error(err))
		return appointments, 0, nil
	}

	return appointments, count, nil
}

func (s *AppointmentServiceImpl) Confirm(ctx context.Context, id int64) error {
	return s.transition(ctx, id, domain.AppointmentStatusConfirmed, "Запись подтверждена",
		"Врач подтвердил вашу запись на %s %s")
}

func (s *AppointmentServiceImpl) Complete(ctx context.Context, id int64, notes *string) error {
	if err := s.transition(ctx, id, domain.AppointmentStatusCompleted, "", ""); err != nil {
		return err
	}

	if notes != nil {
		if err := s.repo.UpdateNotes(ctx, id, *notes); err != nil {
			s.logger.Error("ошибка сохранения заметок приема", zap.Int64("id", id), zap.Error(err))
			return fmt.Errorf("ошибка сохранения заметок приема: %w", err)
		}
	}

	return nil
}

func (s *AppointmentServiceImpl) Reject(ctx context.Context, id int64) error {
	return s.transition(ctx, id, domain.AppointmentStatusRejected, "Запись отклонена",
		"Врач отклонил вашу запись на %s %s")
}

func (s *AppointmentServiceImpl) Cancel(ctx context.Context, id int64) error {
	return s.transition(ctx, id, domain.AppointmentStatusCancelled, "", "")
}

// transition меняет статус записи по таблице допустимых переходов и при
// необходимости уведомляет пациента.
func (s *AppointmentServiceImpl) transition(ctx context.Context, id int64, next domain.AppointmentStatus, title, messageFormat string) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			return err
		}
		s.logger.Error("ошибка получения записи", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка получения записи: %w", err)
	}

	if !appointment.Status.CanTransitionTo(next) {
		s.logger.Warn("недопустимая смена статуса",
			zap.Int64("id", id),
			zap.String("from", string(appointment.Status)),
			zap.String("to", string(next)))
		return domain.ErrInvalidStatusTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		s.logger.Error("ошибка обновления статуса записи", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("ошибка обновления статуса записи: %w", err)
	}

	if title != "" {
		s.notifications.Notify(ctx, domain.CreateNotificationDTO{
			UserID:        appointment.PatientID,
			Title:         title,
			Message:       fmt.Sprintf(messageFormat, appointment.Date, appointment.StartTime),
			AppointmentID: &appointment.ID,
		})
	}

	return nil
}

func parseDateTime(date, timeStr string) (time.Time, error) {
	return time.ParseInLocation(
		validator.DateLayout+" "+validator.TimeLayout,
		date+" "+timeStr,
		time.Local,
	)
}

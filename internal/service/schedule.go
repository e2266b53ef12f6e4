package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"klinika/internal/domain"
	"klinika/internal/repository"
	"klinika/pkg/validator"
)

type ScheduleServiceImpl struct {
	repo       repository.ScheduleRepository
	doctorRepo repository.DoctorRepository
	logger     *zap.Logger
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	doctorRepo repository.DoctorRepository,
	logger *zap.Logger,
) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{
		repo:       repo,
		doctorRepo: doctorRepo,
		logger:     logger,
	}
}

func (s *ScheduleServiceImpl) Create(ctx context.Context, doctorID int64, dto domain.CreateScheduleWindowDTO) (int64, error) {
	_, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		s.logger.Warn("врач не найден при создании окна расписания", zap.Int64("doctorID", doctorID), zap.Error(err))
		return 0, domain.ErrDoctorNotFound
	}

	if !validator.ValidateTime(dto.StartTime) || !validator.ValidateTime(dto.EndTime) {
		return 0, domain.ErrBadTimeFormat
	}

	if !validator.ValidateTimeRange(dto.StartTime, dto.EndTime) {
		return 0, domain.ErrInvalidTimeRange
	}

	isAvailable := true
	if dto.IsAvailable != nil {
		isAvailable = *dto.IsAvailable
	}

	// Пересечение окон одного дня допустимо: дубликаты слотов схлопывает
	// расчет доступности.
	window := domain.ScheduleWindow{
		DoctorID:    doctorID,
		DayOfWeek:   dto.DayOfWeek,
		StartTime:   dto.StartTime,
		EndTime:     dto.EndTime,
		IsAvailable: isAvailable,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	id, err := s.repo.Create(ctx, window)
	if err != nil {
		s.logger.Error("ошибка создания окна расписания", zap.Error(err))
		return 0, fmt.Errorf("ошибка создания окна расписания: %w", err)
	}

	return id, nil
}

func (s *ScheduleServiceImpl) GetByID(ctx context.Context, id int64) (*domain.ScheduleWindow, error) {
	window, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("ошибка получения окна расписания", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return window, nil
}

func (s *ScheduleServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateScheduleWindowDTO) error {
	window, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("окно расписания для обновления не найдено", zap.Int64("id", id), zap.Error(err))
		return err
	}

	if dto.DayOfWeek != nil {
		window.DayOfWeek = *dto.DayOfWeek
	}
	if dto.StartTime != nil {
		if !validator.ValidateTime(*dto.StartTime) {
			return domain.ErrBadTimeFormat
		}
		window.StartTime = *dto.StartTime
	}
	if dto.EndTime != nil {
		if !validator.ValidateTime(*dto.EndTime) {
			return domain.ErrBadTimeFormat
		}
		window.EndTime = *dto.EndTime
	}
	if dto.IsAvailable != nil {
		window.IsAvailable = *dto.IsAvailable
	}

	if !validator.ValidateTimeRange(window.StartTime, window.EndTime) {
		return domain.ErrInvalidTimeRange
	}

	window.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, *window); err != nil {
		s.logger.Error("ошибка обновления окна расписания", zap.Int64("id", id), zap.Error(err))
		return err
	}

	return nil
}

func (s *ScheduleServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления окна расписания", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *ScheduleServiceImpl) List(ctx context.Context, filter domain.ScheduleFilter) ([]domain.ScheduleWindow, error) {
	windows, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка окон расписания", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения списка окон расписания: %w", err)
	}
	return windows, nil
}

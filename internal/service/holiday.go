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

type HolidayServiceImpl struct {
	repo       repository.HolidayRepository
	doctorRepo repository.DoctorRepository
	logger     *zap.Logger

	now func() time.Time
}

func NewHolidayService(
	repo repository.HolidayRepository,
	doctorRepo repository.DoctorRepository,
	logger *zap.Logger,
) *HolidayServiceImpl {
	return &HolidayServiceImpl{
		repo:       repo,
		doctorRepo: doctorRepo,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *HolidayServiceImpl) Create(ctx context.Context, doctorID int64, dto domain.CreateHolidayDTO) (int64, error) {
	_, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil {
		s.logger.Warn("врач не найден при создании выходного", zap.Int64("doctorID", doctorID), zap.Error(err))
		return 0, domain.ErrDoctorNotFound
	}

	if !validator.ValidateDate(dto.Date) {
		return 0, domain.ErrBadDateFormat
	}

	if dto.Date < s.now().Format(validator.DateLayout) {
		return 0, domain.ErrHolidayInPast
	}

	// Проверка на дубликат до вставки; уникальный индекс (doctor_id, date)
	// закрывает гонку.
	existing, err := s.repo.GetByDoctorAndDate(ctx, doctorID, dto.Date)
	if err != nil {
		s.logger.Error("ошибка проверки выходного", zap.Error(err))
		return 0, fmt.Errorf("ошибка проверки выходного: %w", err)
	}
	if existing != nil {
		return 0, domain.ErrHolidayExists
	}

	id, err := s.repo.Create(ctx, doctorID, dto)
	if err != nil {
		if domain.IsValidationError(err) {
			return 0, err
		}
		s.logger.Error("ошибка создания выходного", zap.Error(err))
		return 0, fmt.Errorf("ошибка создания выходного: %w", err)
	}

	return id, nil
}

func (s *HolidayServiceImpl) Delete(ctx context.Context, doctorID, id int64) error {
	holiday, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("выходной для удаления не найден", zap.Int64("id", id), zap.Error(err))
		return err
	}

	if holiday.DoctorID != doctorID {
		return domain.ErrHolidayNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления выходного", zap.Int64("id", id), zap.Error(err))
		return err
	}

	return nil
}

func (s *HolidayServiceImpl) List(ctx context.Context, filter domain.HolidayFilter) ([]domain.Holiday, error) {
	holidays, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка выходных", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения списка выходных: %w", err)
	}
	return holidays, nil
}

package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"klinika/internal/domain"
	"klinika/internal/repository"
	"klinika/pkg/validator"
)

type AvailabilityServiceImpl struct {
	scheduleRepo    repository.ScheduleRepository
	holidayRepo     repository.HolidayRepository
	appointmentRepo repository.AppointmentRepository
	logger          *zap.Logger
}

func NewAvailabilityService(
	scheduleRepo repository.ScheduleRepository,
	holidayRepo repository.HolidayRepository,
	appointmentRepo repository.AppointmentRepository,
	logger *zap.Logger,
) *AvailabilityServiceImpl {
	return &AvailabilityServiceImpl{
		scheduleRepo:    scheduleRepo,
		holidayRepo:     holidayRepo,
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// GenerateWindowSlots отдает отсортированные слоты начала приема для набора
// окон одного дня с шагом в длительность приема. Перекрывающиеся окна дают
// дубликаты — они схлопываются. Окно короче одного приема слотов не дает.
func GenerateWindowSlots(windows []domain.ScheduleWindow) []string {
	seen := make(map[string]bool)
	slots := make([]string, 0)
	step := time.Duration(domain.SlotDurationMinutes) * time.Minute

	for _, window := range windows {
		start, err := validator.ParseTime(window.StartTime)
		if err != nil {
			continue
		}
		end, err := validator.ParseTime(window.EndTime)
		if err != nil {
			continue
		}

		// Прием должен целиком помещаться в окно.
		for cur := start; !cur.Add(step).After(end); cur = cur.Add(step) {
			slot := cur.Format(validator.TimeLayout)
			if !seen[slot] {
				seen[slot] = true
				slots = append(slots, slot)
			}
		}
	}

	sort.Strings(slots)
	return slots
}

// SubtractBooked убирает из кандидатов слоты, занятые активными записями.
func SubtractBooked(slots []string, booked []domain.BookedSlot) []string {
	taken := make(map[string]bool, len(booked))
	for _, b := range booked {
		taken[b.StartTime] = true
	}

	free := make([]string, 0, len(slots))
	for _, slot := range slots {
		if !taken[slot] {
			free = append(free, slot)
		}
	}
	return free
}

func (s *AvailabilityServiceImpl) Resolve(ctx context.Context, doctorID int64, date string) (*domain.DayAvailability, error) {
	parsedDate, err := validator.ParseDate(date)
	if err != nil {
		return nil, domain.ErrBadDateFormat
	}

	// Выходной перекрывает любое расписание.
	holiday, err := s.holidayRepo.GetByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		s.logger.Error("ошибка проверки выходного", zap.Int64("doctorID", doctorID), zap.Error(err))
		return nil, err
	}
	if holiday != nil {
		return &domain.DayAvailability{IsAvailable: false, Slots: []string{}}, nil
	}

	dayOfWeek := int(parsedDate.Weekday())

	windows, err := s.scheduleRepo.GetActiveByDoctorAndDay(ctx, doctorID, dayOfWeek)
	if err != nil {
		s.logger.Error("ошибка получения расписания", zap.Int64("doctorID", doctorID), zap.Error(err))
		return nil, err
	}
	if len(windows) == 0 {
		return &domain.DayAvailability{IsAvailable: false, Slots: []string{}}, nil
	}

	booked, err := s.appointmentRepo.FindActiveSlots(ctx, doctorID, date)
	if err != nil {
		s.logger.Error("ошибка получения занятых слотов", zap.Int64("doctorID", doctorID), zap.Error(err))
		return nil, err
	}

	slots := SubtractBooked(GenerateWindowSlots(windows), booked)

	return &domain.DayAvailability{
		IsAvailable: len(slots) > 0,
		Slots:       slots,
	}, nil
}

func (s *AvailabilityServiceImpl) CheckWindow(ctx context.Context, doctorID int64, date, startTime string) error {
	parsedDate, err := validator.ParseDate(date)
	if err != nil {
		return domain.ErrBadDateFormat
	}
	if !validator.ValidateTime(startTime) {
		return domain.ErrBadTimeFormat
	}

	holiday, err := s.holidayRepo.GetByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		return err
	}
	if holiday != nil {
		return domain.ErrDoctorOnHoliday
	}

	windows, err := s.scheduleRepo.GetActiveByDoctorAndDay(ctx, doctorID, int(parsedDate.Weekday()))
	if err != nil {
		return err
	}
	if len(windows) == 0 {
		return domain.ErrDayUnavailable
	}

	for _, slot := range GenerateWindowSlots(windows) {
		if slot == startTime {
			return nil
		}
	}

	return domain.ErrOutsideSchedule
}

func (s *AvailabilityServiceImpl) CheckSlot(ctx context.Context, doctorID int64, date, startTime string) error {
	if err := s.CheckWindow(ctx, doctorID, date, startTime); err != nil {
		return err
	}

	booked, err := s.appointmentRepo.FindActiveSlots(ctx, doctorID, date)
	if err != nil {
		return err
	}

	for _, b := range booked {
		if b.StartTime == startTime {
			return domain.ErrSlotTaken
		}
	}

	return nil
}

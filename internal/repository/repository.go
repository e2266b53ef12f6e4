package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"klinika/internal/domain"
)

type Repositories struct {
	User         UserRepository
	Doctor       DoctorRepository
	Schedule     ScheduleRepository
	Holiday      HolidayRepository
	Appointment  AppointmentRepository
	Notification NotificationRepository
	Auth         AuthRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Doctor:       NewDoctorRepository(db),
		Schedule:     NewScheduleRepository(db),
		Holiday:      NewHolidayRepository(db),
		Appointment:  NewAppointmentRepository(db),
		Notification: NewNotificationRepository(db),
		Auth:         NewAuthRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO, passwordHash string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, id int64, user domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, userID int64, dto domain.CreateDoctorDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error)
	Update(ctx context.Context, id int64, dto domain.UpdateDoctorDTO) error
	SetApproved(ctx context.Context, id int64, approved bool) error
	UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error
	List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, window domain.ScheduleWindow) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.ScheduleWindow, error)
	Update(ctx context.Context, window domain.ScheduleWindow) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.ScheduleFilter) ([]domain.ScheduleWindow, error)
	GetActiveByDoctorAndDay(ctx context.Context, doctorID int64, dayOfWeek int) ([]domain.ScheduleWindow, error)
}

type HolidayRepository interface {
	Create(ctx context.Context, doctorID int64, dto domain.CreateHolidayDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Holiday, error)
	GetByDoctorAndDate(ctx context.Context, doctorID int64, date string) (*domain.Holiday, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.HolidayFilter) ([]domain.Holiday, error)
}

type AppointmentRepository interface {
	// CreateBooked вставляет запись со статусом pending, повторно проверяя
	// занятость слота внутри транзакции.
	CreateBooked(ctx context.Context, patientID int64, dto domain.CreateAppointmentDTO, endTime string) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	FindActiveSlots(ctx context.Context, doctorID int64, date string) ([]domain.BookedSlot, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	UpdateNotes(ctx context.Context, id int64, notes string) error
	// Reschedule применяет перенос под блокировкой строки записи,
	// повторно проверяя занятость целевого слота.
	Reschedule(ctx context.Context, id int64, upd domain.RescheduleUpdate) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, dto domain.CreateNotificationDTO) (int64, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

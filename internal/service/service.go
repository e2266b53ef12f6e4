package service

import (
	"context"

	"go.uber.org/zap"

	"klinika/config"
	"klinika/internal/domain"
	"klinika/internal/repository"
	"klinika/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
}

type Services struct {
	User         UserService
	Auth         AuthService
	Doctor       DoctorService
	Schedule     ScheduleService
	Holiday      HolidayService
	Availability AvailabilityService
	Appointment  AppointmentService
	Notification NotificationService
}

func NewServices(deps Deps) *Services {
	notification := NewNotificationService(deps.Repos.Notification, deps.Logger)
	availability := NewAvailabilityService(deps.Repos.Schedule, deps.Repos.Holiday, deps.Repos.Appointment, deps.Logger)

	return &Services{
		User:         NewUserService(deps.Repos.User, deps.Logger),
		Auth:         NewAuthService(deps.Repos.Auth, deps.Repos.User, deps.Config.JWT, deps.Logger),
		Doctor:       NewDoctorService(deps.Repos.Doctor, deps.Repos.User, deps.FileStorage, deps.Logger),
		Schedule:     NewScheduleService(deps.Repos.Schedule, deps.Repos.Doctor, deps.Logger),
		Holiday:      NewHolidayService(deps.Repos.Holiday, deps.Repos.Doctor, deps.Logger),
		Availability: availability,
		Appointment:  NewAppointmentService(deps.Repos.Appointment, deps.Repos.Doctor, deps.Repos.User, availability, notification, deps.Logger),
		Notification: notification,
	}
}

type UserService interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, dto domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)
}

type DoctorService interface {
	Create(ctx context.Context, userID int64, dto domain.CreateDoctorDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error)
	Update(ctx context.Context, id int64, dto domain.UpdateDoctorDTO) error
	Approve(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error)
	UploadProfilePhoto(ctx context.Context, doctorID int64, photo []byte, filename string) error
}

type ScheduleService interface {
	Create(ctx context.Context, doctorID int64, dto domain.CreateScheduleWindowDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.ScheduleWindow, error)
	Update(ctx context.Context, id int64, dto domain.UpdateScheduleWindowDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.ScheduleFilter) ([]domain.ScheduleWindow, error)
}

type HolidayService interface {
	Create(ctx context.Context, doctorID int64, dto domain.CreateHolidayDTO) (int64, error)
	Delete(ctx context.Context, doctorID, id int64) error
	List(ctx context.Context, filter domain.HolidayFilter) ([]domain.Holiday, error)
}

// AvailabilityService вычисляет свободные слоты врача на дату и проверяет
// конкретный слот перед записью.
type AvailabilityService interface {
	Resolve(ctx context.Context, doctorID int64, date string) (*domain.DayAvailability, error)
	// CheckWindow: выходной и попадание в активное окно расписания.
	CheckWindow(ctx context.Context, doctorID int64, date, startTime string) error
	// CheckSlot: CheckWindow плюс отсутствие активной записи на это время.
	CheckSlot(ctx context.Context, doctorID int64, date, startTime string) error
}

type AppointmentService interface {
	Book(ctx context.Context, patientID int64, dto domain.CreateAppointmentDTO) (*domain.Appointment, error)
	Reschedule(ctx context.Context, id int64, dto domain.RescheduleAppointmentDTO) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
	Confirm(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64, notes *string) error
	Reject(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) error
}

type NotificationService interface {
	Notify(ctx context.Context, dto domain.CreateNotificationDTO)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	CountUnread(ctx context.Context, userID int64) (int, error)
}

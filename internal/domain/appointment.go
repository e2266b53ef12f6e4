package domain

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusRejected:
		return true
	}
	return false
}

// IsActive: запись удерживает слот, пока ожидает подтверждения или подтверждена.
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// allowedTransitions — явная таблица переходов статусов. Переход
// confirmed -> pending выполняется только сценарием переноса записи.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusRejected, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusPending},
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SlotDurationMinutes — фиксированная длительность приема.
const SlotDurationMinutes = 30

type Appointment struct {
	ID        int64             `json:"id"`
	PatientID int64             `json:"patient_id"`
	DoctorID  int64             `json:"doctor_id"`
	Date      string            `json:"appointment_date"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
	Status    AppointmentStatus `json:"status"`
	Reason    string            `json:"reason"`
	Notes     *string           `json:"notes,omitempty"`

	RescheduledAt     *time.Time `json:"rescheduled_at,omitempty"`
	OriginalDate      *string    `json:"original_appointment_date,omitempty"`
	OriginalStartTime *string    `json:"original_start_time,omitempty"`
	OriginalEndTime   *string    `json:"original_end_time,omitempty"`
	RescheduleReason  *string    `json:"reschedule_reason,omitempty"`
	RescheduleCount   int        `json:"reschedule_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PatientName string `json:"patient_name,omitempty"`
	DoctorName  string `json:"doctor_name,omitempty"`
}

type CreateAppointmentDTO struct {
	DoctorID  int64  `json:"doctor_id" binding:"required"`
	Date      string `json:"appointment_date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

type RescheduleAppointmentDTO struct {
	Date      string  `json:"appointment_date" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	EndTime   *string `json:"end_time"`
	Reason    *string `json:"reason"`
}

// RescheduleUpdate — значения, которые репозиторий записывает при переносе.
type RescheduleUpdate struct {
	Date              string
	StartTime         string
	EndTime           string
	Status            AppointmentStatus
	RescheduledAt     time.Time
	RescheduleReason  *string
	OriginalDate      *string
	OriginalStartTime *string
	OriginalEndTime   *string
}

type AppointmentFilter struct {
	PatientID *int64             `json:"patient_id"`
	DoctorID  *int64             `json:"doctor_id"`
	Status    *AppointmentStatus `json:"status"`
	StartDate *string            `json:"start_date"`
	EndDate   *string            `json:"end_date"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// BookedSlot — занятый слот в реестре записей врача на дату.
type BookedSlot struct {
	StartTime string
	Status    AppointmentStatus
}

// DayAvailability — результат расчета доступности врача на дату.
type DayAvailability struct {
	IsAvailable bool     `json:"is_available"`
	Slots       []string `json:"slots"`
}

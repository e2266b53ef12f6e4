package domain

import (
	"time"
)

// ScheduleWindow — окно еженедельного расписания врача.
// DayOfWeek: 0 = воскресенье ... 6 = суббота, как у time.Weekday.
type ScheduleWindow struct {
	ID          int64     `json:"id"`
	DoctorID    int64     `json:"doctor_id"`
	DayOfWeek   int       `json:"day_of_week"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateScheduleWindowDTO struct {
	DayOfWeek   int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	IsAvailable *bool  `json:"is_available"`
}

type UpdateScheduleWindowDTO struct {
	DayOfWeek   *int    `json:"day_of_week" binding:"omitempty,min=0,max=6"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	IsAvailable *bool   `json:"is_available"`
}

type ScheduleFilter struct {
	DoctorID  *int64 `json:"doctor_id"`
	DayOfWeek *int   `json:"day_of_week"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

package domain

import (
	"time"
)

// Holiday — дата, на которую врач полностью недоступен.
type Holiday struct {
	ID        int64     `json:"id"`
	DoctorID  int64     `json:"doctor_id"`
	Date      string    `json:"date"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateHolidayDTO struct {
	Date   string  `json:"date" binding:"required"`
	Reason *string `json:"reason"`
}

type HolidayFilter struct {
	DoctorID *int64  `json:"doctor_id"`
	FromDate *string `json:"from_date"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
}

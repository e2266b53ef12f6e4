package domain

import (
	"time"
)

type Notification struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	AppointmentID *int64    `json:"appointment_id,omitempty"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateNotificationDTO struct {
	UserID        int64
	Title         string
	Message       string
	AppointmentID *int64
}

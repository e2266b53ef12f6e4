package domain

import (
	"time"
)

// Doctor — профиль врача. Запись к врачу возможна только после
// подтверждения профиля администратором (IsApproved).
type Doctor struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"user_id"`
	Specialty         string    `json:"specialty"`
	Description       string    `json:"description"`
	ExperienceYears   int       `json:"experience_years"`
	ConsultationPrice float64   `json:"consultation_price"`
	IsApproved        bool      `json:"is_approved"`
	ProfilePhotoURL   string    `json:"profile_photo_url"`
	User              User      `json:"user"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CreateDoctorDTO struct {
	Specialty         string  `json:"specialty" binding:"required"`
	Description       string  `json:"description"`
	ExperienceYears   int     `json:"experience_years" binding:"min=0"`
	ConsultationPrice float64 `json:"consultation_price" binding:"min=0"`
}

type UpdateDoctorDTO struct {
	Specialty         *string  `json:"specialty"`
	Description       *string  `json:"description"`
	ExperienceYears   *int     `json:"experience_years" binding:"omitempty,min=0"`
	ConsultationPrice *float64 `json:"consultation_price" binding:"omitempty,min=0"`
}

type DoctorFilter struct {
	Specialty    *string `json:"specialty"`
	ApprovedOnly bool    `json:"approved_only"`
	Limit        int     `json:"limit"`
	Offset       int     `json:"offset"`
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"klinika/internal/domain"
)

type DoctorRepo struct {
	db *pgxpool.Pool
}

func NewDoctorRepository(db *pgxpool.Pool) *DoctorRepo {
	return &DoctorRepo{db: db}
}

func (r *DoctorRepo) Create(ctx context.Context, userID int64, dto domain.CreateDoctorDTO) (int64, error) {
	query := `
		INSERT INTO doctors (user_id, specialty, description, experience_years, consultation_price, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		userID,
		dto.Specialty,
		dto.Description,
		dto.ExperienceYears,
		dto.ConsultationPrice,
		time.Now(),
	).Scan(&id)

	if err != nil {
		if isUniqueViolation(err) {
			return 0, errors.New("профиль врача для этого пользователя уже существует")
		}
		return 0, fmt.Errorf("ошибка создания профиля врача: %w", err)
	}

	return id, nil
}

const doctorSelect = `
	SELECT d.id, d.user_id, d.specialty, d.description, d.experience_years,
	       d.consultation_price, d.is_approved, d.profile_photo_url, d.created_at, d.updated_at,
	       u.id, u.first_name, u.last_name, u.middle_name, u.email, u.phone, u.role, u.is_active
	FROM doctors d
	JOIN users u ON d.user_id = u.id
`

func scanDoctor(row pgx.Row) (*domain.Doctor, error) {
	var doctor domain.Doctor
	err := row.Scan(
		&doctor.ID,
		&doctor.UserID,
		&doctor.Specialty,
		&doctor.Description,
		&doctor.ExperienceYears,
		&doctor.ConsultationPrice,
		&doctor.IsApproved,
		&doctor.ProfilePhotoURL,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
		&doctor.User.ID,
		&doctor.User.FirstName,
		&doctor.User.LastName,
		&doctor.User.MiddleName,
		&doctor.User.Email,
		&doctor.User.Phone,
		&doctor.User.Role,
		&doctor.User.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, fmt.Errorf("ошибка получения профиля врача: %w", err)
	}
	return &doctor, nil
}

func (r *DoctorRepo) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	return scanDoctor(r.db.QueryRow(ctx, doctorSelect+" WHERE d.id = $1", id))
}

func (r *DoctorRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error) {
	return scanDoctor(r.db.QueryRow(ctx, doctorSelect+" WHERE d.user_id = $1", userID))
}

func (r *DoctorRepo) Update(ctx context.Context, id int64, dto domain.UpdateDoctorDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.Specialty != nil {
		updateFields = append(updateFields, fmt.Sprintf("specialty = $%d", argCount))
		args = append(args, *dto.Specialty)
		argCount++
	}

	if dto.Description != nil {
		updateFields = append(updateFields, fmt.Sprintf("description = $%d", argCount))
		args = append(args, *dto.Description)
		argCount++
	}

	if dto.ExperienceYears != nil {
		updateFields = append(updateFields, fmt.Sprintf("experience_years = $%d", argCount))
		args = append(args, *dto.ExperienceYears)
		argCount++
	}

	if dto.ConsultationPrice != nil {
		updateFields = append(updateFields, fmt.Sprintf("consultation_price = $%d", argCount))
		args = append(args, *dto.ConsultationPrice)
		argCount++
	}

	if len(updateFields) == 0 {
		return nil
	}

	updateFields = append(updateFields, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now())
	argCount++

	args = append(args, id)
	query := fmt.Sprintf("UPDATE doctors SET %s WHERE id = $%d", strings.Join(updateFields, ", "), argCount)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления профиля врача: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrDoctorNotFound
	}

	return nil
}

func (r *DoctorRepo) SetApproved(ctx context.Context, id int64, approved bool) error {
	query := `UPDATE doctors SET is_approved = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, approved, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка подтверждения профиля врача: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrDoctorNotFound
	}

	return nil
}

func (r *DoctorRepo) UpdateProfilePhoto(ctx context.Context, id int64, photoURL string) error {
	query := `UPDATE doctors SET profile_photo_url = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, photoURL, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления фото профиля: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrDoctorNotFound
	}

	return nil
}

func (r *DoctorRepo) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.Specialty != nil {
		conditions = append(conditions, fmt.Sprintf("d.specialty = $%d", argCount))
		args = append(args, *filter.Specialty)
		argCount++
	}

	if filter.ApprovedOnly {
		conditions = append(conditions, "d.is_approved = TRUE")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM doctors d" + whereClause

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета врачей: %w", err)
	}

	query := doctorSelect + whereClause + " ORDER BY d.id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	doctors := make([]domain.Doctor, 0)
	for rows.Next() {
		var doctor domain.Doctor
		if err := rows.Scan(
			&doctor.ID,
			&doctor.UserID,
			&doctor.Specialty,
			&doctor.Description,
			&doctor.ExperienceYears,
			&doctor.ConsultationPrice,
			&doctor.IsApproved,
			&doctor.ProfilePhotoURL,
			&doctor.CreatedAt,
			&doctor.UpdatedAt,
			&doctor.User.ID,
			&doctor.User.FirstName,
			&doctor.User.LastName,
			&doctor.User.MiddleName,
			&doctor.User.Email,
			&doctor.User.Phone,
			&doctor.User.Role,
			&doctor.User.IsActive,
		); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования профиля врача: %w", err)
		}
		doctors = append(doctors, doctor)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return doctors, total, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"klinika/internal/domain"
)

type ScheduleRepo struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

func (r *ScheduleRepo) Create(ctx context.Context, window domain.ScheduleWindow) (int64, error) {
	query := `
		INSERT INTO schedule_windows (doctor_id, day_of_week, start_time, end_time, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(
		ctx,
		query,
		window.DoctorID,
		window.DayOfWeek,
		window.StartTime,
		window.EndTime,
		window.IsAvailable,
		window.CreatedAt,
		window.UpdatedAt,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания окна расписания: %w", err)
	}

	return id, nil
}

func (r *ScheduleRepo) GetByID(ctx context.Context, id int64) (*domain.ScheduleWindow, error) {
	query := `
		SELECT id, doctor_id, day_of_week, start_time, end_time, is_available, created_at, updated_at
		FROM schedule_windows
		WHERE id = $1
	`

	var window domain.ScheduleWindow
	err := r.db.QueryRow(ctx, query, id).Scan(
		&window.ID,
		&window.DoctorID,
		&window.DayOfWeek,
		&window.StartTime,
		&window.EndTime,
		&window.IsAvailable,
		&window.CreatedAt,
		&window.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("ошибка получения окна расписания: %w", err)
	}

	return &window, nil
}

func (r *ScheduleRepo) Update(ctx context.Context, window domain.ScheduleWindow) error {
	query := `
		UPDATE schedule_windows
		SET day_of_week = $1, start_time = $2, end_time = $3, is_available = $4, updated_at = $5
		WHERE id = $6
	`

	tag, err := r.db.Exec(ctx, query,
		window.DayOfWeek,
		window.StartTime,
		window.EndTime,
		window.IsAvailable,
		window.UpdatedAt,
		window.ID,
	)
	if err != nil {
		return fmt.Errorf("ошибка обновления окна расписания: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrScheduleNotFound
	}

	return nil
}

func (r *ScheduleRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM schedule_windows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления окна расписания: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrScheduleNotFound
	}

	return nil
}

func (r *ScheduleRepo) List(ctx context.Context, filter domain.ScheduleFilter) ([]domain.ScheduleWindow, error) {
	baseQuery := `
		SELECT id, doctor_id, day_of_week, start_time, end_time, is_available, created_at, updated_at
		FROM schedule_windows
	`

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.DoctorID != nil {
		conditions = append(conditions, fmt.Sprintf("doctor_id = $%d", argCount))
		args = append(args, *filter.DoctorID)
		argCount++
	}

	if filter.DayOfWeek != nil {
		conditions = append(conditions, fmt.Sprintf("day_of_week = $%d", argCount))
		args = append(args, *filter.DayOfWeek)
		argCount++
	}

	query := baseQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY day_of_week, start_time"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	windows := make([]domain.ScheduleWindow, 0)
	for rows.Next() {
		var window domain.ScheduleWindow
		if err := rows.Scan(
			&window.ID,
			&window.DoctorID,
			&window.DayOfWeek,
			&window.StartTime,
			&window.EndTime,
			&window.IsAvailable,
			&window.CreatedAt,
			&window.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования окна расписания: %w", err)
		}
		windows = append(windows, window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return windows, nil
}

func (r *ScheduleRepo) GetActiveByDoctorAndDay(ctx context.Context, doctorID int64, dayOfWeek int) ([]domain.ScheduleWindow, error) {
	query := `
		SELECT id, doctor_id, day_of_week, start_time, end_time, is_available, created_at, updated_at
		FROM schedule_windows
		WHERE doctor_id = $1 AND day_of_week = $2 AND is_available = TRUE
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, doctorID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения расписания на день: %w", err)
	}
	defer rows.Close()

	windows := make([]domain.ScheduleWindow, 0)
	for rows.Next() {
		var window domain.ScheduleWindow
		if err := rows.Scan(
			&window.ID,
			&window.DoctorID,
			&window.DayOfWeek,
			&window.StartTime,
			&window.EndTime,
			&window.IsAvailable,
			&window.CreatedAt,
			&window.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования окна расписания: %w", err)
		}
		windows = append(windows, window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return windows, nil
}

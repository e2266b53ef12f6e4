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

type HolidayRepo struct {
	db *pgxpool.Pool
}

func NewHolidayRepository(db *pgxpool.Pool) *HolidayRepo {
	return &HolidayRepo{db: db}
}

func (r *HolidayRepo) Create(ctx context.Context, doctorID int64, dto domain.CreateHolidayDTO) (int64, error) {
	query := `
		INSERT INTO holidays (doctor_id, date, reason, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query, doctorID, dto.Date, dto.Reason, time.Now()).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrHolidayExists
		}
		return 0, fmt.Errorf("ошибка создания выходного: %w", err)
	}

	return id, nil
}

func (r *HolidayRepo) GetByID(ctx context.Context, id int64) (*domain.Holiday, error) {
	query := `
		SELECT id, doctor_id, TO_CHAR(date, 'YYYY-MM-DD'), reason, created_at
		FROM holidays
		WHERE id = $1
	`

	var holiday domain.Holiday
	err := r.db.QueryRow(ctx, query, id).Scan(
		&holiday.ID,
		&holiday.DoctorID,
		&holiday.Date,
		&holiday.Reason,
		&holiday.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHolidayNotFound
		}
		return nil, fmt.Errorf("ошибка получения выходного: %w", err)
	}

	return &holiday, nil
}

func (r *HolidayRepo) GetByDoctorAndDate(ctx context.Context, doctorID int64, date string) (*domain.Holiday, error) {
	query := `
		SELECT id, doctor_id, TO_CHAR(date, 'YYYY-MM-DD'), reason, created_at
		FROM holidays
		WHERE doctor_id = $1 AND date = $2
	`

	var holiday domain.Holiday
	err := r.db.QueryRow(ctx, query, doctorID, date).Scan(
		&holiday.ID,
		&holiday.DoctorID,
		&holiday.Date,
		&holiday.Reason,
		&holiday.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ошибка получения выходного: %w", err)
	}

	return &holiday, nil
}

func (r *HolidayRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления выходного: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrHolidayNotFound
	}

	return nil
}

func (r *HolidayRepo) List(ctx context.Context, filter domain.HolidayFilter) ([]domain.Holiday, error) {
	baseQuery := `
		SELECT id, doctor_id, TO_CHAR(date, 'YYYY-MM-DD'), reason, created_at
		FROM holidays
	`

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.DoctorID != nil {
		conditions = append(conditions, fmt.Sprintf("doctor_id = $%d", argCount))
		args = append(args, *filter.DoctorID)
		argCount++
	}

	if filter.FromDate != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argCount))
		args = append(args, *filter.FromDate)
		argCount++
	}

	query := baseQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY date"

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

	holidays := make([]domain.Holiday, 0)
	for rows.Next() {
		var holiday domain.Holiday
		if err := rows.Scan(
			&holiday.ID,
			&holiday.DoctorID,
			&holiday.Date,
			&holiday.Reason,
			&holiday.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования выходного: %w", err)
		}
		holidays = append(holidays, holiday)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return holidays, nil
}

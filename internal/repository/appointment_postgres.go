package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"klinika/internal/domain"
)

const appointmentColumns = `
	a.id, a.patient_id, a.doctor_id, TO_CHAR(a.appointment_date, 'YYYY-MM-DD'),
	a.start_time, a.end_time, a.status, a.reason, a.notes,
	a.rescheduled_at, TO_CHAR(a.original_appointment_date, 'YYYY-MM-DD'),
	a.original_start_time, a.original_end_time, a.reschedule_reason, a.reschedule_count,
	a.created_at, a.updated_at
`

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{
		db: db,
	}
}

// isUniqueViolation: частичный уникальный индекс uniq_active_appointment_slot
// страхует проверку занятости от конкурентной вставки.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *AppointmentRepo) CreateBooked(ctx context.Context, patientID int64, dto domain.CreateAppointmentDTO, endTime string) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	checkQuery := `
		SELECT COUNT(*)
		FROM appointments
		WHERE doctor_id = $1
		AND appointment_date = $2
		AND start_time = $3
		AND status IN ('pending', 'confirmed')
	`

	var count int
	err = tx.QueryRow(ctx, checkQuery, dto.DoctorID, dto.Date, dto.StartTime).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки доступности слота: %w", err)
	}

	if count > 0 {
		return 0, domain.ErrSlotTaken
	}

	query := `
		INSERT INTO appointments (patient_id, doctor_id, appointment_date, start_time, end_time, status, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id
	`

	var id int64
	err = tx.QueryRow(ctx, query,
		patientID,
		dto.DoctorID,
		dto.Date,
		dto.StartTime,
		endTime,
		domain.AppointmentStatusPending,
		dto.Reason,
		time.Now(),
	).Scan(&id)

	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrSlotTaken
		}
		return 0, fmt.Errorf("ошибка создания записи на прием: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return id, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	query := fmt.Sprintf(`
		SELECT %s,
		       pu.first_name, pu.last_name,
		       du.first_name, du.last_name
		FROM appointments a
		JOIN users pu ON a.patient_id = pu.id
		JOIN doctors d ON a.doctor_id = d.id
		JOIN users du ON d.user_id = du.id
		WHERE a.id = $1
	`, appointmentColumns)

	var appointment domain.Appointment
	var patientFirst, patientLast, doctorFirst, doctorLast string

	err := r.db.QueryRow(ctx, query, id).Scan(
		&appointment.ID,
		&appointment.PatientID,
		&appointment.DoctorID,
		&appointment.Date,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.Status,
		&appointment.Reason,
		&appointment.Notes,
		&appointment.RescheduledAt,
		&appointment.OriginalDate,
		&appointment.OriginalStartTime,
		&appointment.OriginalEndTime,
		&appointment.RescheduleReason,
		&appointment.RescheduleCount,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
		&patientFirst,
		&patientLast,
		&doctorFirst,
		&doctorLast,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи на прием: %w", err)
	}

	appointment.PatientName = patientFirst + " " + patientLast
	appointment.DoctorName = doctorFirst + " " + doctorLast

	return &appointment, nil
}

func (r *AppointmentRepo) FindActiveSlots(ctx context.Context, doctorID int64, date string) ([]domain.BookedSlot, error) {
	query := `
		SELECT start_time, status
		FROM appointments
		WHERE doctor_id = $1
		AND appointment_date = $2
		AND status IN ('pending', 'confirmed')
	`

	rows, err := r.db.Query(ctx, query, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения занятых слотов: %w", err)
	}
	defer rows.Close()

	slots := make([]domain.BookedSlot, 0)
	for rows.Next() {
		var slot domain.BookedSlot
		if err := rows.Scan(&slot.StartTime, &slot.Status); err != nil {
			return nil, fmt.Errorf("ошибка сканирования слотов: %w", err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при обработке результатов: %w", err)
	}

	return slots, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса записи: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAppointmentNotFound
	}

	return nil
}

func (r *AppointmentRepo) UpdateNotes(ctx context.Context, id int64, notes string) error {
	query := `
		UPDATE appointments
		SET notes = $1, updated_at = $2
		WHERE id = $3
	`

	tag, err := r.db.Exec(ctx, query, notes, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления заметок записи: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAppointmentNotFound
	}

	return nil
}

func (r *AppointmentRepo) Reschedule(ctx context.Context, id int64, upd domain.RescheduleUpdate) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	// Блокировка строки: два конкурентных переноса одной записи
	// выполняются по очереди.
	var doctorID int64
	err = tx.QueryRow(ctx, `SELECT doctor_id FROM appointments WHERE id = $1 FOR UPDATE`, id).Scan(&doctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAppointmentNotFound
		}
		return fmt.Errorf("ошибка получения записи для переноса: %w", err)
	}

	checkQuery := `
		SELECT COUNT(*)
		FROM appointments
		WHERE doctor_id = $1
		AND appointment_date = $2
		AND start_time = $3
		AND id != $4
		AND status IN ('pending', 'confirmed')
	`

	var count int
	err = tx.QueryRow(ctx, checkQuery, doctorID, upd.Date, upd.StartTime, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("ошибка проверки доступности слота: %w", err)
	}

	if count > 0 {
		return domain.ErrSlotTaken
	}

	query := `
		UPDATE appointments
		SET appointment_date = $1,
		    start_time = $2,
		    end_time = $3,
		    status = $4,
		    rescheduled_at = $5,
		    reschedule_reason = $6,
		    original_appointment_date = COALESCE($7, original_appointment_date),
		    original_start_time = COALESCE($8, original_start_time),
		    original_end_time = COALESCE($9, original_end_time),
		    reschedule_count = reschedule_count + 1,
		    updated_at = $10
		WHERE id = $11
	`

	_, err = tx.Exec(ctx, query,
		upd.Date,
		upd.StartTime,
		upd.EndTime,
		upd.Status,
		upd.RescheduledAt,
		upd.RescheduleReason,
		upd.OriginalDate,
		upd.OriginalStartTime,
		upd.OriginalEndTime,
		time.Now(),
		id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlotTaken
		}
		return fmt.Errorf("ошибка переноса записи на прием: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return nil
}

func appointmentFilterConditions(filter domain.AppointmentFilter, startArg int) ([]string, []interface{}) {
	var conditions []string
	var args []interface{}
	argCount := startArg

	if filter.PatientID != nil {
		conditions = append(conditions, fmt.Sprintf("a.patient_id = $%d", argCount))
		args = append(args, *filter.PatientID)
		argCount++
	}

	if filter.DoctorID != nil {
		conditions = append(conditions, fmt.Sprintf("a.doctor_id = $%d", argCount))
		args = append(args, *filter.DoctorID)
		argCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.appointment_date >= $%d", argCount))
		args = append(args, *filter.StartDate)
		argCount++
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.appointment_date <= $%d", argCount))
		args = append(args, *filter.EndDate)
		argCount++
	}

	return conditions, args
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	baseQuery := fmt.Sprintf(`
		SELECT %s,
		       pu.first_name, pu.last_name,
		       du.first_name, du.last_name
		FROM appointments a
		JOIN users pu ON a.patient_id = pu.id
		JOIN doctors d ON a.doctor_id = d.id
		JOIN users du ON d.user_id = du.id
	`, appointmentColumns)

	conditions, args := appointmentFilterConditions(filter, 1)

	query := baseQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY a.appointment_date DESC, a.start_time DESC"

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

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		var appointment domain.Appointment
		var patientFirst, patientLast, doctorFirst, doctorLast string

		if err := rows.Scan(
			&appointment.ID,
			&appointment.PatientID,
			&appointment.DoctorID,
			&appointment.Date,
			&appointment.StartTime,
			&appointment.EndTime,
			&appointment.Status,
			&appointment.Reason,
			&appointment.Notes,
			&appointment.RescheduledAt,
			&appointment.OriginalDate,
			&appointment.OriginalStartTime,
			&appointment.OriginalEndTime,
			&appointment.RescheduleReason,
			&appointment.RescheduleCount,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
			&patientFirst,
			&patientLast,
			&doctorFirst,
			&doctorLast,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки записи: %w", err)
		}

		appointment.PatientName = patientFirst + " " + patientLast
		appointment.DoctorName = doctorFirst + " " + doctorLast

		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return appointments, nil
}

func (r *AppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	baseQuery := `
		SELECT COUNT(*)
		FROM appointments a
	`

	conditions, args := appointmentFilterConditions(filter, 1)

	query := baseQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	return count, nil
}

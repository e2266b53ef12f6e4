package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"klinika/internal/domain"
)

type appointmentTestEnv struct {
	repo      *fakeAppointmentRepo
	doctors   *fakeDoctorRepo
	users     *fakeUserRepo
	schedules *fakeScheduleRepo
	holidays  *fakeHolidayRepo
	notifier  *fakeNotifier
	svc       *AppointmentServiceImpl
}

// Врач с ID 1 подтвержден и принимает по понедельникам и средам 09:00-12:00.
// Пациент — пользователь с ID 10.
func newAppointmentTestEnv(t *testing.T, now time.Time) *appointmentTestEnv {
	t.Helper()
	ctx := context.Background()

	env := &appointmentTestEnv{
		repo: newFakeAppointmentRepo(),
		doctors: newFakeDoctorRepo(domain.Doctor{
			ID: 1, UserID: 2, Specialty: "терапевт", IsApproved: true,
		}),
		users: newFakeUserRepo(domain.User{
			ID: 10, FirstName: "Иван", LastName: "Петров",
			Role: domain.UserRolePatient, IsActive: true,
		}),
		schedules: newFakeScheduleRepo(),
		holidays:  newFakeHolidayRepo(),
		notifier:  &fakeNotifier{},
	}

	env.schedules.Create(ctx, window(1, 1, "09:00", "12:00"))
	env.schedules.Create(ctx, window(1, 3, "09:00", "12:00"))

	availability := NewAvailabilityService(env.schedules, env.holidays, env.repo, zap.NewNop())
	env.svc = NewAppointmentService(env.repo, env.doctors, env.users, availability, env.notifier, zap.NewNop())
	env.svc.now = func() time.Time { return now }

	return env
}

func (env *appointmentTestEnv) confirmed(t *testing.T, date, startTime string) *domain.Appointment {
	t.Helper()
	return env.repo.add(domain.Appointment{
		PatientID: 10,
		DoctorID:  1,
		Date:      date,
		StartTime: startTime,
		EndTime:   mustAddSlot(t, startTime),
		Status:    domain.AppointmentStatusConfirmed,
		Reason:    "консультация",
	})
}

func mustAddSlot(t *testing.T, startTime string) string {
	t.Helper()
	parsed, err := time.Parse("15:04", startTime)
	if err != nil {
		t.Fatalf("некорректное время %q: %v", startTime, err)
	}
	return parsed.Add(30 * time.Minute).Format("15:04")
}

var testNow = time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)

func TestBook(t *testing.T) {
	ctx := context.Background()
	env := newAppointmentTestEnv(t, testNow)

	appointment, err := env.svc.Book(ctx, 10, domain.CreateAppointmentDTO{
		DoctorID:  1,
		Date:      "2026-09-07",
		StartTime: "09:30",
		Reason:    "консультация",
	})
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}

	if appointment.Status != domain.AppointmentStatusPending {
		t.Errorf("Status = %s, want pending", appointment.Status)
	}
	if appointment.EndTime != "10:00" {
		t.Errorf("EndTime = %s, want 10:00", appointment.EndTime)
	}
	if appointment.RescheduleCount != 0 {
		t.Errorf("RescheduleCount = %d, want 0", appointment.RescheduleCount)
	}

	if len(env.notifier.sent) != 1 {
		t.Fatalf("отправлено %d уведомлений, want 1", len(env.notifier.sent))
	}
	if env.notifier.sent[0].UserID != 2 {
		t.Errorf("уведомление отправлено пользователю %d, want 2", env.notifier.sent[0].UserID)
	}
}

func TestBook_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		setup   func(env *appointmentTestEnv)
		dto     domain.CreateAppointmentDTO
		wantErr error
	}{
		{
			name:    "врач не существует",
			dto:     domain.CreateAppointmentDTO{DoctorID: 99, Date: "2026-09-07", StartTime: "09:00", Reason: "x"},
			wantErr: domain.ErrDoctorNotFound,
		},
		{
			name: "врач не подтвержден",
			setup: func(env *appointmentTestEnv) {
				env.doctors.doctors[1].IsApproved = false
			},
			dto:     domain.CreateAppointmentDTO{DoctorID: 1, Date: "2026-09-07", StartTime: "09:00", Reason: "x"},
			wantErr: domain.ErrDoctorNotFound,
		},
		{
			name: "слот занят",
			setup: func(env *appointmentTestEnv) {
				env.confirmed(t, "2026-09-07", "09:00")
			},
			dto:     domain.CreateAppointmentDTO{DoctorID: 1, Date: "2026-09-07", StartTime: "09:00", Reason: "x"},
			wantErr: domain.ErrSlotTaken,
		},
		{
			name: "выходной врача",
			setup: func(env *appointmentTestEnv) {
				env.holidays.Create(ctx, 1, domain.CreateHolidayDTO{Date: "2026-09-07"})
			},
			dto:     domain.CreateAppointmentDTO{DoctorID: 1, Date: "2026-09-07", StartTime: "09:00", Reason: "x"},
			wantErr: domain.ErrDoctorOnHoliday,
		},
		{
			name:    "день без расписания",
			dto:     domain.CreateAppointmentDTO{DoctorID: 1, Date: "2026-09-08", StartTime: "09:00", Reason: "x"},
			wantErr: domain.ErrDayUnavailable,
		},
		{
			name:    "время вне окна расписания",
			dto:     domain.CreateAppointmentDTO{DoctorID: 1, Date: "2026-09-07", StartTime: "12:00", Reason: "x"},
			wantErr: domain.ErrOutsideSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newAppointmentTestEnv(t, testNow)
			if tt.setup != nil {
				tt.setup(env)
			}

			_, err := env.svc.Book(ctx, 10, tt.dto)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Book() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBook_PatientNotFound(t *testing.T) {
	env := newAppointmentTestEnv(t, testNow)

	_, err := env.svc.Book(context.Background(), 555, domain.CreateAppointmentDTO{
		DoctorID: 1, Date: "2026-09-07", StartTime: "09:00", Reason: "x",
	})
	if !errors.Is(err, domain.ErrPatientNotFound) {
		t.Errorf("Book() error = %v, want ErrPatientNotFound", err)
	}
}

func TestReschedule(t *testing.T) {
	ctx := context.Background()
	env := newAppointmentTestEnv(t, testNow)
	appointment := env.confirmed(t, "2026-09-07", "09:00")

	updated, err := env.svc.Reschedule(ctx, appointment.ID, domain.RescheduleAppointmentDTO{
		Date:      "2026-09-09",
		StartTime: "10:00",
	})
	if err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}

	if updated.Date != "2026-09-09" || updated.StartTime != "10:00" {
		t.Errorf("перенесено на %s %s, want 2026-09-09 10:00", updated.Date, updated.StartTime)
	}
	if updated.EndTime != "10:30" {
		t.Errorf("EndTime = %s, want 10:30", updated.EndTime)
	}
	if updated.Status != domain.AppointmentStatusPending {
		t.Errorf("Status = %s, перенесенная запись должна заново ожидать подтверждения", updated.Status)
	}
	if updated.RescheduleCount != 1 {
		t.Errorf("RescheduleCount = %d, want 1", updated.RescheduleCount)
	}
	if updated.RescheduledAt == nil {
		t.Error("RescheduledAt не заполнен")
	}
	if updated.OriginalDate == nil || *updated.OriginalDate != "2026-09-07" {
		t.Errorf("OriginalDate = %v, want 2026-09-07", updated.OriginalDate)
	}
	if updated.OriginalStartTime == nil || *updated.OriginalStartTime != "09:00" {
		t.Errorf("OriginalStartTime = %v, want 09:00", updated.OriginalStartTime)
	}
}

// Снимок исходного слота делается при первом переносе и не перезаписывается
// последующими.
func TestReschedule_OriginalSlotPreserved(t *testing.T) {
	ctx := context.Background()
	env := newAppointmentTestEnv(t, testNow)
	appointment := env.confirmed(t, "2026-09-07", "09:00")

	if _, err := env.svc.Reschedule(ctx, appointment.ID, domain.RescheduleAppointmentDTO{
		Date: "2026-09-09", StartTime: "10:00",
	}); err != nil {
		t.Fatalf("первый перенос: %v", err)
	}

	// Перед следующим переносом врач снова подтверждает запись.
	if err := env.repo.UpdateStatus(ctx, appointment.ID, domain.AppointmentStatusConfirmed); err != nil {
		t.Fatal(err)
	}

	updated, err := env.svc.Reschedule(ctx, appointment.ID, domain.RescheduleAppointmentDTO{
		Date: "2026-09-14", StartTime: "11:00",
	})
	if err != nil {
		t.Fatalf("второй перенос: %v", err)
	}

	if updated.RescheduleCount != 2 {
		t.Errorf("RescheduleCount = %d, want 2", updated.RescheduleCount)
	}
	if updated.OriginalDate == nil || *updated.OriginalDate != "2026-09-07" {
		t.Errorf("OriginalDate = %v, снимок первого переноса потерян", updated.OriginalDate)
	}
	if updated.OriginalStartTime == nil || *updated.OriginalStartTime != "09:00" {
		t.Errorf("OriginalStartTime = %v, снимок первого переноса потерян", updated.OriginalStartTime)
	}
}

func TestReschedule_LimitReached(t *testing.T) {
	ctx := context.Background()
	env := newAppointmentTestEnv(t, testNow)
	appointment := env.confirmed(t, "2026-09-07", "09:00")

	targets := []struct {
		date      string
		startTime string
	}{
		{"2026-09-09", "09:00"},
		{"2026-09-14", "09:30"},
		{"2026-09-09", "10:00"},
	}

	for i, target := range targets {
		if _, err := env.svc.Reschedule(ctx, appointment.ID, domain.RescheduleAppointmentDTO{
			Date: target.date, StartTime: target.startTime,
		}); err != nil {
			t.Fatalf("перенос %d: %v", i+1, err)
		}
		if err := env.repo.UpdateStatus(ctx, appointment.ID, domain.AppointmentStatusConfirmed); err != nil {
			t.Fatal(err)
		}
	}

	_, err := env.svc.Reschedule(ctx, appointment.ID, domain.RescheduleAppointmentDTO{
		Date: "2026-09-14", StartTime: "11:00",
	})
	if !errors.Is(err, domain.ErrRescheduleLimitReached) {
		t.Errorf("четвертый перенос: error = %v, want ErrRescheduleLimitReached", err)
	}
}

func TestReschedule_Rejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		now     time.Time
		setup   func(env *appointmentTestEnv) int64
		dto     domain.RescheduleAppointmentDTO
		wantErr error
	}{
		{
			name: "запись не найдена",
			now:  testNow,
			setup: func(env *appointmentTestEnv) int64 {
				return 404
			},
			dto:     domain.RescheduleAppointmentDTO{Date: "2026-09-09", StartTime: "10:00"},
			wantErr: domain.ErrAppointmentNotFound,
		},
		{
			name: "перенести можно только подтвержденную запись",
			now:  testNow,
			setup: func(env *appointmentTestEnv) int64 {
				a := env.repo.add(domain.Appointment{
					PatientID: 10, DoctorID: 1,
					Date: "2026-09-07", StartTime: "09:00", EndTime: "09:30",
					Status: domain.AppointmentStatusPending,
				})
				return a.ID
			},
			dto:     domain.RescheduleAppointmentDTO{Date: "2026-09-09", StartTime: "10:00"},
			wantErr: domain.ErrRescheduleNotAllowed,
		},
		{
			name: "запись уже прошла",
			now:  time.Date(2026, 9, 8, 10, 0, 0, 0, time.Local),
			setup: func(env *appointmentTestEnv) int64 {
				return env.confirmed(t, "2026-09-07", "09:00").ID
			},
			dto:     domain.RescheduleAppointmentDTO{Date: "2026-09-09", StartTime: "10:00"},
			wantErr: domain.ErrAppointmentAlreadyPassed,
		},
		{
			name: "запись на сегодня",
			now:  time.Date(2026, 9, 7, 8, 0, 0, 0, time.Local),
			setup: func(env *appointmentTestEnv) int64 {
				return env.confirmed(t, "2026-09-07", "09:00").ID
			},
			dto:     domain.RescheduleAppointmentDTO{Date: "2026-09-09", StartTime: "10:00"},
			wantErr: domain.ErrSameDayReschedule,
		},
		{
			name: "перенос на сегодня",
			now:  time.Date(2026, 9, 2, 8, 0, 0, 0, time.Local),
			setup: func(env *appointmentTestEnv) int64 {
				return env.confirmed(t, "2026-09-07", "09:00").ID
			},
			dto:     domain.RescheduleAppointmentDTO{Date: "2026-09-02", StartTime: "10:00"},
			wantErr: domain.ErrSameDayReschedule,
		},
		{
			name: "до приема менее четырех часов",
			now:  time.Date(2026, 9, 6, 23, 0, 0, 0, time.Local),
			setup: func(env *appointmentTestEnv) int64 {
				return env.confirmed(t, "2026-09-07", "01:00").ID
			},
			dto:     domain.RescheduleAppointmentDTO{Date: "2026-09-09", StartTime: "10:00"},
			wantErr: domain.ErrInsufficientLeadTime,
		},
		{
			name: "перенос на прошедшую дату",
			now:  testNow,
			setup: func(env *appointmentTestEnv) int64 {
				return env.confirmed(t, "2026-09-07", "09:00").ID
			},
			dto:     domain.RescheduleAppointmentDTO{Date: "2026-08-24", StartTime: "10:00"},
			wantErr: domain.ErrPastDateForbidden,
		},
		{
			name: "неверный формат даты",
			now:  testNow,
			setup: func(env *appointmentTestEnv) int64 {
				return env.confirmed(t, "2026-09-07", "09:00").ID
			},
			dto:     domain.RescheduleAppointmentDTO{Date: "09.09.2026", StartTime: "10:00"},
			wantErr: domain.ErrBadDateFormat,
		},
		{
			name: "перенос на выходной врача",
			now:  testNow,
			setup: func(env *appointmentTestEnv) int64 {
				env.holidays.Create(ctx, 1, domain.CreateHolidayDTO{Date: "2026-09-09"})
				return env.confirmed(t, "2026-09-07", "09:00").ID
			},
			dto:     domain.RescheduleAppointmentDTO{Date: "2026-09-09", StartTime: "10:00"},
			wantErr: domain.ErrDoctorOnHoliday,
		},
		{
			name: "перенос вне расписания",
			now:  testNow,
			setup: func(env *appointmentTestEnv) int64 {
				return env.confirmed(t, "2026-09-07", "09:00").ID
			},
			dto:     domain.RescheduleAppointmentDTO{Date: "2026-09-09", StartTime: "15:00"},
			wantErr: domain.ErrOutsideSchedule,
		},
		{
			name: "целевой слот занят",
			now:  testNow,
			setup: func(env *appointmentTestEnv) int64 {
				env.confirmed(t, "2026-09-09", "10:00")
				return env.confirmed(t, "2026-09-07", "09:00").ID
			},
			dto:     domain.RescheduleAppointmentDTO{Date: "2026-09-09", StartTime: "10:00"},
			wantErr: domain.ErrSlotTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newAppointmentTestEnv(t, tt.now)
			id := tt.setup(env)

			_, err := env.svc.Reschedule(ctx, id, tt.dto)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Reschedule() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// Неудачный перенос не меняет запись.
func TestReschedule_FailedAttemptLeavesAppointmentIntact(t *testing.T) {
	ctx := context.Background()
	env := newAppointmentTestEnv(t, testNow)
	env.confirmed(t, "2026-09-09", "10:00")
	appointment := env.confirmed(t, "2026-09-07", "09:00")

	_, err := env.svc.Reschedule(ctx, appointment.ID, domain.RescheduleAppointmentDTO{
		Date: "2026-09-09", StartTime: "10:00",
	})
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("Reschedule() error = %v, want ErrSlotTaken", err)
	}

	current, err := env.repo.GetByID(ctx, appointment.ID)
	if err != nil {
		t.Fatal(err)
	}
	if current.Date != "2026-09-07" || current.StartTime != "09:00" {
		t.Errorf("запись изменилась: %s %s", current.Date, current.StartTime)
	}
	if current.Status != domain.AppointmentStatusConfirmed {
		t.Errorf("Status = %s, want confirmed", current.Status)
	}
	if current.RescheduleCount != 0 {
		t.Errorf("RescheduleCount = %d, want 0", current.RescheduleCount)
	}
}

// Освобожденный переносом слот снова доступен для записи.
func TestReschedule_FreesOldSlot(t *testing.T) {
	ctx := context.Background()
	env := newAppointmentTestEnv(t, testNow)
	appointment := env.confirmed(t, "2026-09-07", "09:00")

	if _, err := env.svc.Reschedule(ctx, appointment.ID, domain.RescheduleAppointmentDTO{
		Date: "2026-09-09", StartTime: "10:00",
	}); err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}

	booked, err := env.svc.Book(ctx, 10, domain.CreateAppointmentDTO{
		DoctorID: 1, Date: "2026-09-07", StartTime: "09:00", Reason: "x",
	})
	if err != nil {
		t.Fatalf("Book() на освобожденный слот: %v", err)
	}
	if booked.StartTime != "09:00" {
		t.Errorf("StartTime = %s, want 09:00", booked.StartTime)
	}
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("подтверждение и завершение", func(t *testing.T) {
		env := newAppointmentTestEnv(t, testNow)
		a := env.repo.add(domain.Appointment{
			PatientID: 10, DoctorID: 1,
			Date: "2026-09-07", StartTime: "09:00", EndTime: "09:30",
			Status: domain.AppointmentStatusPending,
		})

		if err := env.svc.Confirm(ctx, a.ID); err != nil {
			t.Fatalf("Confirm() error = %v", err)
		}

		notes := "все в порядке"
		if err := env.svc.Complete(ctx, a.ID, &notes); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}

		current, _ := env.repo.GetByID(ctx, a.ID)
		if current.Status != domain.AppointmentStatusCompleted {
			t.Errorf("Status = %s, want completed", current.Status)
		}
		if current.Notes == nil || *current.Notes != notes {
			t.Errorf("Notes = %v, want %q", current.Notes, notes)
		}
	})

	t.Run("завершить неподтвержденную нельзя", func(t *testing.T) {
		env := newAppointmentTestEnv(t, testNow)
		a := env.repo.add(domain.Appointment{
			PatientID: 10, DoctorID: 1,
			Date: "2026-09-07", StartTime: "09:00", EndTime: "09:30",
			Status: domain.AppointmentStatusPending,
		})

		if err := env.svc.Complete(ctx, a.ID, nil); !errors.Is(err, domain.ErrInvalidStatusTransition) {
			t.Errorf("Complete() error = %v, want ErrInvalidStatusTransition", err)
		}
	})

	t.Run("завершенная запись неизменяема", func(t *testing.T) {
		env := newAppointmentTestEnv(t, testNow)
		a := env.repo.add(domain.Appointment{
			PatientID: 10, DoctorID: 1,
			Date: "2026-09-07", StartTime: "09:00", EndTime: "09:30",
			Status: domain.AppointmentStatusCompleted,
		})

		if err := env.svc.Confirm(ctx, a.ID); !errors.Is(err, domain.ErrInvalidStatusTransition) {
			t.Errorf("Confirm() error = %v, want ErrInvalidStatusTransition", err)
		}
		if err := env.svc.Cancel(ctx, a.ID); !errors.Is(err, domain.ErrInvalidStatusTransition) {
			t.Errorf("Cancel() error = %v, want ErrInvalidStatusTransition", err)
		}
	})

	t.Run("отмена освобождает слот", func(t *testing.T) {
		env := newAppointmentTestEnv(t, testNow)
		a := env.confirmed(t, "2026-09-07", "09:00")

		if err := env.svc.Cancel(ctx, a.ID); err != nil {
			t.Fatalf("Cancel() error = %v", err)
		}

		if _, err := env.svc.Book(ctx, 10, domain.CreateAppointmentDTO{
			DoctorID: 1, Date: "2026-09-07", StartTime: "09:00", Reason: "x",
		}); err != nil {
			t.Errorf("Book() на освобожденный слот: %v", err)
		}
	})

	t.Run("отклонение ожидающей записи", func(t *testing.T) {
		env := newAppointmentTestEnv(t, testNow)
		a := env.repo.add(domain.Appointment{
			PatientID: 10, DoctorID: 1,
			Date: "2026-09-07", StartTime: "09:00", EndTime: "09:30",
			Status: domain.AppointmentStatusPending,
		})

		if err := env.svc.Reject(ctx, a.ID); err != nil {
			t.Fatalf("Reject() error = %v", err)
		}

		current, _ := env.repo.GetByID(ctx, a.ID)
		if current.Status != domain.AppointmentStatusRejected {
			t.Errorf("Status = %s, want rejected", current.Status)
		}
	})
}

package service

import (
	"context"
	"errors"
	"sort"

	"klinika/internal/domain"
)

var errSessionNotFound = errors.New("сессия не найдена")

// Фейки репозиториев для тестов бизнес-логики без базы данных.

type fakeScheduleRepo struct {
	windows map[int64]domain.ScheduleWindow
	nextID  int64
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{windows: make(map[int64]domain.ScheduleWindow)}
}

func (r *fakeScheduleRepo) Create(_ context.Context, window domain.ScheduleWindow) (int64, error) {
	r.nextID++
	window.ID = r.nextID
	r.windows[window.ID] = window
	return window.ID, nil
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, id int64) (*domain.ScheduleWindow, error) {
	window, ok := r.windows[id]
	if !ok {
		return nil, domain.ErrScheduleNotFound
	}
	return &window, nil
}

func (r *fakeScheduleRepo) Update(_ context.Context, window domain.ScheduleWindow) error {
	if _, ok := r.windows[window.ID]; !ok {
		return domain.ErrScheduleNotFound
	}
	r.windows[window.ID] = window
	return nil
}

func (r *fakeScheduleRepo) Delete(_ context.Context, id int64) error {
	delete(r.windows, id)
	return nil
}

func (r *fakeScheduleRepo) List(_ context.Context, filter domain.ScheduleFilter) ([]domain.ScheduleWindow, error) {
	result := make([]domain.ScheduleWindow, 0)
	for _, window := range r.windows {
		if filter.DoctorID != nil && window.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.DayOfWeek != nil && window.DayOfWeek != *filter.DayOfWeek {
			continue
		}
		result = append(result, window)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeScheduleRepo) GetActiveByDoctorAndDay(_ context.Context, doctorID int64, dayOfWeek int) ([]domain.ScheduleWindow, error) {
	result := make([]domain.ScheduleWindow, 0)
	for _, window := range r.windows {
		if window.DoctorID == doctorID && window.DayOfWeek == dayOfWeek && window.IsAvailable {
			result = append(result, window)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime < result[j].StartTime })
	return result, nil
}

type fakeHolidayRepo struct {
	holidays map[int64]domain.Holiday
	nextID   int64
}

func newFakeHolidayRepo() *fakeHolidayRepo {
	return &fakeHolidayRepo{holidays: make(map[int64]domain.Holiday)}
}

func (r *fakeHolidayRepo) Create(_ context.Context, doctorID int64, dto domain.CreateHolidayDTO) (int64, error) {
	r.nextID++
	r.holidays[r.nextID] = domain.Holiday{
		ID:       r.nextID,
		DoctorID: doctorID,
		Date:     dto.Date,
		Reason:   dto.Reason,
	}
	return r.nextID, nil
}

func (r *fakeHolidayRepo) GetByID(_ context.Context, id int64) (*domain.Holiday, error) {
	holiday, ok := r.holidays[id]
	if !ok {
		return nil, domain.ErrHolidayNotFound
	}
	return &holiday, nil
}

func (r *fakeHolidayRepo) GetByDoctorAndDate(_ context.Context, doctorID int64, date string) (*domain.Holiday, error) {
	for _, holiday := range r.holidays {
		if holiday.DoctorID == doctorID && holiday.Date == date {
			h := holiday
			return &h, nil
		}
	}
	return nil, nil
}

func (r *fakeHolidayRepo) Delete(_ context.Context, id int64) error {
	delete(r.holidays, id)
	return nil
}

func (r *fakeHolidayRepo) List(_ context.Context, filter domain.HolidayFilter) ([]domain.Holiday, error) {
	result := make([]domain.Holiday, 0)
	for _, holiday := range r.holidays {
		if filter.DoctorID != nil && holiday.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.FromDate != nil && holiday.Date < *filter.FromDate {
			continue
		}
		result = append(result, holiday)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date < result[j].Date })
	return result, nil
}

type fakeAppointmentRepo struct {
	appointments map[int64]*domain.Appointment
	nextID       int64
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[int64]*domain.Appointment)}
}

func (r *fakeAppointmentRepo) add(a domain.Appointment) *domain.Appointment {
	r.nextID++
	a.ID = r.nextID
	r.appointments[a.ID] = &a
	return &a
}

func (r *fakeAppointmentRepo) slotConflict(doctorID int64, date, startTime string, excludeID int64) bool {
	for _, a := range r.appointments {
		if a.ID == excludeID {
			continue
		}
		if a.DoctorID == doctorID && a.Date == date && a.StartTime == startTime && a.Status.IsActive() {
			return true
		}
	}
	return false
}

func (r *fakeAppointmentRepo) CreateBooked(_ context.Context, patientID int64, dto domain.CreateAppointmentDTO, endTime string) (int64, error) {
	if r.slotConflict(dto.DoctorID, dto.Date, dto.StartTime, 0) {
		return 0, domain.ErrSlotTaken
	}
	created := r.add(domain.Appointment{
		PatientID: patientID,
		DoctorID:  dto.DoctorID,
		Date:      dto.Date,
		StartTime: dto.StartTime,
		EndTime:   endTime,
		Status:    domain.AppointmentStatusPending,
		Reason:    dto.Reason,
	})
	return created.ID, nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) FindActiveSlots(_ context.Context, doctorID int64, date string) ([]domain.BookedSlot, error) {
	slots := make([]domain.BookedSlot, 0)
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && a.Date == date && a.Status.IsActive() {
			slots = append(slots, domain.BookedSlot{StartTime: a.StartTime, Status: a.Status})
		}
	}
	return slots, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	a, ok := r.appointments[id]
	if !ok {
		return domain.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

func (r *fakeAppointmentRepo) UpdateNotes(_ context.Context, id int64, notes string) error {
	a, ok := r.appointments[id]
	if !ok {
		return domain.ErrAppointmentNotFound
	}
	a.Notes = &notes
	return nil
}

func (r *fakeAppointmentRepo) Reschedule(_ context.Context, id int64, upd domain.RescheduleUpdate) error {
	a, ok := r.appointments[id]
	if !ok {
		return domain.ErrAppointmentNotFound
	}
	if r.slotConflict(a.DoctorID, upd.Date, upd.StartTime, id) {
		return domain.ErrSlotTaken
	}

	a.Date = upd.Date
	a.StartTime = upd.StartTime
	a.EndTime = upd.EndTime
	a.Status = upd.Status
	rescheduledAt := upd.RescheduledAt
	a.RescheduledAt = &rescheduledAt
	a.RescheduleReason = upd.RescheduleReason
	if upd.OriginalDate != nil {
		a.OriginalDate = upd.OriginalDate
		a.OriginalStartTime = upd.OriginalStartTime
		a.OriginalEndTime = upd.OriginalEndTime
	}
	a.RescheduleCount++
	return nil
}

func (r *fakeAppointmentRepo) List(_ context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	result := make([]domain.Appointment, 0)
	for _, a := range r.appointments {
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		if filter.DoctorID != nil && a.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeAppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	list, err := r.List(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

type fakeDoctorRepo struct {
	doctors map[int64]*domain.Doctor
}

func newFakeDoctorRepo(doctors ...domain.Doctor) *fakeDoctorRepo {
	r := &fakeDoctorRepo{doctors: make(map[int64]*domain.Doctor)}
	for i := range doctors {
		d := doctors[i]
		r.doctors[d.ID] = &d
	}
	return r
}

func (r *fakeDoctorRepo) Create(_ context.Context, userID int64, dto domain.CreateDoctorDTO) (int64, error) {
	id := int64(len(r.doctors) + 1)
	r.doctors[id] = &domain.Doctor{ID: id, UserID: userID, Specialty: dto.Specialty}
	return id, nil
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, id int64) (*domain.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, domain.ErrDoctorNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *fakeDoctorRepo) GetByUserID(_ context.Context, userID int64) (*domain.Doctor, error) {
	for _, d := range r.doctors {
		if d.UserID == userID {
			copied := *d
			return &copied, nil
		}
	}
	return nil, domain.ErrDoctorNotFound
}

func (r *fakeDoctorRepo) Update(_ context.Context, id int64, dto domain.UpdateDoctorDTO) error {
	d, ok := r.doctors[id]
	if !ok {
		return domain.ErrDoctorNotFound
	}
	if dto.Specialty != nil {
		d.Specialty = *dto.Specialty
	}
	return nil
}

func (r *fakeDoctorRepo) SetApproved(_ context.Context, id int64, approved bool) error {
	d, ok := r.doctors[id]
	if !ok {
		return domain.ErrDoctorNotFound
	}
	d.IsApproved = approved
	return nil
}

func (r *fakeDoctorRepo) UpdateProfilePhoto(_ context.Context, id int64, photoURL string) error {
	d, ok := r.doctors[id]
	if !ok {
		return domain.ErrDoctorNotFound
	}
	d.ProfilePhotoURL = photoURL
	return nil
}

func (r *fakeDoctorRepo) List(_ context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error) {
	result := make([]domain.Doctor, 0)
	for _, d := range r.doctors {
		if filter.ApprovedOnly && !d.IsApproved {
			continue
		}
		result = append(result, *d)
	}
	return result, len(result), nil
}

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func newFakeUserRepo(users ...domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user domain.CreateUserDTO, passwordHash string) (int64, error) {
	id := int64(len(r.users) + 1)
	r.users[id] = &domain.User{
		ID:           id,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Phone:        user.Phone,
		PasswordHash: passwordHash,
		Role:         user.Role,
		IsActive:     true,
	}
	return id, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrPatientNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrPatientNotFound
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Phone == phone {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrPatientNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, id int64, user domain.UpdateUserDTO) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrPatientNotFound
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrPatientNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, limit, offset int) ([]domain.User, error) {
	result := make([]domain.User, 0)
	for _, u := range r.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fakeAuthRepo struct {
	sessions map[string]domain.Session
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{sessions: make(map[string]domain.Session)}
}

func (r *fakeAuthRepo) CreateSession(_ context.Context, session domain.Session) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeAuthRepo) GetSessionByRefreshToken(_ context.Context, refreshToken string) (*domain.Session, error) {
	for _, session := range r.sessions {
		if session.RefreshToken == refreshToken {
			s := session
			return &s, nil
		}
	}
	return nil, errSessionNotFound
}

func (r *fakeAuthRepo) DeleteSession(_ context.Context, id string) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeAuthRepo) DeleteSessionsByUserID(_ context.Context, userID int64) error {
	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

type fakeNotifier struct {
	sent []domain.CreateNotificationDTO
}

func (n *fakeNotifier) Notify(_ context.Context, dto domain.CreateNotificationDTO) {
	n.sent = append(n.sent, dto)
}

func (n *fakeNotifier) ListByUser(_ context.Context, userID int64, limit, offset int) ([]domain.Notification, error) {
	return nil, nil
}

func (n *fakeNotifier) MarkRead(_ context.Context, id, userID int64) error {
	return nil
}

func (n *fakeNotifier) CountUnread(_ context.Context, userID int64) (int, error) {
	return 0, nil
}

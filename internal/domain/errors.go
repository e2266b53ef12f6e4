package domain

import (
	"errors"
)

// Ожидаемые бизнес-ошибки. Транспортный слой сопоставляет их с 4xx-ответами
// через errors.Is, всё остальное считается инфраструктурной ошибкой (500).
var (
	ErrDoctorNotFound  = errors.New("врач не найден или не подтвержден")
	ErrPatientNotFound = errors.New("пациент не найден")

	ErrAppointmentNotFound = errors.New("запись на прием не найдена")

	// Причины недоступности слота различаются, чтобы фронтенд мог показать
	// точную подсказку у поля даты/времени.
	ErrSlotTaken       = errors.New("выбранный слот времени уже занят")
	ErrDayUnavailable  = errors.New("врач не принимает в выбранный день")
	ErrDoctorOnHoliday = errors.New("врач недоступен: выходной день")
	ErrOutsideSchedule = errors.New("выбранное время вне расписания врача")

	ErrRescheduleNotAllowed     = errors.New("перенести можно только подтвержденную запись")
	ErrRescheduleLimitReached   = errors.New("исчерпан лимит переносов записи")
	ErrAppointmentAlreadyPassed = errors.New("запись уже прошла")
	ErrSameDayReschedule        = errors.New("запись на сегодня перенести нельзя")
	ErrInsufficientLeadTime     = errors.New("до приема осталось менее 4 часов, перенос невозможен")
	ErrPastDateForbidden        = errors.New("нельзя выбрать прошедшую дату")

	ErrInvalidStatusTransition = errors.New("недопустимая смена статуса записи")

	ErrHolidayExists    = errors.New("выходной на эту дату уже добавлен")
	ErrHolidayInPast    = errors.New("выходной можно добавить только на будущую дату")
	ErrHolidayNotFound  = errors.New("выходной не найден")
	ErrScheduleNotFound = errors.New("окно расписания не найдено")
	ErrInvalidTimeRange = errors.New("время окончания должно быть позже времени начала")

	ErrBadDateFormat = errors.New("неверный формат даты, ожидается YYYY-MM-DD")
	ErrBadTimeFormat = errors.New("неверный формат времени, ожидается HH:MM")
)

// IsNotFound сообщает, что запрошенная сущность отсутствует.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDoctorNotFound) ||
		errors.Is(err, ErrPatientNotFound) ||
		errors.Is(err, ErrAppointmentNotFound) ||
		errors.Is(err, ErrHolidayNotFound) ||
		errors.Is(err, ErrScheduleNotFound)
}

// IsSlotUnavailable группирует причины, по которым слот нельзя занять.
func IsSlotUnavailable(err error) bool {
	return errors.Is(err, ErrSlotTaken) ||
		errors.Is(err, ErrDayUnavailable) ||
		errors.Is(err, ErrDoctorOnHoliday) ||
		errors.Is(err, ErrOutsideSchedule)
}

// IsValidationError сообщает, что ошибка — ожидаемый отказ бизнес-правил,
// а не сбой инфраструктуры.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrDoctorNotFound),
		errors.Is(err, ErrPatientNotFound),
		errors.Is(err, ErrAppointmentNotFound),
		errors.Is(err, ErrRescheduleNotAllowed),
		errors.Is(err, ErrRescheduleLimitReached),
		errors.Is(err, ErrAppointmentAlreadyPassed),
		errors.Is(err, ErrSameDayReschedule),
		errors.Is(err, ErrInsufficientLeadTime),
		errors.Is(err, ErrPastDateForbidden),
		errors.Is(err, ErrInvalidStatusTransition),
		errors.Is(err, ErrHolidayExists),
		errors.Is(err, ErrHolidayInPast),
		errors.Is(err, ErrHolidayNotFound),
		errors.Is(err, ErrScheduleNotFound),
		errors.Is(err, ErrInvalidTimeRange),
		errors.Is(err, ErrBadDateFormat),
		errors.Is(err, ErrBadTimeFormat):
		return true
	}
	return IsSlotUnavailable(err)
}

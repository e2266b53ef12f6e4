package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// ParseDate разбирает дату формата YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// ParseTime разбирает время формата HH:MM (24 часа).
// time.Parse принимает час без ведущего нуля, поэтому дополнительно
// сверяем значение с канонической записью.
func ParseTime(value string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	if t.Format(TimeLayout) != value {
		return time.Time{}, fmt.Errorf("некорректное время %q, ожидается формат HH:MM", value)
	}
	return t, nil
}

func ValidateDate(value string) bool {
	_, err := ParseDate(value)
	return err == nil
}

func ValidateTime(value string) bool {
	_, err := ParseTime(value)
	return err == nil
}

// ValidateTimeRange проверяет, что оба значения корректны и начало
// строго раньше окончания.
func ValidateTimeRange(start, end string) bool {
	startT, err := ParseTime(start)
	if err != nil {
		return false
	}
	endT, err := ParseTime(end)
	if err != nil {
		return false
	}
	return startT.Before(endT)
}

// AddMinutes прибавляет минуты к времени формата HH:MM и возвращает
// результат в том же формате.
func AddMinutes(value string, minutes int) (string, error) {
	t, err := ParseTime(value)
	if err != nil {
		return "", err
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format(TimeLayout), nil
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidatePhone(phone string) bool {
	cleanPhone := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		return -1
	}, phone)

	return phoneRegex.MatchString(cleanPhone)
}

func ValidatePassword(password string) bool {
	return len(password) >= 6
}

func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '<' || r == '>' || r == '&' || r == '"' || r == '\'' || r == '`' || r == ';' {
			return -1
		}
		return r
	}, s)
}

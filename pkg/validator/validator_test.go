package validator

import "testing"

func TestValidateDate(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"2026-09-07", true},
		{"2026-02-29", false},
		{"07.09.2026", false},
		{"2026-9-7", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateDate(tt.value); got != tt.want {
			t.Errorf("ValidateDate(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestValidateTime(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"09:00", true},
		{"23:59", true},
		{"24:00", false},
		{"9:00", false},
		{"09:60", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateTime(tt.value); got != tt.want {
			t.Errorf("ValidateTime(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestValidateTimeRange(t *testing.T) {
	tests := []struct {
		start string
		end   string
		want  bool
	}{
		{"09:00", "12:00", true},
		{"09:00", "09:00", false},
		{"12:00", "09:00", false},
		{"09:00", "плохое", false},
		{"9:00", "12:00", false},
	}

	for _, tt := range tests {
		if got := ValidateTimeRange(tt.start, tt.end); got != tt.want {
			t.Errorf("ValidateTimeRange(%q, %q) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestAddMinutes(t *testing.T) {
	tests := []struct {
		value   string
		minutes int
		want    string
	}{
		{"09:00", 30, "09:30"},
		{"09:45", 30, "10:15"},
		{"23:45", 30, "00:15"},
	}

	for _, tt := range tests {
		got, err := AddMinutes(tt.value, tt.minutes)
		if err != nil {
			t.Errorf("AddMinutes(%q, %d) error = %v", tt.value, tt.minutes, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AddMinutes(%q, %d) = %q, want %q", tt.value, tt.minutes, got, tt.want)
		}
	}

	for _, bad := range []string{"мусор", "9:00"} {
		if _, err := AddMinutes(bad, 30); err == nil {
			t.Errorf("AddMinutes(%q) должен вернуть ошибку", bad)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "a.b+c@mail.ru"}
	invalid := []string{"", "user", "user@", "@example.com", "user@example"}

	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"+79161234567", "79161234567", "+7 (916) 123-45-67"}
	invalid := []string{"", "12345", "телефон"}

	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Errorf("ValidatePhone(%q) = false, want true", phone)
		}
	}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Errorf("ValidatePhone(%q) = true, want false", phone)
		}
	}
}

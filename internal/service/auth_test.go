package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"klinika/config"
	"klinika/internal/domain"
)

func newTestAuthService(t *testing.T) (*AuthServiceImpl, *fakeUserRepo, *fakeAuthRepo) {
	t.Helper()
	users := newFakeUserRepo()
	sessions := newFakeAuthRepo()

	svc := NewAuthService(sessions, users, config.JWTConfig{
		SigningKey:      "test-signing-key",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
	}, zap.NewNop())

	return svc, users, sessions
}

func TestAuthRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t)

	id, err := svc.Register(ctx, domain.RegisterRequest{
		FirstName: "Иван",
		LastName:  "Петров",
		Email:     "ivan@example.com",
		Phone:     "+79161234567",
		Password:  "secret123",
		Role:      domain.UserRolePatient,
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if id == 0 {
		t.Fatal("ожидался ненулевой ID пользователя")
	}

	tokens, err := svc.Login(ctx, domain.LoginRequest{
		Login:    "ivan@example.com",
		Password: "secret123",
	}, "test-agent", "127.0.0.1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("токены не заполнены")
	}

	userID, role, err := svc.ParseToken(ctx, tokens.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if userID != id {
		t.Errorf("userID = %d, want %d", userID, id)
	}
	if role != domain.UserRolePatient {
		t.Errorf("role = %s, want patient", role)
	}
}

func TestAuthLogin_ByPhone(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(ctx, domain.RegisterRequest{
		FirstName: "Иван", LastName: "Петров",
		Email: "ivan@example.com", Phone: "+79161234567",
		Password: "secret123", Role: domain.UserRolePatient,
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(ctx, domain.LoginRequest{
		Login: "+79161234567", Password: "secret123",
	}, "", ""); err != nil {
		t.Errorf("Login() по телефону: error = %v", err)
	}
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(ctx, domain.RegisterRequest{
		FirstName: "Иван", LastName: "Петров",
		Email: "ivan@example.com", Phone: "+79161234567",
		Password: "secret123", Role: domain.UserRolePatient,
	}); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Login(ctx, domain.LoginRequest{
		Login: "ivan@example.com", Password: "wrong",
	}, "", ""); err == nil {
		t.Error("Login() с неверным паролем должен вернуть ошибку")
	}
}

func TestAuthRefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions := newTestAuthService(t)

	if _, err := svc.Register(ctx, domain.RegisterRequest{
		FirstName: "Иван", LastName: "Петров",
		Email: "ivan@example.com", Phone: "+79161234567",
		Password: "secret123", Role: domain.UserRolePatient,
	}); err != nil {
		t.Fatal(err)
	}

	tokens, err := svc.Login(ctx, domain.LoginRequest{
		Login: "ivan@example.com", Password: "secret123",
	}, "", "")
	if err != nil {
		t.Fatal(err)
	}

	refreshed, err := svc.RefreshTokens(ctx, tokens.RefreshToken, "", "")
	if err != nil {
		t.Fatalf("RefreshTokens() error = %v", err)
	}
	if refreshed.RefreshToken == tokens.RefreshToken {
		t.Error("refresh-токен должен ротироваться")
	}

	// старый токен инвалидирован
	if _, err := svc.RefreshTokens(ctx, tokens.RefreshToken, "", ""); err == nil {
		t.Error("использованный refresh-токен должен быть недействительным")
	}

	if err := svc.Logout(ctx, refreshed.RefreshToken); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Errorf("после выхода осталось %d сессий", len(sessions.sessions))
	}
}

func TestAuthRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuthService(t)

	tests := []struct {
		name string
		req  domain.RegisterRequest
	}{
		{
			name: "некорректный email",
			req: domain.RegisterRequest{
				FirstName: "a", LastName: "b", Email: "плохой",
				Phone: "+79161234567", Password: "secret123", Role: domain.UserRolePatient,
			},
		},
		{
			name: "некорректный телефон",
			req: domain.RegisterRequest{
				FirstName: "a", LastName: "b", Email: "a@b.com",
				Phone: "123", Password: "secret123", Role: domain.UserRolePatient,
			},
		},
		{
			name: "короткий пароль",
			req: domain.RegisterRequest{
				FirstName: "a", LastName: "b", Email: "a@b.com",
				Phone: "+79161234567", Password: "123", Role: domain.UserRolePatient,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tt.req); err == nil {
				t.Error("Register() должен вернуть ошибку валидации")
			}
		})
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"klinika/config"
	"klinika/internal/domain"
	"klinika/internal/repository"
	pkgauth "klinika/pkg/auth"
	"klinika/pkg/validator"
)

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64           `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

type AuthServiceImpl struct {
	authRepo  repository.AuthRepository
	userRepo  repository.UserRepository
	jwtConfig config.JWTConfig
	logger    *zap.Logger
}

func NewAuthService(authRepo repository.AuthRepository, userRepo repository.UserRepository, jwtConfig config.JWTConfig, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		authRepo:  authRepo,
		userRepo:  userRepo,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, dto domain.RegisterRequest) (int64, error) {
	if !validator.ValidateEmail(dto.Email) {
		return 0, errors.New("некорректный email")
	}
	if !validator.ValidatePhone(dto.Phone) {
		return 0, errors.New("некорректный номер телефона")
	}
	if !validator.ValidatePassword(dto.Password) {
		return 0, errors.New("пароль должен содержать не менее 6 символов")
	}

	hash, err := pkgauth.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("ошибка хеширования пароля", zap.Error(err))
		return 0, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	id, err := s.userRepo.Create(ctx, domain.CreateUserDTO{
		FirstName:  dto.FirstName,
		LastName:   dto.LastName,
		MiddleName: dto.MiddleName,
		Email:      dto.Email,
		Phone:      dto.Phone,
		Role:       dto.Role,
	}, hash)
	if err != nil {
		s.logger.Error("ошибка регистрации пользователя", zap.Error(err))
		return 0, err
	}

	return id, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error) {
	var user *domain.User
	var err error

	if strings.Contains(dto.Login, "@") {
		user, err = s.userRepo.GetByEmail(ctx, dto.Login)
	} else {
		user, err = s.userRepo.GetByPhone(ctx, dto.Login)
	}
	if err != nil {
		s.logger.Warn("пользователь не найден при входе", zap.String("login", dto.Login))
		return nil, errors.New("неверный логин или пароль")
	}

	if !user.IsActive {
		return nil, errors.New("учетная запись деактивирована")
	}

	ok, err := pkgauth.VerifyPassword(dto.Password, user.PasswordHash)
	if err != nil || !ok {
		s.logger.Warn("неверный пароль при входе", zap.Int64("userID", user.ID))
		return nil, errors.New("неверный логин или пароль")
	}

	return s.createSession(ctx, user, userAgent, ip)
}

func (s *AuthServiceImpl) RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error) {
	session, err := s.authRepo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("недействительный refresh-токен")
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.authRepo.DeleteSession(ctx, session.ID)
		return nil, errors.New("срок действия сессии истек")
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, errors.New("пользователь не найден")
	}

	if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
		s.logger.Warn("не удалось удалить старую сессию", zap.String("sessionID", session.ID), zap.Error(err))
	}

	return s.createSession(ctx, user, userAgent, ip)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.authRepo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil
	}
	return s.authRepo.DeleteSession(ctx, session.ID)
}

func (s *AuthServiceImpl) ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("неверный метод подписи токена")
		}
		return []byte(s.jwtConfig.SigningKey), nil
	})
	if err != nil {
		return 0, "", errors.New("недействительный токен")
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return 0, "", errors.New("недействительный токен")
	}

	return claims.UserID, claims.Role, nil
}

func (s *AuthServiceImpl) createSession(ctx context.Context, user *domain.User, userAgent, ip string) (*domain.Tokens, error) {
	now := time.Now()

	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: user.ID,
		Role:   user.Role,
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtConfig.SigningKey))
	if err != nil {
		s.logger.Error("ошибка подписи токена", zap.Error(err))
		return nil, fmt.Errorf("ошибка подписи токена: %w", err)
	}

	refreshToken, err := pkgauth.GenerateRandomToken(32)
	if err != nil {
		s.logger.Error("ошибка генерации refresh-токена", zap.Error(err))
		return nil, fmt.Errorf("ошибка генерации refresh-токена: %w", err)
	}

	session := domain.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		UserAgent:    userAgent,
		IP:           ip,
		ExpiresAt:    now.Add(s.jwtConfig.RefreshTokenTTL),
		CreatedAt:    now,
	}

	if err := s.authRepo.CreateSession(ctx, session); err != nil {
		s.logger.Error("ошибка создания сессии", zap.Error(err))
		return nil, fmt.Errorf("ошибка создания сессии: %w", err)
	}

	return &domain.Tokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

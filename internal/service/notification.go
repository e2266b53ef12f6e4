package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"klinika/internal/domain"
	"klinika/internal/repository"
)

type NotificationServiceImpl struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, logger *zap.Logger) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

// Notify создает уведомление по принципу "сделаем, что сможем": сбой
// доставки не должен откатывать уже записанный прием.
func (s *NotificationServiceImpl) Notify(ctx context.Context, dto domain.CreateNotificationDTO) {
	if _, err := s.repo.Create(ctx, dto); err != nil {
		s.logger.Error("ошибка создания уведомления",
			zap.Int64("userID", dto.UserID),
			zap.String("title", dto.Title),
			zap.Error(err))
	}
}

func (s *NotificationServiceImpl) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения уведомлений", zap.Int64("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("ошибка получения уведомлений: %w", err)
	}
	return notifications, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id, userID int64) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		s.logger.Error("ошибка отметки уведомления", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *NotificationServiceImpl) CountUnread(ctx context.Context, userID int64) (int, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("ошибка подсчета уведомлений", zap.Int64("userID", userID), zap.Error(err))
		return 0, fmt.Errorf("ошибка подсчета уведомлений: %w", err)
	}
	return count, nil
}

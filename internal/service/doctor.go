package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"klinika/internal/domain"
	"klinika/internal/repository"
	"klinika/internal/storage"
)

type DoctorServiceImpl struct {
	repo        repository.DoctorRepository
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

func NewDoctorService(
	repo repository.DoctorRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
	logger *zap.Logger,
) *DoctorServiceImpl {
	return &DoctorServiceImpl{
		repo:        repo,
		userRepo:    userRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (s *DoctorServiceImpl) Create(ctx context.Context, userID int64, dto domain.CreateDoctorDTO) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("пользователь не найден при создании профиля врача", zap.Int64("userID", userID), zap.Error(err))
		return 0, errors.New("пользователь не найден")
	}

	if user.Role != domain.UserRoleDoctor {
		return 0, errors.New("профиль врача доступен только пользователям с ролью врача")
	}

	id, err := s.repo.Create(ctx, userID, dto)
	if err != nil {
		s.logger.Error("ошибка создания профиля врача", zap.Error(err))
		return 0, err
	}

	return id, nil
}

func (s *DoctorServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("профиль врача не найден", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return doctor, nil
}

func (s *DoctorServiceImpl) GetByUserID(ctx context.Context, userID int64) (*domain.Doctor, error) {
	doctor, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *DoctorServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateDoctorDTO) error {
	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.logger.Error("ошибка обновления профиля врача", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *DoctorServiceImpl) Approve(ctx context.Context, id int64) error {
	if err := s.repo.SetApproved(ctx, id, true); err != nil {
		s.logger.Error("ошибка подтверждения профиля врача", zap.Int64("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("профиль врача подтвержден", zap.Int64("id", id))
	return nil
}

func (s *DoctorServiceImpl) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error) {
	doctors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка врачей", zap.Error(err))
		return nil, 0, fmt.Errorf("ошибка получения списка врачей: %w", err)
	}
	return doctors, total, nil
}

func (s *DoctorServiceImpl) UploadProfilePhoto(ctx context.Context, doctorID int64, photo []byte, filename string) error {
	if s.fileStorage == nil {
		return errors.New("файловое хранилище не настроено")
	}

	doctor, err := s.repo.GetByID(ctx, doctorID)
	if err != nil {
		return err
	}

	photoURL, err := s.fileStorage.UploadFile(ctx, photo, filename)
	if err != nil {
		s.logger.Error("ошибка загрузки фото профиля", zap.Int64("doctorID", doctorID), zap.Error(err))
		return fmt.Errorf("ошибка загрузки фото профиля: %w", err)
	}

	if doctor.ProfilePhotoURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, doctor.ProfilePhotoURL); err != nil {
			s.logger.Warn("не удалось удалить старое фото профиля", zap.Error(err))
		}
	}

	if err := s.repo.UpdateProfilePhoto(ctx, doctorID, photoURL); err != nil {
		s.logger.Error("ошибка сохранения фото профиля", zap.Int64("doctorID", doctorID), zap.Error(err))
		return err
	}

	return nil
}

package services

import (
	"context"
	"errors"
	"strings"

	"bankingProject/config"
	"bankingProject/models"
	"bankingProject/utils"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// RegisterRequest представляет данные для регистрации пользователя
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Address  string `json:"address" validate:"omitempty,max=255"`
}

// UpdateProfileRequest представляет данные для обновления профиля
type UpdateProfileRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=20"`
	Address string `json:"address" validate:"omitempty,max=255"`
}

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	db        *gorm.DB
	validator *validator.Validate
	hasher    utils.PasswordHasher
	cfg       *config.Config
}

// NewUserService создает новый экземпляр UserService
func NewUserService(db *gorm.DB, cfg *config.Config) *UserService {
	return &UserService{
		db:        db,
		validator: validator.New(),
		hasher:    utils.NewBcryptHasher(),
		cfg:       cfg,
	}
}

// Register регистрирует нового пользователя.
// Пароль сохраняется только в виде bcrypt-хеша.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, ErrInvalidRequest
	}
	if len(req.Password) < s.cfg.Auth.PasswordMinLength {
		return nil, ErrInvalidRequest
	}

	// Хешируем пароль
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, ErrInternal
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		Phone:        req.Phone,
		Address:      req.Address,
	}

	// Уникальность username и email обеспечивает база данных
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(uniqueConstraintName(err), "email") {
				return nil, ErrDuplicateEmail
			}
			return nil, ErrDuplicateUsername
		}
		return nil, mapContextError(ctx, ErrInternal)
	}

	return user, nil
}

// Authenticate проверяет учетные данные пользователя.
// Отсутствие пользователя и неверный пароль неразличимы для вызывающего:
// обе ветки возвращают ErrInvalidCredentials и выполняют проверку bcrypt,
// чтобы время ответа не выдавало существование учетной записи.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.hasher.VerifyDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, mapContextError(ctx, ErrInternal)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// ChangePassword меняет пароль пользователя после проверки старого
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < s.cfg.Auth.PasswordMinLength {
		return ErrInvalidRequest
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return mapContextError(ctx, ErrInternal)
	}

	// Проверяем старый пароль
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return ErrInternal
	}

	if err := s.db.WithContext(ctx).Model(&user).Update("password_hash", hash).Error; err != nil {
		return mapContextError(ctx, ErrInternal)
	}

	return nil
}

// UpdateProfile обновляет email, телефон и адрес пользователя.
// Уникальность email перепроверяется базой данных.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, ErrInvalidRequest
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, mapContextError(ctx, ErrInternal)
	}

	updates := map[string]interface{}{
		"email":   strings.TrimSpace(req.Email),
		"phone":   req.Phone,
		"address": req.Address,
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, mapContextError(ctx, ErrInternal)
	}

	return &user, nil
}

// GetByID возвращает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, mapContextError(ctx, ErrInternal)
	}
	return &user, nil
}

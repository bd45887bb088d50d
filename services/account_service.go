package services

import (
	"context"
	"errors"
	"time"

	"bankingProject/config"
	"bankingProject/models"
	"bankingProject/utils"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateAccountRequest представляет данные для создания счета
type CreateAccountRequest struct {
	AccountType    string          `json:"accountType" validate:"required,min=2,max=50"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Currency       string          `json:"currency" validate:"omitempty,len=3"`
}

// AccountService предоставляет методы для работы со счетами
type AccountService struct {
	db        *gorm.DB
	validator *validator.Validate
	cfg       *config.Config
}

// NewAccountService создает новый экземпляр AccountService
func NewAccountService(db *gorm.DB, cfg *config.Config) *AccountService {
	return &AccountService{
		db:        db,
		validator: validator.New(),
		cfg:       cfg,
	}
}

// generateAccountNumber генерирует номер счета: "ACC" + 10 цифр.
// Источник — криптографический ГСЧ, равномерно на [10^9, 10^10).
func generateAccountNumber() (string, error) {
	digits, err := utils.GenerateRandomDigits(10)
	if err != nil {
		return "", err
	}
	return "ACC" + digits, nil
}

// CreateAccount создает новый счет со статусом ACTIVE.
// Уникальность номера обеспечивает уникальное ограничение в базе;
// при коллизии номер перегенерируется ограниченное число раз.
func (s *AccountService) CreateAccount(ctx context.Context, ownerID uint, req CreateAccountRequest) (*models.Account, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, ErrInvalidRequest
	}
	if req.InitialBalance.IsNegative() || !hasCentPrecision(req.InitialBalance) {
		return nil, ErrInvalidRequest
	}

	// Проверяем, что владелец существует
	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, mapContextError(ctx, ErrInternal)
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	for attempt := 0; attempt < s.cfg.AccountNumber.RetryLimit; attempt++ {
		number, err := generateAccountNumber()
		if err != nil {
			return nil, ErrInternal
		}

		account := &models.Account{
			UserID:        ownerID,
			AccountNumber: number,
			AccountType:   req.AccountType,
			Balance:       req.InitialBalance.Round(2),
			Currency:      currency,
			Status:        models.AccountStatusActive,
			CreatedAt:     time.Now().UTC(),
			UpdatedAt:     time.Now().UTC(),
		}

		err = s.db.WithContext(ctx).Create(account).Error
		if err == nil {
			return account, nil
		}
		// При коллизии номера пробуем еще раз с новым числом
		if isUniqueViolation(err) {
			continue
		}
		return nil, mapContextError(ctx, ErrInternal)
	}

	return nil, ErrInternal
}

// GetByNumber возвращает счет по его номеру
func (s *AccountService) GetByNumber(ctx context.Context, number string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("account_number = ?", number).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, mapContextError(ctx, ErrInternal)
	}
	return &account, nil
}

// GetOwnedByNumber возвращает счет по номеру, если он принадлежит вызывающему.
// Чужой счет неотличим от несуществующего.
func (s *AccountService) GetOwnedByNumber(ctx context.Context, number string, callerID uint) (*models.Account, error) {
	account, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := authorizeAccount(account, callerID); err != nil {
		return nil, err
	}
	return account, nil
}

// ListActiveByOwner возвращает активные счета пользователя,
// упорядоченные по дате создания
func (s *AccountService) ListActiveByOwner(ctx context.Context, ownerID uint) ([]models.Account, error) {
	var accounts []models.Account
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", ownerID, models.AccountStatusActive).
		Order("created_at ASC").
		Find(&accounts).Error
	if err != nil {
		return nil, mapContextError(ctx, ErrInternal)
	}

	if len(accounts) == 0 {
		return []models.Account{}, nil
	}
	return accounts, nil
}

// ValidateStatusTransition проверяет допустимость смены статуса счета.
// Разрешено: ACTIVE→CLOSED, ACTIVE→FROZEN, FROZEN→ACTIVE. CLOSED терминален.
func ValidateStatusTransition(from, to models.AccountStatus) error {
	switch {
	case from == models.AccountStatusActive && to == models.AccountStatusClosed:
		return nil
	case from == models.AccountStatusActive && to == models.AccountStatusFrozen:
		return nil
	case from == models.AccountStatusFrozen && to == models.AccountStatusActive:
		return nil
	}
	return ErrIllegalTransition
}

// SetStatus меняет статус счета владельца с проверкой допустимых переходов
func (s *AccountService) SetStatus(ctx context.Context, number string, callerID uint, newStatus models.AccountStatus) (*models.Account, error) {
	switch newStatus {
	case models.AccountStatusActive, models.AccountStatusClosed, models.AccountStatusFrozen:
	default:
		return nil, ErrInvalidRequest
	}

	start := time.Now()
	var account models.Account
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAccountByNumber(tx, number, &account); err != nil {
			return err
		}
		if err := authorizeAccount(&account, callerID); err != nil {
			return err
		}
		if err := ValidateStatusTransition(account.Status, newStatus); err != nil {
			return err
		}

		account.Status = newStatus
		account.UpdatedAt = time.Now().UTC()
		return tx.Model(&account).
			Updates(map[string]interface{}{"status": newStatus, "updated_at": account.UpdatedAt}).Error
	})
	utils.LogOperation("account status change", start, err)
	if err != nil {
		return nil, s.mapStatusError(ctx, err)
	}

	return &account, nil
}

// mapStatusError нормализует ошибки перехода статуса
func (s *AccountService) mapStatusError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrIllegalTransition):
		return err
	default:
		return mapContextError(ctx, ErrInternal)
	}
}

// hasCentPrecision проверяет, что сумма задана не точнее 2 знаков
func hasCentPrecision(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}

package services

import (
	"context"
	"errors"

	"bankingProject/config"
	"bankingProject/models"

	"gorm.io/gorm"
)

// TransactionPage — страница истории операций по счету
type TransactionPage struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int64                `json:"total"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"pageSize"`
}

// HistoryService предоставляет чтение журнала операций
type HistoryService struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewHistoryService создает новый экземпляр HistoryService
func NewHistoryService(db *gorm.DB, cfg *config.Config) *HistoryService {
	return &HistoryService{db: db, cfg: cfg}
}

// clampPageSize приводит размер страницы к допустимому диапазону.
// Нулевое значение заменяется значением по умолчанию.
func clampPageSize(pageSize, def, max int) int {
	if pageSize == 0 {
		return def
	}
	if pageSize < 1 {
		return 1
	}
	if pageSize > max {
		return max
	}
	return pageSize
}

// clampPage не допускает отрицательный номер страницы
func clampPage(page int) int {
	if page < 0 {
		return 0
	}
	return page
}

// HistoryByNumber возвращает страницу истории по номеру счета.
// Сортировка: по времени фиксации по убыванию, при равенстве — по id
// по убыванию. Страницы нумеруются с нуля.
func (s *HistoryService) HistoryByNumber(ctx context.Context, accountNumber string, callerID uint, page, pageSize int) (*TransactionPage, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("account_number = ?", accountNumber).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, mapContextError(ctx, ErrInternal)
	}
	if err := authorizeAccount(&account, callerID); err != nil {
		return nil, err
	}

	page = clampPage(page)
	pageSize = clampPageSize(pageSize, s.cfg.History.PageSizeDefault, s.cfg.History.PageSizeMax)

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("account_id = ?", account.ID).
		Count(&total).Error; err != nil {
		return nil, mapContextError(ctx, ErrInternal)
	}

	var transactions []models.Transaction
	err := s.db.WithContext(ctx).
		Where("account_id = ?", account.ID).
		Order("timestamp DESC, id DESC").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&transactions).Error
	if err != nil {
		return nil, mapContextError(ctx, ErrInternal)
	}

	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return &TransactionPage{
		Transactions: transactions,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	}, nil
}

// GetTransaction возвращает одну запись журнала.
// Владение проверяется через счет транзакции; чужая запись
// неотличима от несуществующей.
func (s *HistoryService) GetTransaction(ctx context.Context, transactionID uint, callerID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.WithContext(ctx).First(&transaction, transactionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, mapContextError(ctx, ErrInternal)
	}

	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, transaction.AccountID).Error; err != nil {
		return nil, mapContextError(ctx, ErrInternal)
	}
	if account.UserID != callerID {
		return nil, ErrTransactionNotFound
	}

	return &transaction, nil
}

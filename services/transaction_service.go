package services

import (
	"context"
	"errors"
	"time"

	"bankingProject/config"
	"bankingProject/models"
	"bankingProject/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// retryBackoffBase — начальная пауза перед повтором операции
const retryBackoffBase = 25 * time.Millisecond

// TransactionService — движок денежных операций. Каждая операция
// выполняется в одной транзакции базы данных: строки счетов читаются
// с блокировкой FOR UPDATE, баланс и строки журнала пишутся атомарно.
// Частичное состояние никогда не становится видимым.
type TransactionService struct {
	db      *gorm.DB
	cfg     *config.Config
	email   *EmailService
	metrics *utils.Metrics
}

// NewTransactionService создает новый экземпляр TransactionService
func NewTransactionService(db *gorm.DB, cfg *config.Config, email *EmailService) *TransactionService {
	return &TransactionService{
		db:      db,
		cfg:     cfg,
		email:   email,
		metrics: utils.GetMetrics(),
	}
}

// validateAmount проверяет, что сумма положительна и не точнее 2 знаков
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Round(2)) {
		return ErrInvalidAmount
	}
	return nil
}

// domainErrors — ошибки валидации и бизнес-правил. Они не повторяются
// и возвращаются вызывающему как есть.
var domainErrors = []error{
	ErrInvalidRequest, ErrInvalidAmount, ErrAccountNotFound, ErrAccountNotActive,
	ErrInsufficientFunds, ErrSameAccount, ErrCurrencyMismatch, ErrForbidden,
}

func isDomainError(err error) bool {
	for _, de := range domainErrors {
		if errors.Is(err, de) {
			return true
		}
	}
	return false
}

// withRetry выполняет операцию, повторяя ее с экспоненциальным backoff
// при временных конфликтах (сбой сериализации, жертва deadlock).
// Ошибки валидации никогда не повторяются.
func (s *TransactionService) withRetry(ctx context.Context, op func() error) error {
	var err error
	backoff := retryBackoffBase

	for attempt := 0; attempt < s.cfg.Transaction.RetryLimit; attempt++ {
		err = op()
		if err == nil || isDomainError(err) {
			return err
		}
		if !isRetryable(err) {
			utils.LogError("money operation failed with non-retryable error: %v", err)
			return mapContextError(ctx, ErrInternal)
		}

		s.metrics.RecordRetry()
		utils.LogDebug("retrying after transient db conflict (attempt %d): %v", attempt+1, err)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ErrTimeout
		}
		backoff *= 2
	}

	// Повторы исчерпаны
	return mapContextError(ctx, ErrInternal)
}

// Deposit пополняет счет и записывает строку журнала
func (s *TransactionService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, callerID uint) (*models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	var entry *models.Transaction
	var account models.Account

	err := s.withRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Каждая попытка читает счет с блокировкой в чистую структуру
			var acc models.Account
			if err := lockAccountByNumber(tx, accountNumber, &acc); err != nil {
				return err
			}
			if err := authorizeAccount(&acc, callerID); err != nil {
				return err
			}
			if !acc.IsActive() {
				return ErrAccountNotActive
			}

			newBalance := acc.Balance.Add(amount)
			e, err := applyBalanceChange(tx, &acc, newBalance, models.Transaction{
				AccountID:     acc.ID,
				Type:          models.TransactionTypeDeposit,
				Amount:        amount,
				BalanceBefore: acc.Balance,
				Description:   "Deposit",
			})
			if err != nil {
				return err
			}
			account = acc
			entry = e
			return nil
		})
	})

	s.metrics.RecordOperation("deposit", err)
	utils.LogMoneyMovement("deposit", accountNumber, amount, err)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, &account, "Deposit", amount)
	return entry, nil
}

// Withdraw снимает средства со счета и записывает строку журнала
func (s *TransactionService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, callerID uint) (*models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	var entry *models.Transaction
	var account models.Account

	err := s.withRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var acc models.Account
			if err := lockAccountByNumber(tx, accountNumber, &acc); err != nil {
				return err
			}
			if err := authorizeAccount(&acc, callerID); err != nil {
				return err
			}
			if !acc.IsActive() {
				return ErrAccountNotActive
			}

			// Проверяем достаточность средств по свежепрочитанному балансу
			if acc.Balance.LessThan(amount) {
				return ErrInsufficientFunds
			}

			newBalance := acc.Balance.Sub(amount)
			e, err := applyBalanceChange(tx, &acc, newBalance, models.Transaction{
				AccountID:     acc.ID,
				Type:          models.TransactionTypeWithdrawal,
				Amount:        amount,
				BalanceBefore: acc.Balance,
				Description:   "Withdrawal",
			})
			if err != nil {
				return err
			}
			account = acc
			entry = e
			return nil
		})
	})

	s.metrics.RecordOperation("withdraw", err)
	utils.LogMoneyMovement("withdraw", accountNumber, amount, err)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, &account, "Withdrawal", amount)
	return entry, nil
}

// Transfer переводит средства между счетами в одной транзакции базы.
// Обе строки журнала получают общую метку времени фиксации.
// Возвращает пару (исходный, целевой).
func (s *TransactionService) Transfer(ctx context.Context, fromNumber, toNumber string, amount decimal.Decimal, callerID uint) (*models.Transaction, *models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, nil, err
	}
	if fromNumber == toNumber {
		return nil, nil, ErrSameAccount
	}

	var fromEntry, toEntry *models.Transaction
	var from models.Account

	err := s.withRetry(ctx, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Узнаем id обоих счетов, чтобы брать блокировки
			// в детерминированном порядке (по возрастанию id).
			// Это исключает взаимную блокировку встречных переводов.
			var refs []struct {
				ID            uint
				AccountNumber string
			}
			if err := tx.Model(&models.Account{}).
				Select("id", "account_number").
				Where("account_number IN ?", []string{fromNumber, toNumber}).
				Find(&refs).Error; err != nil {
				return err
			}
			if len(refs) != 2 {
				return ErrAccountNotFound
			}

			first, second := refs[0], refs[1]
			if first.ID > second.ID {
				first, second = second, first
			}

			var a, b models.Account
			if err := lockAccountByID(tx, first.ID, &a); err != nil {
				return err
			}
			if err := lockAccountByID(tx, second.ID, &b); err != nil {
				return err
			}

			source, dest := &a, &b
			if source.AccountNumber != fromNumber {
				source, dest = dest, source
			}

			// Вызывающий должен владеть исходным счетом;
			// целевой счет может принадлежать кому угодно.
			if err := authorizeAccount(source, callerID); err != nil {
				return err
			}
			if !source.IsActive() || !dest.IsActive() {
				return ErrAccountNotActive
			}
			if source.Currency != dest.Currency {
				return ErrCurrencyMismatch
			}
			if source.Balance.LessThan(amount) {
				return ErrInsufficientFunds
			}

			// Обе строки журнала разделяют метку времени фиксации
			commitTime := time.Now().UTC()

			newFrom := source.Balance.Sub(amount)
			fe, err := applyBalanceChangeAt(tx, source, newFrom, commitTime, models.Transaction{
				AccountID:     source.ID,
				Type:          models.TransactionTypeTransfer,
				Amount:        amount,
				BalanceBefore: source.Balance,
				Description:   "Transfer to " + dest.AccountNumber,
			})
			if err != nil {
				return err
			}

			newTo := dest.Balance.Add(amount)
			te, err := applyBalanceChangeAt(tx, dest, newTo, commitTime, models.Transaction{
				AccountID:     dest.ID,
				Type:          models.TransactionTypeTransfer,
				Amount:        amount,
				BalanceBefore: dest.Balance,
				Description:   "Transfer from " + source.AccountNumber,
			})
			if err != nil {
				return err
			}

			from = *source
			fromEntry, toEntry = fe, te
			return nil
		})
	})

	s.metrics.RecordOperation("transfer", err)
	utils.LogMoneyMovement("transfer", fromNumber+" -> "+toNumber, amount, err)
	if err != nil {
		return nil, nil, err
	}

	s.notify(ctx, &from, "Transfer", amount)
	return fromEntry, toEntry, nil
}

// applyBalanceChange обновляет баланс счета и добавляет строку журнала
func applyBalanceChange(tx *gorm.DB, account *models.Account, newBalance decimal.Decimal, entry models.Transaction) (*models.Transaction, error) {
	return applyBalanceChangeAt(tx, account, newBalance, time.Now().UTC(), entry)
}

// applyBalanceChangeAt — то же, но с явной меткой времени фиксации
func applyBalanceChangeAt(tx *gorm.DB, account *models.Account, newBalance decimal.Decimal, at time.Time, entry models.Transaction) (*models.Transaction, error) {
	if err := tx.Model(account).
		Updates(map[string]interface{}{"balance": newBalance, "updated_at": at}).Error; err != nil {
		return nil, err
	}
	account.Balance = newBalance
	account.UpdatedAt = at

	entry.BalanceAfter = newBalance
	entry.Timestamp = at
	entry.Status = models.TransactionStatusSuccess
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	return &entry, nil
}

// notify отправляет уведомление владельцу счета. Лучшая попытка:
// операция уже зафиксирована, ошибка отправки только логируется.
func (s *TransactionService) notify(ctx context.Context, account *models.Account, operation string, amount decimal.Decimal) {
	if s.email == nil {
		return
	}

	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, account.UserID).Error; err != nil {
		utils.LogError("failed to load account owner for notification: %v", err)
		return
	}

	if err := s.email.SendTransactionNotification(owner.Email, account.AccountNumber, amount, operation); err != nil {
		utils.LogError("failed to send transaction notification: %v", err)
	}
}

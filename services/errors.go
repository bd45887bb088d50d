package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки уровня сервисов. Контроллеры сопоставляют их с HTTP статусами
// через errors.Is, сервисы никогда не возвращают "сырые" ошибки gorm.
var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidAmount       = errors.New("amount must be positive with at most 2 decimal places")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrForbidden           = errors.New("access denied")
	ErrAccountNotActive    = errors.New("account is not active")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrSameAccount         = errors.New("source and destination accounts must differ")
	ErrCurrencyMismatch    = errors.New("cross-currency transfers are not supported")
	ErrIllegalTransition   = errors.New("status transition is not allowed")
	ErrTimeout             = errors.New("operation deadline exceeded")
	ErrInternal            = errors.New("internal error")
)

// Коды SQLSTATE, которые нас интересуют
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// isUniqueViolation проверяет, нарушено ли уникальное ограничение
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// uniqueConstraintName возвращает имя нарушенного ограничения
func uniqueConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// isRetryable проверяет, является ли ошибка временным конфликтом,
// который движок повторяет с backoff (сбой сериализации, жертва deadlock)
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}

// mapContextError переводит отмену контекста в ошибку таксономии
func mapContextError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return ErrTimeout
	}
	return err
}

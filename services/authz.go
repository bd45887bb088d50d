package services

import (
	"errors"

	"bankingProject/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// authorizeAccount проверяет, что счет принадлежит вызывающему.
// Чужой счет сознательно возвращается как ErrAccountNotFound:
// существование ресурса не раскрывается не-владельцу.
func authorizeAccount(account *models.Account, callerID uint) error {
	if account.UserID != callerID {
		return ErrAccountNotFound
	}
	return nil
}

// lockAccountByNumber читает счет по номеру с блокировкой SELECT ... FOR UPDATE.
// Блокировка удерживается до конца транзакции tx.
func lockAccountByNumber(tx *gorm.DB, number string, dst *models.Account) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_number = ?", number).
		First(dst).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	return nil
}

// lockAccountByID читает счет по ID с блокировкой SELECT ... FOR UPDATE
func lockAccountByID(tx *gorm.DB, id uint, dst *models.Account) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(dst, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	return nil
}

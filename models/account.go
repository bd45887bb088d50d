package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus представляет статус банковского счета
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusClosed AccountStatus = "CLOSED"
	AccountStatusFrozen AccountStatus = "FROZEN"
)

// Типы счетов. Движок не ограничивает набор, это только известные значения.
const (
	AccountTypeSavings     = "SAVINGS"
	AccountTypeChecking    = "CHECKING"
	AccountTypeMoneyMarket = "MONEY_MARKET"
)

type Account struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint            `gorm:"column:user_id;not null;index:idx_user_status,priority:1" json:"userId"`
	AccountNumber string          `gorm:"column:account_number;unique;not null;size:20" json:"accountNumber"`
	AccountType   string          `gorm:"column:account_type;not null;size:50" json:"accountType"`
	Balance       decimal.Decimal `gorm:"column:balance;type:decimal(15,2);not null" json:"balance"`
	Currency      string          `gorm:"column:currency;not null;size:3;default:'USD'" json:"currency"`
	Status        AccountStatus   `gorm:"column:status;type:varchar(20);not null;default:'ACTIVE';index:idx_user_status,priority:2" json:"status"`
	CreatedAt     time.Time       `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Account) TableName() string {
	return "accounts"
}

// IsActive проверяет, принимает ли счет операции
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

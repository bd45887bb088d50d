package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType представляет тип транзакции
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

// TransactionStatus представляет итог транзакции
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Transaction — неизменяемая запись журнала. После фиксации строка
// никогда не обновляется и не удаляется.
type Transaction struct {
	ID            uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID     uint              `gorm:"column:account_id;not null;index:idx_account_timestamp,priority:1" json:"accountId"`
	Type          TransactionType   `gorm:"column:transaction_type;not null;size:50" json:"type"`
	Amount        decimal.Decimal   `gorm:"column:amount;type:decimal(15,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal   `gorm:"column:balance_before;type:decimal(15,2);not null" json:"balanceBefore"`
	BalanceAfter  decimal.Decimal   `gorm:"column:balance_after;type:decimal(15,2);not null" json:"balanceAfter"`
	Description   string            `gorm:"column:description;size:255" json:"description"`
	Timestamp     time.Time         `gorm:"column:timestamp;not null;index:idx_account_timestamp,priority:2,sort:desc" json:"timestamp"`
	Status        TransactionStatus `gorm:"column:status;type:varchar(20);not null;default:'SUCCESS'" json:"status"`
}

func (Transaction) TableName() string {
	return "transactions"
}

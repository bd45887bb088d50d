package services

import (
	"context"
	"strconv"
	"time"

	"bankingProject/models"

	"github.com/beevik/etree"
)

// StatementService формирует XML выписку по счету
type StatementService struct {
	accounts *AccountService
	history  *HistoryService
}

// NewStatementService создает новый экземпляр StatementService
func NewStatementService(accounts *AccountService, history *HistoryService) *StatementService {
	return &StatementService{accounts: accounts, history: history}
}

// BuildStatement собирает XML документ выписки из счета и его операций
func BuildStatement(account *models.Account, transactions []models.Transaction, generatedAt time.Time) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	statement := doc.CreateElement("statement")
	statement.CreateAttr("generatedAt", generatedAt.UTC().Format(time.RFC3339))

	acc := statement.CreateElement("account")
	acc.CreateElement("number").SetText(account.AccountNumber)
	acc.CreateElement("type").SetText(account.AccountType)
	acc.CreateElement("currency").SetText(account.Currency)
	acc.CreateElement("status").SetText(string(account.Status))
	acc.CreateElement("balance").SetText(account.Balance.StringFixed(2))

	list := statement.CreateElement("transactions")
	list.CreateAttr("count", strconv.Itoa(len(transactions)))
	for _, t := range transactions {
		entry := list.CreateElement("transaction")
		entry.CreateAttr("id", strconv.Itoa(int(t.ID)))
		entry.CreateElement("type").SetText(string(t.Type))
		entry.CreateElement("amount").SetText(t.Amount.StringFixed(2))
		entry.CreateElement("balanceAfter").SetText(t.BalanceAfter.StringFixed(2))
		entry.CreateElement("description").SetText(t.Description)
		entry.CreateElement("timestamp").SetText(t.Timestamp.UTC().Format(time.RFC3339))
		entry.CreateElement("status").SetText(string(t.Status))
	}

	doc.Indent(2)
	return doc
}

// StatementByNumber возвращает XML выписку по номеру счета.
// Права доступа проверяются так же, как для истории операций.
func (s *StatementService) StatementByNumber(ctx context.Context, accountNumber string, callerID uint, page, pageSize int) (string, error) {
	account, err := s.accounts.GetOwnedByNumber(ctx, accountNumber, callerID)
	if err != nil {
		return "", err
	}

	history, err := s.history.HistoryByNumber(ctx, accountNumber, callerID, page, pageSize)
	if err != nil {
		return "", err
	}

	doc := BuildStatement(account, history.Transactions, time.Now())
	out, err := doc.WriteToString()
	if err != nil {
		return "", ErrInternal
	}
	return out, nil
}

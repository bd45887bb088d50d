package services

import (
	"testing"
	"time"

	"bankingProject/models"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
)

func TestBuildStatement(t *testing.T) {
	account := &models.Account{
		ID:            1,
		UserID:        1,
		AccountNumber: "ACC1234567890",
		AccountType:   models.AccountTypeSavings,
		Balance:       decimal.RequireFromString("350.00"),
		Currency:      "USD",
		Status:        models.AccountStatusActive,
	}

	transactions := []models.Transaction{
		{
			ID:           2,
			AccountID:    1,
			Type:         models.TransactionTypeTransfer,
			Amount:       decimal.RequireFromString("150.00"),
			BalanceAfter: decimal.RequireFromString("350.00"),
			Description:  "Transfer to ACC0987654321",
			Timestamp:    time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
			Status:       models.TransactionStatusSuccess,
		},
		{
			ID:           1,
			AccountID:    1,
			Type:         models.TransactionTypeDeposit,
			Amount:       decimal.RequireFromString("500.00"),
			BalanceAfter: decimal.RequireFromString("500.00"),
			Description:  "Deposit",
			Timestamp:    time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			Status:       models.TransactionStatusSuccess,
		},
	}

	doc := BuildStatement(account, transactions, time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC))

	out, err := doc.WriteToString()
	if err != nil {
		t.Fatal(err)
	}

	// Разбираем выписку обратно и проверяем структуру
	parsed := etree.NewDocument()
	if err := parsed.ReadFromString(out); err != nil {
		t.Fatalf("statement is not valid XML: %v", err)
	}

	root := parsed.SelectElement("statement")
	if root == nil {
		t.Fatal("missing statement root element")
	}

	acc := root.SelectElement("account")
	if acc == nil {
		t.Fatal("missing account element")
	}
	if got := acc.SelectElement("number").Text(); got != "ACC1234567890" {
		t.Errorf("account number = %q", got)
	}
	if got := acc.SelectElement("balance").Text(); got != "350.00" {
		t.Errorf("balance = %q, want 350.00", got)
	}

	list := root.SelectElement("transactions")
	if list == nil {
		t.Fatal("missing transactions element")
	}
	if got := list.SelectAttrValue("count", ""); got != "2" {
		t.Errorf("count attribute = %q, want 2", got)
	}

	entries := list.SelectElements("transaction")
	if len(entries) != 2 {
		t.Fatalf("expected 2 transaction elements, got %d", len(entries))
	}
	if got := entries[0].SelectElement("type").Text(); got != "TRANSFER" {
		t.Errorf("first entry type = %q, want TRANSFER", got)
	}
	if got := entries[1].SelectElement("amount").Text(); got != "500.00" {
		t.Errorf("second entry amount = %q, want 500.00", got)
	}
}

func TestBuildStatementEmptyHistory(t *testing.T) {
	account := &models.Account{
		AccountNumber: "ACC1111111111",
		AccountType:   models.AccountTypeChecking,
		Balance:       decimal.Zero,
		Currency:      "USD",
		Status:        models.AccountStatusActive,
	}

	doc := BuildStatement(account, nil, time.Now())

	list := doc.Root().SelectElement("transactions")
	if list == nil {
		t.Fatal("missing transactions element")
	}
	if got := list.SelectAttrValue("count", ""); got != "0" {
		t.Errorf("count attribute = %q, want 0", got)
	}
	if len(list.SelectElements("transaction")) != 0 {
		t.Error("expected no transaction elements")
	}
}

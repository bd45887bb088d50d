package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"bankingProject/models"
	"bankingProject/services"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// operationTimeout — предельное время денежной операции.
// По истечении транзакция базы откатывается, вызывающий получает Timeout.
const operationTimeout = 15 * time.Second

// TransactionController обрабатывает денежные операции и историю
type TransactionController struct {
	transactionService *services.TransactionService
	historyService     *services.HistoryService
}

// MoneyRequest представляет запрос на пополнение или снятие
type MoneyRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// TransferRequest представляет запрос на перевод средств
type TransferRequest struct {
	ToAccountNumber string          `json:"toAccountNumber"`
	Amount          decimal.Decimal `json:"amount"`
}

// TransferResponse содержит обе записи журнала перевода
type TransferResponse struct {
	Source      *models.Transaction `json:"source"`
	Destination *models.Transaction `json:"destination"`
}

// NewTransactionController создает новый экземпляр TransactionController
func NewTransactionController(transactionService *services.TransactionService, historyService *services.HistoryService) *TransactionController {
	return &TransactionController{
		transactionService: transactionService,
		historyService:     historyService,
	}
}

// Deposit обрабатывает запрос на пополнение счета
func (c *TransactionController) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, _, err := currentUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req MoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), operationTimeout)
	defer cancel()

	number := mux.Vars(r)["number"]
	entry, err := c.transactionService.Deposit(ctx, number, req.Amount, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Withdraw обрабатывает запрос на снятие средств
func (c *TransactionController) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, _, err := currentUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req MoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), operationTimeout)
	defer cancel()

	number := mux.Vars(r)["number"]
	entry, err := c.transactionService.Withdraw(ctx, number, req.Amount, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Transfer обрабатывает запрос на перевод средств между счетами
func (c *TransactionController) Transfer(w http.ResponseWriter, r *http.Request) {
	userID, _, err := currentUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), operationTimeout)
	defer cancel()

	fromNumber := mux.Vars(r)["number"]
	source, destination, err := c.transactionService.Transfer(ctx, fromNumber, req.ToAccountNumber, req.Amount, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TransferResponse{
		Source:      source,
		Destination: destination,
	})
}

// GetHistory обрабатывает запрос истории операций по счету
func (c *TransactionController) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, _, err := currentUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	number := mux.Vars(r)["number"]
	page, pageSize := pagingParams(r)

	history, err := c.historyService.HistoryByNumber(r.Context(), number, userID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// GetTransaction обрабатывает запрос одной записи журнала
func (c *TransactionController) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, _, err := currentUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid transaction id", http.StatusBadRequest)
		return
	}

	entry, err := c.historyService.GetTransaction(r.Context(), uint(id), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// RegisterRoutes регистрирует маршруты контроллера
func (c *TransactionController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts/{number}/deposit", c.Deposit).Methods("POST")
	router.HandleFunc("/accounts/{number}/withdraw", c.Withdraw).Methods("POST")
	router.HandleFunc("/accounts/{number}/transfer", c.Transfer).Methods("POST")
	router.HandleFunc("/accounts/{number}/transactions", c.GetHistory).Methods("GET")
	router.HandleFunc("/transactions/{id}", c.GetTransaction).Methods("GET")
}

// pagingParams читает параметры пагинации из строки запроса
func pagingParams(r *http.Request) (page, pageSize int) {
	if v := r.URL.Query().Get("page"); v != "" {
		page, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("pageSize"); v != "" {
		pageSize, _ = strconv.Atoi(v)
	}
	return page, pageSize
}

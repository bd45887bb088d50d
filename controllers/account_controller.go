package controllers

import (
	"encoding/json"
	"net/http"

	"bankingProject/models"
	"bankingProject/services"

	"github.com/gorilla/mux"
)

// AccountController обрабатывает запросы, связанные со счетами
type AccountController struct {
	accountService   *services.AccountService
	statementService *services.StatementService
}

type SetStatusRequest struct {
	Status models.AccountStatus `json:"status"`
}

// NewAccountController создает новый экземпляр AccountController
func NewAccountController(accountService *services.AccountService, statementService *services.StatementService) *AccountController {
	return &AccountController{
		accountService:   accountService,
		statementService: statementService,
	}
}

// CreateAccount обрабатывает запрос на создание счета
func (c *AccountController) CreateAccount(w http.ResponseWriter, r *http.Request) {
	// Получаем ID пользователя из контекста (установлен middleware)
	userID, _, err := currentUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req services.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Создаем счет
	account, err := c.accountService.CreateAccount(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

// GetAccounts обрабатывает запрос на получение активных счетов пользователя
func (c *AccountController) GetAccounts(w http.ResponseWriter, r *http.Request) {
	userID, _, err := currentUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := c.accountService.ListActiveByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

// GetAccount обрабатывает запрос на получение одного счета по номеру
func (c *AccountController) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, _, err := currentUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	number := mux.Vars(r)["number"]
	account, err := c.accountService.GetOwnedByNumber(r.Context(), number, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// SetStatus обрабатывает смену статуса счета (заморозка, закрытие)
func (c *AccountController) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID, _, err := currentUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	number := mux.Vars(r)["number"]
	account, err := c.accountService.SetStatus(r.Context(), number, userID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, account)
}

// GetStatement обрабатывает запрос XML выписки по счету
func (c *AccountController) GetStatement(w http.ResponseWriter, r *http.Request) {
	userID, _, err := currentUser(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	number := mux.Vars(r)["number"]
	page, pageSize := pagingParams(r)

	xml, err := c.statementService.StatementByNumber(r.Context(), number, userID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(xml))
}

// RegisterRoutes регистрирует маршруты контроллера
func (c *AccountController) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/accounts", c.CreateAccount).Methods("POST")
	router.HandleFunc("/accounts", c.GetAccounts).Methods("GET")
	router.HandleFunc("/accounts/{number}", c.GetAccount).Methods("GET")
	router.HandleFunc("/accounts/{number}/status", c.SetStatus).Methods("PUT")
	router.HandleFunc("/accounts/{number}/statement", c.GetStatement).Methods("GET")
}

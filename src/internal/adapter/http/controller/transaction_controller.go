package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/models"
	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
	"github.com/api-sage/atm-transaction-processor/src/internal/usecase/service_interfaces"
)

type TransactionController struct {
	service service_interfaces.TransactionService
}

func NewTransactionController(service service_interfaces.TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(r chi.Router) {
	r.Post("/api/transaction/withdraw", c.withdraw)
	r.Post("/api/transaction/deposit", c.deposit)
	r.Post("/api/transaction/transfer", c.transfer)
	r.Get("/api/transaction/balance/{accountId}", c.balance)
	r.Get("/api/transaction/history/{accountId}", c.history)
}

func (c *TransactionController) withdraw(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.Withdraw(r.Context(), req)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		logResponse(r, status, response, start)
		writeJSON(w, status, response)
		return
	}

	logResponse(r, http.StatusOK, response, start)
	writeJSON(w, http.StatusOK, response)
}

func (c *TransactionController) deposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.Deposit(r.Context(), req)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		logResponse(r, status, response, start)
		writeJSON(w, status, response)
		return
	}

	logResponse(r, http.StatusOK, response, start)
	writeJSON(w, http.StatusOK, response)
}

func (c *TransactionController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.Transfer(r.Context(), req)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		logResponse(r, status, response, start)
		writeJSON(w, status, response)
		return
	}

	logResponse(r, http.StatusOK, response, start)
	writeJSON(w, http.StatusOK, response)
}

func (c *TransactionController) balance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accountID := chi.URLParam(r, "accountId")
	atmCode := r.URL.Query().Get("atmCode")

	response, err := c.service.BalanceInquiry(r.Context(), accountID, atmCode)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		logResponse(r, status, response, start)
		writeJSON(w, status, response)
		return
	}

	logResponse(r, http.StatusOK, response, start)
	writeJSON(w, http.StatusOK, response)
}

func (c *TransactionController) history(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accountID := chi.URLParam(r, "accountId")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	response, err := c.service.GetHistory(r.Context(), accountID, page, pageSize)
	if err != nil {
		status := statusForError(err)
		logError(r, err, nil)
		logResponse(r, status, response, start)
		writeJSON(w, status, response)
		return
	}

	logResponse(r, http.StatusOK, response, start)
	writeJSON(w, http.StatusOK, response)
}

package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/atm-transaction-processor/src/internal/domain"
)

type WithdrawRequest struct {
	AccountID string          `json:"accountId"`
	AtmCode   string          `json:"atmCode"`
	Amount    decimal.Decimal `json:"amount"`
}

func (r WithdrawRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}
	if strings.TrimSpace(r.AtmCode) == "" {
		errs = append(errs, "atmCode is required")
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type DepositRequest struct {
	AccountID string          `json:"accountId"`
	AtmCode   string          `json:"atmCode"`
	Amount    decimal.Decimal `json:"amount"`
}

func (r DepositRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}
	if strings.TrimSpace(r.AtmCode) == "" {
		errs = append(errs, "atmCode is required")
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransferRequest struct {
	AccountID           string          `json:"accountId"`
	TargetAccountNumber string          `json:"targetAccountNumber"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description,omitempty"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}
	if strings.TrimSpace(r.TargetAccountNumber) == "" {
		errs = append(errs, "targetAccountNumber is required")
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransactionResponse struct {
	ID                  string          `json:"id"`
	Type                string          `json:"type"`
	Amount              decimal.Decimal `json:"amount"`
	BalanceBefore       decimal.Decimal `json:"balanceBefore"`
	BalanceAfter        decimal.Decimal `json:"balanceAfter"`
	ReferenceNumber     string          `json:"referenceNumber"`
	TargetAccountNumber string          `json:"targetAccountNumber,omitempty"`
	Status              string          `json:"status"`
	Description         string          `json:"description,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
}

func NewTransactionResponse(tx domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:              tx.ID,
		Type:            string(tx.Type),
		Amount:          tx.Amount,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
		ReferenceNumber: tx.ReferenceNumber,
		Status:          string(tx.Status),
		CreatedAt:       tx.CreatedAt,
	}
	if tx.TargetAccountNumber != nil {
		resp.TargetAccountNumber = *tx.TargetAccountNumber
	}
	if tx.Description != nil {
		resp.Description = *tx.Description
	}
	return resp
}

package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type VerifyCardRequest struct {
	CardNumber string `json:"cardNumber"`
}

func (r VerifyCardRequest) Validate() error {
	var errs []string

	if !isSixteenDigitCardNumber(r.CardNumber) {
		errs = append(errs, "cardNumber must be exactly 16 digits")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type VerifyCardResponse struct {
	CardID        string `json:"cardId"`
	AccountID     string `json:"accountId"`
	AccountNumber string `json:"accountNumber"`
	CustomerName  string `json:"customerName"`
	IsBlocked     bool   `json:"isBlocked"`
}

type VerifyPinRequest struct {
	CardID string `json:"cardId"`
	Pin    string `json:"pin"`
}

func (r VerifyPinRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.CardID) == "" {
		errs = append(errs, "cardId is required")
	}
	if !isPin(r.Pin) {
		errs = append(errs, "pin must be exactly 6 digits")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AuthResponse struct {
	Token         string          `json:"token"`
	AccountID     string          `json:"accountId"`
	AccountNumber string          `json:"accountNumber"`
	CustomerName  string          `json:"customerName"`
	Balance       decimal.Decimal `json:"balance"`
}

type ChangePinRequest struct {
	CardID string `json:"cardId"`
	OldPin string `json:"oldPin"`
	NewPin string `json:"newPin"`
}

func (r ChangePinRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.CardID) == "" {
		errs = append(errs, "cardId is required")
	}
	if !isPin(r.OldPin) {
		errs = append(errs, "oldPin must be exactly 6 digits")
	}
	if !isPin(r.NewPin) {
		errs = append(errs, "newPin must be exactly 6 digits")
	}
	if isPin(r.OldPin) && r.OldPin == r.NewPin {
		errs = append(errs, "newPin must differ from oldPin")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type ChangePinResponse struct {
	Changed bool `json:"changed"`
}

func isPin(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) == 6 && digitsOnly(trimmed)
}

func isSixteenDigitCardNumber(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) == 16 && digitsOnly(trimmed)
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}

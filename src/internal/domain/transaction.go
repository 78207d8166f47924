package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeWithdrawal     TransactionType = "Withdrawal"
	TransactionTypeDeposit        TransactionType = "Deposit"
	TransactionTypeTransfer       TransactionType = "Transfer"
	TransactionTypeBalanceInquiry TransactionType = "BalanceInquiry"
)

type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "Success"
	TransactionStatusFailed  TransactionStatus = "Failed"
)

// Transaction is an append-only ledger record. Rows are immutable once
// created; the repository exposes no update path.
type Transaction struct {
	ID                  string
	AccountID           string
	AtmID               *string
	Type                TransactionType
	Amount              decimal.Decimal
	BalanceBefore       decimal.Decimal
	BalanceAfter        decimal.Decimal
	ReferenceNumber     string
	TargetAccountNumber *string
	Status              TransactionStatus
	Description         *string
	CreatedAt           time.Time
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a ledger row. Balance is fixed-point with 2 decimal places;
// MinBalance and TypeName are denormalized from the account type on reads.
type Account struct {
	ID            string
	CustomerID    string
	AccountTypeID string
	AccountNumber string
	TypeName      string
	Balance       decimal.Decimal
	MinBalance    decimal.Decimal
	DailyLimit    decimal.Decimal
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

package repo_interfaces

import (
	"context"

	"github.com/api-sage/atm-transaction-processor/src/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error)

	// PostWithdrawal locks the account row, applies the balance-floor and
	// daily-limit checks, debits the balance and appends the withdrawal
	// ledger row, all in one database transaction. Concurrent withdrawals
	// serialize on the row lock, and each sees the previous one's ledger
	// row before re-checking the limit. Returns the record with its id,
	// timestamps and before/after balances filled in.
	PostWithdrawal(ctx context.Context, record domain.Transaction) (domain.Transaction, error)

	// Credit adds amount to an active account's balance.
	Credit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error)

	// TransferFunds debits the source and credits the target within a single
	// database transaction; both rows are locked in deterministic order and
	// either both mutations commit or neither does. Returns the source
	// balance before and after.
	TransferFunds(ctx context.Context, sourceAccountID, targetAccountNumber string, amount, floor decimal.Decimal) (decimal.Decimal, decimal.Decimal, error)
}

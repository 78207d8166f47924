package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
	"github.com/api-sage/atm-transaction-processor/src/internal/domain"
	"github.com/api-sage/atm-transaction-processor/src/internal/logger"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `
a.id, a.customer_id, a.account_type_id, a.account_number, t.type_name,
a.balance, t.min_balance, a.daily_limit, a.is_active, a.created_at, a.updated_at`

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts a
JOIN account_types t ON t.id = a.account_type_id
WHERE a.id = $1`

	return r.getOne(ctx, query, id)
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts a
JOIN account_types t ON t.id = a.account_type_id
WHERE a.account_number = $1`

	return r.getOne(ctx, query, accountNumber)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg any) (domain.Account, error) {
	var account domain.Account
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.CustomerID,
		&account.AccountTypeID,
		&account.AccountNumber,
		&account.TypeName,
		&account.Balance,
		&account.MinBalance,
		&account.DailyLimit,
		&account.IsActive,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrAccountNotFound
		}
		logger.Error("account repository get failed", err, nil)
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	return account, nil
}

// PostWithdrawal runs the whole withdrawal posting in one database
// transaction: the account row is locked first, the floor and daily-limit
// checks run against the locked row, then the debit and the ledger append
// commit together. The next withdrawal on the same account blocks on the
// row lock and sees this one's ledger row before re-checking the limit,
// so two concurrent withdrawals cannot both pass a stale daily total.
func (r *AccountRepository) PostWithdrawal(ctx context.Context, record domain.Transaction) (domain.Transaction, error) {
	logger.Info("account repository post withdrawal", logger.Fields{
		"accountId": record.AccountID,
		"amount":    record.Amount.StringFixed(2),
		"reference": record.ReferenceNumber,
	})

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		const lockQuery = `
SELECT a.balance, a.daily_limit, a.is_active, t.min_balance
FROM accounts a
JOIN account_types t ON t.id = a.account_type_id
WHERE a.id = $1
FOR UPDATE OF a`

		var balance, dailyLimit, floor decimal.Decimal
		var isActive bool
		if err := tx.QueryRowContext(ctx, lockQuery, record.AccountID).Scan(&balance, &dailyLimit, &isActive, &floor); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return commons.ErrAccountNotFound
			}
			return fmt.Errorf("lock account: %w", err)
		}
		if !isActive {
			return commons.ErrAccountInactive
		}
		if balance.Sub(record.Amount).LessThan(floor) {
			return commons.ErrInsufficientFunds
		}

		const sumQuery = `
SELECT COALESCE(SUM(amount), 0)
FROM transactions
WHERE account_id = $1
  AND type = $2
  AND status = $3
  AND created_at >= $4
  AND created_at < $5`

		now := time.Now().UTC()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		var spent decimal.Decimal
		if err := tx.QueryRowContext(
			ctx,
			sumQuery,
			record.AccountID,
			domain.TransactionTypeWithdrawal,
			domain.TransactionStatusSuccess,
			dayStart,
			dayStart.Add(24*time.Hour),
		).Scan(&spent); err != nil {
			return fmt.Errorf("sum withdrawals for day: %w", err)
		}
		if spent.Add(record.Amount).GreaterThan(dailyLimit) {
			return commons.ErrLimitExceeded
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET balance = balance - $2::numeric, updated_at = NOW() WHERE id = $1`,
			record.AccountID, record.Amount,
		); err != nil {
			return fmt.Errorf("debit account: %w", err)
		}

		record.BalanceBefore = balance
		record.BalanceAfter = balance.Sub(record.Amount)

		if err := tx.QueryRowContext(
			ctx,
			insertTransactionQuery,
			record.AccountID,
			record.AtmID,
			record.Type,
			record.Amount,
			record.BalanceBefore,
			record.BalanceAfter,
			record.ReferenceNumber,
			record.TargetAccountNumber,
			record.Status,
			record.Description,
		).Scan(&record.ID, &record.CreatedAt); err != nil {
			if isUniqueViolation(err) {
				return commons.ErrDuplicateReference
			}
			return fmt.Errorf("append withdrawal record: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	return record, nil
}

func (r *AccountRepository) Credit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	logger.Info("account repository credit", logger.Fields{
		"accountId": accountID,
		"amount":    amount.StringFixed(2),
	})

	const query = `
UPDATE accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE id = $1
  AND is_active
RETURNING balance`

	var balanceAfter decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, accountID, amount).Scan(&balanceAfter)
	if err == nil {
		return balanceAfter.Sub(amount), balanceAfter, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		logger.Error("account repository credit failed", err, logger.Fields{
			"accountId": accountID,
		})
		return decimal.Zero, decimal.Zero, fmt.Errorf("credit account: %w", err)
	}

	account, getErr := r.GetByID(ctx, accountID)
	if getErr != nil {
		return decimal.Zero, decimal.Zero, getErr
	}
	if !account.IsActive {
		return decimal.Zero, decimal.Zero, commons.ErrAccountInactive
	}
	return decimal.Zero, decimal.Zero, commons.ErrAccountNotFound
}

// TransferFunds applies both legs of a transfer in one database transaction.
// Rows are locked FOR UPDATE in account-number order so two transfers that
// touch the same pair of accounts cannot deadlock.
func (r *AccountRepository) TransferFunds(ctx context.Context, sourceAccountID, targetAccountNumber string, amount, floor decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	logger.Info("account repository transfer funds", logger.Fields{
		"sourceAccountId":     sourceAccountID,
		"targetAccountNumber": targetAccountNumber,
		"amount":              amount.StringFixed(2),
	})

	var balanceBefore, balanceAfter decimal.Decimal

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		source, target, err := lockTransferPair(ctx, tx, sourceAccountID, targetAccountNumber)
		if err != nil {
			return err
		}

		if !source.IsActive || !target.IsActive {
			return commons.ErrAccountInactive
		}
		if source.Balance.Sub(amount).LessThan(floor) {
			return commons.ErrInsufficientFunds
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET balance = balance - $2::numeric, updated_at = NOW() WHERE id = $1`,
			source.ID, amount,
		); err != nil {
			return fmt.Errorf("debit source account: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE accounts SET balance = balance + $2::numeric, updated_at = NOW() WHERE id = $1`,
			target.ID, amount,
		); err != nil {
			return fmt.Errorf("credit target account: %w", err)
		}

		balanceBefore = source.Balance
		balanceAfter = source.Balance.Sub(amount)
		return nil
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return balanceBefore, balanceAfter, nil
}

type lockedAccount struct {
	ID            string
	AccountNumber string
	Balance       decimal.Decimal
	IsActive      bool
}

// lockTransferPair locks both rows of a transfer with a single ordered
// FOR UPDATE query, so two concurrent transfers over the same pair always
// acquire the locks in the same order regardless of direction.
func lockTransferPair(ctx context.Context, tx *sql.Tx, sourceAccountID, targetAccountNumber string) (lockedAccount, lockedAccount, error) {
	const query = `
SELECT id, account_number, balance, is_active
FROM accounts
WHERE id = $1 OR account_number = $2
ORDER BY account_number
FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, sourceAccountID, targetAccountNumber)
	if err != nil {
		return lockedAccount{}, lockedAccount{}, fmt.Errorf("lock transfer pair: %w", err)
	}
	defer rows.Close()

	var source, target lockedAccount
	var haveSource, haveTarget bool
	for rows.Next() {
		var account lockedAccount
		if err := rows.Scan(&account.ID, &account.AccountNumber, &account.Balance, &account.IsActive); err != nil {
			return lockedAccount{}, lockedAccount{}, fmt.Errorf("scan locked account: %w", err)
		}
		if account.ID == sourceAccountID {
			source = account
			haveSource = true
		}
		if account.AccountNumber == targetAccountNumber {
			target = account
			haveTarget = true
		}
	}
	if err := rows.Err(); err != nil {
		return lockedAccount{}, lockedAccount{}, fmt.Errorf("iterate locked accounts: %w", err)
	}
	if !haveSource || !haveTarget {
		return lockedAccount{}, lockedAccount{}, commons.ErrAccountNotFound
	}

	return source, target, nil
}

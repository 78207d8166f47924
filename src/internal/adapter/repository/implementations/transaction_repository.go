package implementations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
	"github.com/api-sage/atm-transaction-processor/src/internal/domain"
	"github.com/api-sage/atm-transaction-processor/src/internal/logger"
)

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Shared with AccountRepository.PostWithdrawal, which appends the
// withdrawal row inside its own transaction.
const insertTransactionQuery = `
INSERT INTO transactions (
	account_id,
	atm_id,
	type,
	amount,
	balance_before,
	balance_after,
	reference_number,
	target_account_number,
	status,
	description
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_at`

func (r *TransactionRepository) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	logger.Info("transaction repository create", logger.Fields{
		"accountId": tx.AccountID,
		"type":      string(tx.Type),
		"reference": tx.ReferenceNumber,
	})

	if err := r.db.QueryRowContext(
		ctx,
		insertTransactionQuery,
		tx.AccountID,
		tx.AtmID,
		tx.Type,
		tx.Amount,
		tx.BalanceBefore,
		tx.BalanceAfter,
		tx.ReferenceNumber,
		tx.TargetAccountNumber,
		tx.Status,
		tx.Description,
	).Scan(&tx.ID, &tx.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.Transaction{}, commons.ErrDuplicateReference
		}
		logger.Error("transaction repository create failed", err, logger.Fields{
			"accountId": tx.AccountID,
			"reference": tx.ReferenceNumber,
		})
		return domain.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	return tx, nil
}

func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]domain.Transaction, error) {
	const query = `
SELECT id, account_id, atm_id, type, amount, balance_before, balance_after,
       reference_number, target_account_number, status, description, created_at
FROM transactions
WHERE account_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx, query, accountID, pageSize, offset)
	if err != nil {
		logger.Error("transaction repository list failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, pageSize)
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.AccountID,
			&tx.AtmID,
			&tx.Type,
			&tx.Amount,
			&tx.BalanceBefore,
			&tx.BalanceAfter,
			&tx.ReferenceNumber,
			&tx.TargetAccountNumber,
			&tx.Status,
			&tx.Description,
			&tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return transactions, nil
}

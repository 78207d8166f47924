package repo_interfaces

import (
	"context"

	"github.com/api-sage/atm-transaction-processor/src/internal/domain"
)

type TransactionRepository interface {
	// Create appends an immutable transaction record. A reference-number
	// collision surfaces commons.ErrDuplicateReference so the caller can
	// retry with a fresh suffix.
	Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)

	// ListByAccount returns most-recent-first pages.
	ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]domain.Transaction, error)
}

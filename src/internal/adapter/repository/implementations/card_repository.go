package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
	"github.com/api-sage/atm-transaction-processor/src/internal/domain"
	"github.com/api-sage/atm-transaction-processor/src/internal/logger"
)

type CardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{db: db}
}

const cardColumns = `
c.id, c.customer_id, c.account_id, c.card_number, c.pin_hash,
cu.full_name, a.account_number, c.is_blocked, c.failed_attempts,
c.expires_at, c.created_at`

func (r *CardRepository) GetByID(ctx context.Context, id string) (domain.Card, error) {
	const query = `
SELECT ` + cardColumns + `
FROM cards c
JOIN customers cu ON cu.id = c.customer_id
JOIN accounts a ON a.id = c.account_id
WHERE c.id = $1`

	return r.getOne(ctx, query, id)
}

func (r *CardRepository) GetByCardNumber(ctx context.Context, cardNumber string) (domain.Card, error) {
	const query = `
SELECT ` + cardColumns + `
FROM cards c
JOIN customers cu ON cu.id = c.customer_id
JOIN accounts a ON a.id = c.account_id
WHERE c.card_number = $1`

	return r.getOne(ctx, query, cardNumber)
}

func (r *CardRepository) getOne(ctx context.Context, query string, arg any) (domain.Card, error) {
	var card domain.Card
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&card.ID,
		&card.CustomerID,
		&card.AccountID,
		&card.CardNumber,
		&card.PinHash,
		&card.HolderName,
		&card.AccountNumber,
		&card.IsBlocked,
		&card.FailedAttempts,
		&card.ExpiresAt,
		&card.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Card{}, commons.ErrCardNotFound
		}
		logger.Error("card repository get failed", err, nil)
		return domain.Card{}, fmt.Errorf("get card: %w", err)
	}

	return card, nil
}

// RecordFailedAttempt bumps the counter and blocks the card in the same
// statement once the threshold is reached, so concurrent failures cannot
// skip past the block.
func (r *CardRepository) RecordFailedAttempt(ctx context.Context, cardID string) (int, bool, error) {
	logger.Info("card repository record failed attempt", logger.Fields{
		"cardId": cardID,
	})

	const query = `
UPDATE cards
SET failed_attempts = failed_attempts + 1,
    is_blocked = is_blocked OR failed_attempts + 1 >= $2
WHERE id = $1
RETURNING failed_attempts, is_blocked`

	var attempts int
	var blocked bool
	if err := r.db.QueryRowContext(ctx, query, cardID, domain.MaxPinAttempts).Scan(&attempts, &blocked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, commons.ErrCardNotFound
		}
		logger.Error("card repository record failed attempt failed", err, logger.Fields{
			"cardId": cardID,
		})
		return 0, false, fmt.Errorf("record failed attempt: %w", err)
	}

	return attempts, blocked, nil
}

func (r *CardRepository) ResetFailedAttempts(ctx context.Context, cardID string) error {
	const query = `
UPDATE cards
SET failed_attempts = 0
WHERE id = $1`

	return r.exec(ctx, query, "reset failed attempts", cardID)
}

func (r *CardRepository) UpdatePinHash(ctx context.Context, cardID, pinHash string) error {
	const query = `
UPDATE cards
SET pin_hash = $2,
    failed_attempts = 0
WHERE id = $1`

	return r.exec(ctx, query, "update pin hash", cardID, pinHash)
}

func (r *CardRepository) Unblock(ctx context.Context, cardID string) error {
	const query = `
UPDATE cards
SET is_blocked = FALSE,
    failed_attempts = 0
WHERE id = $1`

	return r.exec(ctx, query, "unblock card", cardID)
}

func (r *CardRepository) exec(ctx context.Context, query, op string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error("card repository "+op+" failed", err, nil)
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if rowsAffected == 0 {
		return commons.ErrCardNotFound
	}

	return nil
}

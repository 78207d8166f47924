package repo_interfaces

import (
	"context"

	"github.com/api-sage/atm-transaction-processor/src/internal/domain"
)

type CardRepository interface {
	GetByID(ctx context.Context, id string) (domain.Card, error)
	GetByCardNumber(ctx context.Context, cardNumber string) (domain.Card, error)

	// RecordFailedAttempt increments the consecutive-failure counter and
	// blocks the card when the counter reaches domain.MaxPinAttempts, in one
	// statement. Returns the new counter value and the blocked flag.
	RecordFailedAttempt(ctx context.Context, cardID string) (int, bool, error)

	ResetFailedAttempts(ctx context.Context, cardID string) error
	UpdatePinHash(ctx context.Context, cardID, pinHash string) error

	// Unblock clears the blocked flag and the failure counter. Reserved for
	// the administrative layer; the ATM flow never calls it.
	Unblock(ctx context.Context, cardID string) error
}

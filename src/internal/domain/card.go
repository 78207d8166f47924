package domain

import "time"

const MaxPinAttempts = 3

// Card links a customer to an account. FailedAttempts counts consecutive
// PIN failures; reaching MaxPinAttempts blocks the card until an
// administrative unblock. HolderName and AccountNumber are denormalized
// from customer and account rows on reads.
type Card struct {
	ID             string
	CustomerID     string
	AccountID      string
	CardNumber     string
	PinHash        string
	HolderName     string
	AccountNumber  string
	IsBlocked      bool
	FailedAttempts int
	ExpiresAt      time.Time
	CreatedAt      time.Time
}

func (c Card) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

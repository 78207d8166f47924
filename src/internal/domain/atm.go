package domain

import "time"

// Atm is a registered physical terminal. Transactions reference the ATM they
// were made at; logical cash state lives with the device gateway, not here.
type Atm struct {
	ID         string
	AtmCode    string
	Location   string
	IsOnline   bool
	LastRefill *time.Time
	CreatedAt  time.Time
}

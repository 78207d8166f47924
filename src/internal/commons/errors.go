package commons

import "errors"

// Failure taxonomy for the transaction engine and ATM core. Controllers and
// the terminal orchestrator branch on these with errors.Is; anything else is
// treated as a store failure whose outcome is indeterminate.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountInactive   = errors.New("account is not active")
	ErrCardNotFound      = errors.New("card not found")
	ErrAtmNotFound       = errors.New("atm not found")
	ErrCardBlocked       = errors.New("card is blocked")
	ErrCardExpired       = errors.New("card is expired")
	ErrInvalidPin        = errors.New("invalid pin")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrLimitExceeded     = errors.New("limit exceeded")

	// ErrDeviceFailure marks a physical operation that failed after a
	// financial mutation already committed. The debit is kept; the case
	// requires manual reconciliation and must never be retried silently.
	ErrDeviceFailure = errors.New("device failure after committed mutation")

	// ErrDeviceUnavailable means the device binding is absent entirely.
	// It is a pre-mutation outcome, distinct from ErrDeviceFailure.
	ErrDeviceUnavailable = errors.New("device unavailable")

	ErrStoreFailure = errors.New("store failure")

	// ErrDuplicateReference is a unique-violation on the transaction
	// reference number; callers retry with a fresh suffix, never overwrite.
	ErrDuplicateReference = errors.New("duplicate reference number")

	ErrTokenMissing = errors.New("auth token missing")
	ErrTokenExpired = errors.New("auth token expired")
	ErrTokenInvalid = errors.New("auth token invalid")
)

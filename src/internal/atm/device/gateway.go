package device

import "errors"

// ErrNoCard means the reader is working but no card is present. It is
// distinct from commons.ErrDeviceUnavailable, which means the device binding
// itself is absent.
var ErrNoCard = errors.New("no card inserted")

// CashUnknown is returned by RemainingCash when the dispenser cannot report
// its inventory. It must never be treated as "zero cash available".
const CashUnknown int64 = -1

// Gateway is the polymorphic device boundary. Callers depend only on this
// interface, never on a concrete device binding; every implementation must
// tolerate the underlying hardware being entirely absent.
type Gateway interface {
	ReadCard() (string, error)
	EjectCard() bool
	IsCardInserted() bool
	Dispense(amount int64) error
	RemainingCash() int64
	PrintReceipt(text string) error
}

// Resolver maps a terminal code to its gateway. Unknown terminals resolve to
// an unavailable gateway rather than nil.
type Resolver interface {
	GatewayFor(atmCode string) Gateway
}

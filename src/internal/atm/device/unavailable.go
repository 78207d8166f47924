package device

import "github.com/api-sage/atm-transaction-processor/src/internal/commons"

// Unavailable is the gateway bound when no device exists for a terminal.
// Every operation reports the distinct device-unavailable outcome instead of
// crashing.
type Unavailable struct{}

func (Unavailable) ReadCard() (string, error) {
	return "", commons.ErrDeviceUnavailable
}

func (Unavailable) EjectCard() bool {
	return false
}

func (Unavailable) IsCardInserted() bool {
	return false
}

func (Unavailable) Dispense(int64) error {
	return commons.ErrDeviceUnavailable
}

func (Unavailable) RemainingCash() int64 {
	return CashUnknown
}

func (Unavailable) PrintReceipt(string) error {
	return commons.ErrDeviceUnavailable
}

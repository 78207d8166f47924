package device

import (
	"sync"

	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
	"github.com/api-sage/atm-transaction-processor/src/internal/logger"
)

// Simulated is an in-process stand-in for the card reader, cash dispenser
// and receipt printer of one terminal.
type Simulated struct {
	mu            sync.Mutex
	insertedCard  string
	remainingCash int64
	failDispense  bool
	failPrinter   bool
	printed       []string
}

func NewSimulated(initialCash int64) *Simulated {
	return &Simulated{remainingCash: initialCash}
}

// InsertCard simulates a customer presenting a card to the reader.
func (s *Simulated) InsertCard(cardNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertedCard = cardNumber
}

func (s *Simulated) SetDispenseFailure(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDispense = fail
}

func (s *Simulated) SetPrinterFailure(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPrinter = fail
}

// Refill adds cash to the dispenser inventory.
func (s *Simulated) Refill(amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remainingCash += amount
}

// Printed returns every receipt printed so far.
func (s *Simulated) Printed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.printed))
	copy(out, s.printed)
	return out
}

func (s *Simulated) ReadCard() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertedCard == "" {
		return "", ErrNoCard
	}
	return s.insertedCard, nil
}

// EjectCard empties the slot and reports whether a card was present.
func (s *Simulated) EjectCard() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.insertedCard != ""
	s.insertedCard = ""
	return had
}

func (s *Simulated) IsCardInserted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertedCard != ""
}

func (s *Simulated) Dispense(amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failDispense {
		return commons.ErrDeviceFailure
	}
	if amount <= 0 || amount > s.remainingCash {
		return commons.ErrDeviceFailure
	}

	s.remainingCash -= amount
	logger.Info("simulated dispenser dispensed cash", logger.Fields{
		"amount":    amount,
		"remaining": s.remainingCash,
	})
	return nil
}

func (s *Simulated) RemainingCash() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingCash
}

func (s *Simulated) PrintReceipt(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failPrinter {
		return commons.ErrDeviceFailure
	}

	s.printed = append(s.printed, text)
	return nil
}

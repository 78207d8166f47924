package device

import (
	"errors"
	"testing"

	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
)

func TestSimulatedCardHandling(t *testing.T) {
	g := NewSimulated(1000000)

	if _, err := g.ReadCard(); !errors.Is(err, ErrNoCard) {
		t.Fatalf("expected ErrNoCard, got %v", err)
	}

	g.InsertCard("6221000012345678")
	number, err := g.ReadCard()
	if err != nil {
		t.Fatalf("read card: %v", err)
	}
	if number != "6221000012345678" {
		t.Fatalf("unexpected card number %q", number)
	}

	if !g.EjectCard() {
		t.Fatal("expected eject to report a card")
	}
	if g.IsCardInserted() {
		t.Fatal("expected no card after eject")
	}
	if g.EjectCard() {
		t.Fatal("expected eject on empty slot to report false")
	}
}

func TestSimulatedDispenseTracksCash(t *testing.T) {
	g := NewSimulated(500000)

	if err := g.Dispense(200000); err != nil {
		t.Fatalf("dispense: %v", err)
	}
	if g.RemainingCash() != 300000 {
		t.Fatalf("expected 300000 remaining, got %d", g.RemainingCash())
	}

	if err := g.Dispense(400000); err == nil {
		t.Fatal("expected an error dispensing beyond remaining cash")
	}
	if g.RemainingCash() != 300000 {
		t.Fatalf("expected cash unchanged after failed dispense, got %d", g.RemainingCash())
	}

	g.Refill(700000)
	if g.RemainingCash() != 1000000 {
		t.Fatalf("expected 1000000 after refill, got %d", g.RemainingCash())
	}
}

func TestSimulatedFailureInjection(t *testing.T) {
	g := NewSimulated(1000000)

	g.SetDispenseFailure(true)
	if err := g.Dispense(100000); err == nil {
		t.Fatal("expected injected dispense failure")
	}
	if g.RemainingCash() != 1000000 {
		t.Fatal("expected no cash movement on injected failure")
	}

	g.SetPrinterFailure(true)
	if err := g.PrintReceipt("hello"); err == nil {
		t.Fatal("expected injected printer failure")
	}
	if len(g.Printed()) != 0 {
		t.Fatal("expected nothing printed on injected failure")
	}
}

func TestRegistryResolvesUnknownToUnavailable(t *testing.T) {
	registry := NewRegistry()
	registry.Register("ATM-001", NewSimulated(1000000))

	known := registry.GatewayFor("ATM-001")
	if known.RemainingCash() != 1000000 {
		t.Fatal("expected the registered gateway")
	}

	unknown := registry.GatewayFor("ATM-999")
	if unknown.RemainingCash() != CashUnknown {
		t.Fatalf("expected CashUnknown, got %d", unknown.RemainingCash())
	}
	if err := unknown.Dispense(100000); !errors.Is(err, commons.ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
	if _, err := unknown.ReadCard(); !errors.Is(err, commons.ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
}

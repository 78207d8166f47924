package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestManagerExpiresOnceAfterInactivity(t *testing.T) {
	m := NewManager(30 * time.Millisecond)

	var fired atomic.Int32
	m.Subscribe(func() { fired.Add(1) })

	m.StartSession("6221000012345678")
	m.Authenticate("token-1", "Andi Wijaya", "acc-1")

	time.Sleep(100 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Fatalf("expected exactly one expiry, got %d", got)
	}
	if m.IsAuthenticated() {
		t.Fatal("expected session to be cleared after expiry")
	}
	if snap := m.Snapshot(); snap.CardNumber != "" || snap.Token != "" {
		t.Fatalf("expected empty snapshot after expiry, got %+v", snap)
	}
}

func TestManagerRefreshPostponesExpiry(t *testing.T) {
	m := NewManager(60 * time.Millisecond)

	var fired atomic.Int32
	m.Subscribe(func() { fired.Add(1) })

	m.StartSession("6221000012345678")
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		m.RefreshSession()
	}
	if got := fired.Load(); got != 0 {
		t.Fatalf("expected no expiry while active, got %d", got)
	}

	time.Sleep(150 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("expected one expiry after going quiet, got %d", got)
	}
}

func TestManagerEndSessionCancelsTimer(t *testing.T) {
	m := NewManager(30 * time.Millisecond)

	var fired atomic.Int32
	m.Subscribe(func() { fired.Add(1) })

	m.StartSession("6221000012345678")
	m.EndSession()
	m.EndSession() // idempotent

	time.Sleep(80 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Fatalf("expected no expiry after explicit end, got %d", got)
	}
}

func TestManagerAuthenticateWithoutCardIsNoop(t *testing.T) {
	m := NewManager(time.Minute)

	m.Authenticate("token-1", "Andi Wijaya", "acc-1")
	if m.IsAuthenticated() {
		t.Fatal("expected authentication without a card to be ignored")
	}
}

func TestManagerStartSessionReplacesPrevious(t *testing.T) {
	m := NewManager(time.Minute)

	m.StartSession("6221000012345678")
	m.Authenticate("token-1", "Andi Wijaya", "acc-1")
	first := m.Snapshot()

	m.StartSession("6221000087654321")
	second := m.Snapshot()

	if second.ID == first.ID {
		t.Fatal("expected a fresh session id")
	}
	if second.Token != "" || second.Authenticated {
		t.Fatal("expected the new session to start unauthenticated")
	}
	if second.CardNumber != "6221000087654321" {
		t.Fatalf("expected the new card number, got %q", second.CardNumber)
	}
}

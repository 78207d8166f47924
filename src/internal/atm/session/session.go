package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a copy of the session fields at one point in time.
type Snapshot struct {
	ID            string
	CardNumber    string
	AccountID     string
	Token         string
	DisplayName   string
	Authenticated bool
	StartedAt     time.Time
	LastActivity  time.Time
}

// Manager owns the lifetime of the single active session of one terminal.
// An inactivity timer is armed on start and re-armed on every interaction;
// it fires exactly once if left un-refreshed, notifies subscribers, and
// clears the session.
type Manager struct {
	mu      sync.Mutex
	timeout time.Duration

	id           string
	cardNumber   string
	accountID    string
	token        string
	displayName  string
	startedAt    time.Time
	lastActivity time.Time

	timer *time.Timer
	// generation tags the armed timer so a stale firing after a clear or a
	// refresh is ignored.
	generation uint64

	subscribers []func()
}

func NewManager(timeout time.Duration) *Manager {
	return &Manager{timeout: timeout}
}

// Subscribe registers a session-expired callback. Firing with zero
// subscribers is safe.
func (m *Manager) Subscribe(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// StartSession clears any prior session fields, records the card and arms
// the inactivity timer. The session is not authenticated yet.
func (m *Manager) StartSession(cardNumber string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearLocked()
	m.id = uuid.NewString()
	m.cardNumber = cardNumber
	m.startedAt = time.Now()
	m.armLocked()
}

// Authenticate promotes the session after a successful PIN verification and
// re-arms the inactivity timer.
func (m *Manager) Authenticate(token, displayName, accountID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cardNumber == "" {
		return
	}

	m.token = token
	m.displayName = displayName
	m.accountID = accountID
	m.armLocked()
}

// RefreshSession re-arms the inactivity timer on any user interaction.
// No-op without an active card.
func (m *Manager) RefreshSession() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cardNumber == "" {
		return
	}
	m.armLocked()
}

// ClearSession cancels the timer and nulls every session field. Idempotent.
func (m *Manager) ClearSession() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

// EndSession is the explicit-logout alias of ClearSession.
func (m *Manager) EndSession() {
	m.ClearSession()
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != ""
}

func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Manager) AccountID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accountID
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		ID:            m.id,
		CardNumber:    m.cardNumber,
		AccountID:     m.accountID,
		Token:         m.token,
		DisplayName:   m.displayName,
		Authenticated: m.token != "",
		StartedAt:     m.startedAt,
		LastActivity:  m.lastActivity,
	}
}

func (m *Manager) armLocked() {
	m.lastActivity = time.Now()
	m.generation++
	generation := m.generation

	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.timeout, func() {
		m.expire(generation)
	})
}

func (m *Manager) clearLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.generation++

	m.id = ""
	m.cardNumber = ""
	m.accountID = ""
	m.token = ""
	m.displayName = ""
	m.startedAt = time.Time{}
	m.lastActivity = time.Time{}
}

func (m *Manager) expire(generation uint64) {
	m.mu.Lock()
	if generation != m.generation || m.cardNumber == "" {
		m.mu.Unlock()
		return
	}

	m.clearLocked()
	subscribers := make([]func(), len(m.subscribers))
	copy(subscribers, m.subscribers)
	m.mu.Unlock()

	for _, fn := range subscribers {
		fn()
	}
}

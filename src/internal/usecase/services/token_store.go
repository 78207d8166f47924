package services

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
	"github.com/api-sage/atm-transaction-processor/src/internal/usecase/service_interfaces"
)

type tokenEntry struct {
	claims    service_interfaces.TokenClaims
	expiresAt time.Time
}

// TokenStore keeps opaque bearer tokens in memory. Tokens are
// single-node session handles, not portable credentials.
type TokenStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	tokens map[string]tokenEntry
	now    func() time.Time
}

func NewTokenStore(ttl time.Duration) *TokenStore {
	return &TokenStore{
		ttl:    ttl,
		tokens: make(map[string]tokenEntry),
		now:    time.Now,
	}
}

// Issue creates a fresh token for the claims and returns it.
func (s *TokenStore) Issue(claims service_interfaces.TokenClaims) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token] = tokenEntry{claims: claims, expiresAt: s.now().Add(s.ttl)}
	return token
}

// Validate resolves a token to its claims. Expired tokens are removed
// on sight so the map does not grow without bound.
func (s *TokenStore) Validate(token string) (service_interfaces.TokenClaims, error) {
	if strings.TrimSpace(token) == "" {
		return service_interfaces.TokenClaims{}, commons.ErrTokenMissing
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token]
	if !ok {
		return service_interfaces.TokenClaims{}, commons.ErrTokenInvalid
	}
	if s.now().After(entry.expiresAt) {
		delete(s.tokens, token)
		return service_interfaces.TokenClaims{}, commons.ErrTokenExpired
	}
	return entry.claims, nil
}

// Revoke drops a token immediately. Unknown tokens are a no-op.
func (s *TokenStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

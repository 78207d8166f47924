package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
	"github.com/api-sage/atm-transaction-processor/src/internal/usecase/service_interfaces"
)

type validatorStub struct {
	validate func(token string) (service_interfaces.TokenClaims, error)
}

func (s validatorStub) ValidateToken(token string) (service_interfaces.TokenClaims, error) {
	return s.validate(token)
}

func TestBearerToken_AttachesClaims(t *testing.T) {
	mw := BearerToken(validatorStub{
		validate: func(token string) (service_interfaces.TokenClaims, error) {
			if token != "token-1" {
				return service_interfaces.TokenClaims{}, commons.ErrTokenInvalid
			}
			return service_interfaces.TokenClaims{CardID: "card-1", AccountID: "acc-1"}, nil
		},
	})

	var got service_interfaces.TokenClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Fatal("expected claims in context")
		}
		got = claims
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/transaction/withdraw", nil)
	req.Header.Set("Authorization", "Bearer token-1")

	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if got.AccountID != "acc-1" {
		t.Fatalf("unexpected claims %+v", got)
	}
}

func TestBearerToken_RejectsMissingAndInvalidTokens(t *testing.T) {
	mw := BearerToken(validatorStub{
		validate: func(token string) (service_interfaces.TokenClaims, error) {
			if token == "" {
				return service_interfaces.TokenClaims{}, commons.ErrTokenMissing
			}
			return service_interfaces.TokenClaims{}, commons.ErrTokenExpired
		},
	})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, header := range []string{"", "Bearer stale-token"} {
		req := httptest.NewRequest(http.MethodPost, "/api/transaction/withdraw", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}

		rr := httptest.NewRecorder()
		mw(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected status %d, got %d", header, http.StatusUnauthorized, rr.Code)
		}
	}
}

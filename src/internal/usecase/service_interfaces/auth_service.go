package service_interfaces

import (
	"context"

	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/models"
	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
)

type AuthService interface {
	VerifyCard(ctx context.Context, req models.VerifyCardRequest) (commons.Response[models.VerifyCardResponse], error)
	VerifyPin(ctx context.Context, req models.VerifyPinRequest) (commons.Response[models.AuthResponse], error)
	ChangePin(ctx context.Context, req models.ChangePinRequest) (commons.Response[models.ChangePinResponse], error)
	ValidateToken(token string) (TokenClaims, error)
}

// TokenClaims is the identity attached to an issued session token.
type TokenClaims struct {
	CardID        string
	AccountID     string
	AccountNumber string
	CustomerName  string
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/models"
	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
	"github.com/api-sage/atm-transaction-processor/src/internal/domain"
	"github.com/api-sage/atm-transaction-processor/src/internal/logger"
	"github.com/api-sage/atm-transaction-processor/src/internal/usecase/service_interfaces"
)

type AuthService struct {
	cardRepo    repo_interfaces.CardRepository
	accountRepo repo_interfaces.AccountRepository
	tokens      *TokenStore
	now         func() time.Time
}

func NewAuthService(
	cardRepo repo_interfaces.CardRepository,
	accountRepo repo_interfaces.AccountRepository,
	tokens *TokenStore,
) *AuthService {
	return &AuthService{
		cardRepo:    cardRepo,
		accountRepo: accountRepo,
		tokens:      tokens,
		now:         time.Now,
	}
}

// VerifyCard checks that a presented card exists and is usable. It
// never reveals whether a rejected number is unknown or blocked in the
// HTTP message beyond what the terminal must display.
func (s *AuthService) VerifyCard(ctx context.Context, req models.VerifyCardRequest) (commons.Response[models.VerifyCardResponse], error) {
	logger.Info("auth service verify card request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("auth service verify card validation failed", err, nil)
		return commons.ErrorResponse[models.VerifyCardResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", commons.ErrInvalidArgument, err)
	}

	card, err := s.cardRepo.GetByCardNumber(ctx, strings.TrimSpace(req.CardNumber))
	if err != nil {
		if errors.Is(err, commons.ErrCardNotFound) {
			return commons.ErrorResponse[models.VerifyCardResponse]("Card not recognised"), err
		}
		logger.Error("auth service verify card lookup failed", err, nil)
		return commons.ErrorResponse[models.VerifyCardResponse]("failed to verify card", "Unable to verify card right now"), err
	}

	if card.IsBlocked {
		return commons.ErrorResponse[models.VerifyCardResponse]("Card is blocked. Please contact the bank."), commons.ErrCardBlocked
	}
	if card.Expired(s.now()) {
		return commons.ErrorResponse[models.VerifyCardResponse]("Card has expired"), commons.ErrCardExpired
	}

	return commons.SuccessResponse("Card accepted", models.VerifyCardResponse{
		CardID:        card.ID,
		AccountID:     card.AccountID,
		AccountNumber: card.AccountNumber,
		CustomerName:  card.HolderName,
		IsBlocked:     card.IsBlocked,
	}), nil
}

// VerifyPin compares the presented PIN against the stored hash. Three
// consecutive failures block the card permanently; a success resets
// the counter and issues a session token.
func (s *AuthService) VerifyPin(ctx context.Context, req models.VerifyPinRequest) (commons.Response[models.AuthResponse], error) {
	logger.Info("auth service verify pin request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("auth service verify pin validation failed", err, nil)
		return commons.ErrorResponse[models.AuthResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", commons.ErrInvalidArgument, err)
	}

	card, err := s.cardRepo.GetByID(ctx, strings.TrimSpace(req.CardID))
	if err != nil {
		if errors.Is(err, commons.ErrCardNotFound) {
			return commons.ErrorResponse[models.AuthResponse]("Card not recognised"), err
		}
		logger.Error("auth service verify pin lookup failed", err, nil)
		return commons.ErrorResponse[models.AuthResponse]("failed to verify pin", "Unable to verify pin right now"), err
	}

	if card.IsBlocked {
		return commons.ErrorResponse[models.AuthResponse]("Card is blocked. Please contact the bank."), commons.ErrCardBlocked
	}
	if card.Expired(s.now()) {
		return commons.ErrorResponse[models.AuthResponse]("Card has expired"), commons.ErrCardExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(card.PinHash), []byte(req.Pin)) != nil {
		attempts, blocked, recordErr := s.cardRepo.RecordFailedAttempt(ctx, card.ID)
		if recordErr != nil {
			logger.Error("auth service verify pin failed attempt record failed", recordErr, logger.Fields{
				"cardId": card.ID,
			})
			return commons.ErrorResponse[models.AuthResponse]("failed to verify pin", "Unable to verify pin right now"), recordErr
		}
		if blocked {
			logger.Info("auth service card blocked after failed attempts", logger.Fields{
				"cardId":   card.ID,
				"attempts": attempts,
			})
			return commons.ErrorResponse[models.AuthResponse]("Card is blocked. Please contact the bank."), commons.ErrCardBlocked
		}
		remaining := domain.MaxPinAttempts - attempts
		return commons.ErrorResponse[models.AuthResponse](
			fmt.Sprintf("Incorrect PIN. %d attempt(s) remaining", remaining),
		), commons.ErrInvalidPin
	}

	if err := s.cardRepo.ResetFailedAttempts(ctx, card.ID); err != nil {
		logger.Error("auth service verify pin attempt reset failed", err, logger.Fields{
			"cardId": card.ID,
		})
		return commons.ErrorResponse[models.AuthResponse]("failed to verify pin", "Unable to verify pin right now"), err
	}

	account, err := s.accountRepo.GetByID(ctx, card.AccountID)
	if err != nil {
		logger.Error("auth service verify pin account lookup failed", err, logger.Fields{
			"accountId": card.AccountID,
		})
		return commons.ErrorResponse[models.AuthResponse]("failed to verify pin", "Unable to verify pin right now"), err
	}

	token := s.tokens.Issue(service_interfaces.TokenClaims{
		CardID:        card.ID,
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		CustomerName:  card.HolderName,
	})

	return commons.SuccessResponse("PIN verified", models.AuthResponse{
		Token:         token,
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		CustomerName:  card.HolderName,
		Balance:       account.Balance,
	}), nil
}

// ChangePin verifies the current PIN before storing a bcrypt hash of
// the new one. A wrong current PIN counts as a failed attempt.
func (s *AuthService) ChangePin(ctx context.Context, req models.ChangePinRequest) (commons.Response[models.ChangePinResponse], error) {
	logger.Info("auth service change pin request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("auth service change pin validation failed", err, nil)
		return commons.ErrorResponse[models.ChangePinResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", commons.ErrInvalidArgument, err)
	}

	card, err := s.cardRepo.GetByID(ctx, strings.TrimSpace(req.CardID))
	if err != nil {
		if errors.Is(err, commons.ErrCardNotFound) {
			return commons.ErrorResponse[models.ChangePinResponse]("Card not recognised"), err
		}
		logger.Error("auth service change pin lookup failed", err, nil)
		return commons.ErrorResponse[models.ChangePinResponse]("failed to change pin", "Unable to change pin right now"), err
	}

	if card.IsBlocked {
		return commons.ErrorResponse[models.ChangePinResponse]("Card is blocked. Please contact the bank."), commons.ErrCardBlocked
	}

	if bcrypt.CompareHashAndPassword([]byte(card.PinHash), []byte(req.OldPin)) != nil {
		attempts, blocked, recordErr := s.cardRepo.RecordFailedAttempt(ctx, card.ID)
		if recordErr != nil {
			logger.Error("auth service change pin failed attempt record failed", recordErr, logger.Fields{
				"cardId": card.ID,
			})
			return commons.ErrorResponse[models.ChangePinResponse]("failed to change pin", "Unable to change pin right now"), recordErr
		}
		if blocked {
			return commons.ErrorResponse[models.ChangePinResponse]("Card is blocked. Please contact the bank."), commons.ErrCardBlocked
		}
		remaining := domain.MaxPinAttempts - attempts
		return commons.ErrorResponse[models.ChangePinResponse](
			fmt.Sprintf("Incorrect PIN. %d attempt(s) remaining", remaining),
		), commons.ErrInvalidPin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPin), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("auth service change pin hash failed", err, nil)
		return commons.ErrorResponse[models.ChangePinResponse]("failed to change pin", "Unable to change pin right now"), err
	}

	if err := s.cardRepo.UpdatePinHash(ctx, card.ID, string(hash)); err != nil {
		logger.Error("auth service change pin update failed", err, logger.Fields{
			"cardId": card.ID,
		})
		return commons.ErrorResponse[models.ChangePinResponse]("failed to change pin", "Unable to change pin right now"), err
	}

	if err := s.cardRepo.ResetFailedAttempts(ctx, card.ID); err != nil {
		logger.Error("auth service change pin attempt reset failed", err, logger.Fields{
			"cardId": card.ID,
		})
		return commons.ErrorResponse[models.ChangePinResponse]("failed to change pin", "Unable to change pin right now"), err
	}

	return commons.SuccessResponse("PIN changed", models.ChangePinResponse{Changed: true}), nil
}

// ValidateToken resolves a bearer token issued by VerifyPin.
func (s *AuthService) ValidateToken(token string) (service_interfaces.TokenClaims, error) {
	return s.tokens.Validate(token)
}

package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/models"
	"github.com/api-sage/atm-transaction-processor/src/internal/atm/device"
	"github.com/api-sage/atm-transaction-processor/src/internal/atm/fsm"
	"github.com/api-sage/atm-transaction-processor/src/internal/atm/receipt"
	"github.com/api-sage/atm-transaction-processor/src/internal/atm/session"
	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
	"github.com/api-sage/atm-transaction-processor/src/internal/logger"
	"github.com/api-sage/atm-transaction-processor/src/internal/usecase/service_interfaces"
)

var (
	ErrNoCard       = errors.New("no card is inserted")
	ErrNotReady     = errors.New("terminal is not ready for this operation")
	ErrNoSession    = errors.New("no authenticated session")
	ErrCardRejected = errors.New("card was rejected")
)

// Terminal drives one physical machine through the card / PIN /
// transaction flow. All customer-facing steps are serialized; a
// terminal services one person at a time.
type Terminal struct {
	atmCode  string
	bankName string
	gateway  device.Gateway
	machine  *fsm.Machine
	sessions *session.Manager
	auth     service_interfaces.AuthService
	engine   service_interfaces.TransactionService

	mu     sync.Mutex
	cardID string
	now    func() time.Time
}

func New(
	atmCode string,
	bankName string,
	gateway device.Gateway,
	auth service_interfaces.AuthService,
	engine service_interfaces.TransactionService,
	sessionTimeout time.Duration,
) *Terminal {
	t := &Terminal{
		atmCode:  strings.TrimSpace(atmCode),
		bankName: strings.TrimSpace(bankName),
		gateway:  gateway,
		machine:  fsm.New(),
		sessions: session.NewManager(sessionTimeout),
		auth:     auth,
		engine:   engine,
		now:      time.Now,
	}

	// Inactivity expiry ejects the card and returns the screen to
	// idle regardless of what the customer was doing.
	t.sessions.Subscribe(func() {
		logger.Info("terminal session expired", logger.Fields{"atmCode": t.atmCode})
		t.mu.Lock()
		defer t.mu.Unlock()
		t.gateway.EjectCard()
		t.machine.Reset()
		t.cardID = ""
	})

	return t
}

func (t *Terminal) AtmCode() string { return t.atmCode }

// State reports the screen the terminal is currently showing.
func (t *Terminal) State() fsm.State {
	return t.machine.Current()
}

// InsertCard reads the inserted card, verifies it with the bank and
// moves to PIN entry. A rejected card is ejected immediately.
func (t *Terminal) InsertCard(ctx context.Context) (models.VerifyCardResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.machine.Current() != fsm.StateIdle {
		return models.VerifyCardResponse{}, fmt.Errorf("%w: state is %s", ErrNotReady, t.machine.Current())
	}

	cardNumber, err := t.gateway.ReadCard()
	if err != nil {
		if errors.Is(err, device.ErrNoCard) {
			return models.VerifyCardResponse{}, ErrNoCard
		}
		t.machine.TransitionTo(fsm.StateError)
		return models.VerifyCardResponse{}, fmt.Errorf("%w: %v", commons.ErrDeviceFailure, err)
	}

	if err := t.machine.TransitionTo(fsm.StateCardPresented); err != nil {
		return models.VerifyCardResponse{}, err
	}
	t.sessions.StartSession(cardNumber)

	response, err := t.auth.VerifyCard(ctx, models.VerifyCardRequest{CardNumber: cardNumber})
	if err != nil {
		t.abortLocked()
		return models.VerifyCardResponse{}, fmt.Errorf("%w: %s", ErrCardRejected, response.Message)
	}

	if err := t.machine.TransitionTo(fsm.StatePinEntry); err != nil {
		t.abortLocked()
		return models.VerifyCardResponse{}, err
	}
	t.cardID = response.Data.CardID
	t.sessions.RefreshSession()

	return *response.Data, nil
}

// SubmitPin verifies the PIN. A wrong PIN keeps the terminal in PIN
// entry until the card blocks; a blocked card is ejected.
func (t *Terminal) SubmitPin(ctx context.Context, pin string) (models.AuthResponse, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.machine.Current() != fsm.StatePinEntry {
		return models.AuthResponse{}, fmt.Errorf("%w: state is %s", ErrNotReady, t.machine.Current())
	}

	response, err := t.auth.VerifyPin(ctx, models.VerifyPinRequest{CardID: t.cardID, Pin: pin})
	if err != nil {
		if errors.Is(err, commons.ErrInvalidPin) {
			t.sessions.RefreshSession()
			return models.AuthResponse{}, err
		}
		t.abortLocked()
		return models.AuthResponse{}, err
	}

	if err := t.machine.TransitionTo(fsm.StateAuthenticated); err != nil {
		t.abortLocked()
		return models.AuthResponse{}, err
	}
	t.sessions.Authenticate(response.Data.Token, response.Data.CustomerName, response.Data.AccountID)

	return *response.Data, nil
}

// Withdraw runs a cash withdrawal for the authenticated customer.
func (t *Terminal) Withdraw(ctx context.Context, amount decimal.Decimal) (commons.Response[models.TransactionResponse], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.beginTransactionLocked(); err != nil {
		return commons.Response[models.TransactionResponse]{}, err
	}

	if err := t.machine.TransitionTo(fsm.StateDispensing); err != nil {
		return commons.Response[models.TransactionResponse]{}, err
	}
	response, err := t.engine.Withdraw(ctx, models.WithdrawRequest{
		AccountID: t.sessions.AccountID(),
		AtmCode:   t.atmCode,
		Amount:    amount,
	})
	t.finishTransactionLocked(err)
	return response, err
}

// Deposit credits the authenticated customer's account.
func (t *Terminal) Deposit(ctx context.Context, amount decimal.Decimal) (commons.Response[models.TransactionResponse], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.beginTransactionLocked(); err != nil {
		return commons.Response[models.TransactionResponse]{}, err
	}

	response, err := t.engine.Deposit(ctx, models.DepositRequest{
		AccountID: t.sessions.AccountID(),
		AtmCode:   t.atmCode,
		Amount:    amount,
	})
	t.finishTransactionLocked(err)
	return response, err
}

// Transfer moves funds to another account and prints a receipt on
// this terminal's printer.
func (t *Terminal) Transfer(ctx context.Context, targetAccountNumber string, amount decimal.Decimal, description string) (commons.Response[models.TransactionResponse], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.beginTransactionLocked(); err != nil {
		return commons.Response[models.TransactionResponse]{}, err
	}

	response, err := t.engine.Transfer(ctx, models.TransferRequest{
		AccountID:           t.sessions.AccountID(),
		TargetAccountNumber: targetAccountNumber,
		Amount:              amount,
		Description:         description,
	})
	if err == nil {
		t.printTransferReceiptLocked(*response.Data)
	}
	t.finishTransactionLocked(err)
	return response, err
}

// BalanceInquiry shows the balance and records the inquiry.
func (t *Terminal) BalanceInquiry(ctx context.Context) (commons.Response[models.TransactionResponse], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.beginTransactionLocked(); err != nil {
		return commons.Response[models.TransactionResponse]{}, err
	}

	response, err := t.engine.BalanceInquiry(ctx, t.sessions.AccountID(), t.atmCode)
	t.finishTransactionLocked(err)
	return response, err
}

// EndSession ejects the card and returns to idle. Safe to call in any
// state.
func (t *Terminal) EndSession() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.abortLocked()
}

func (t *Terminal) beginTransactionLocked() error {
	if t.machine.Current() != fsm.StateAuthenticated {
		if !t.sessions.IsAuthenticated() {
			return ErrNoSession
		}
		return fmt.Errorf("%w: state is %s", ErrNotReady, t.machine.Current())
	}
	t.sessions.RefreshSession()
	return t.machine.TransitionTo(fsm.StateInTransaction)
}

// finishTransactionLocked settles the screen after a transaction. A
// hardware fault parks the terminal in the error screen; anything
// else returns to the authenticated menu.
func (t *Terminal) finishTransactionLocked(opErr error) {
	if opErr != nil && (errors.Is(opErr, commons.ErrDeviceFailure) || errors.Is(opErr, commons.ErrDeviceUnavailable)) {
		t.machine.TransitionTo(fsm.StateError)
		if err := t.machine.RecoverToAuthenticated(); err != nil {
			t.abortLocked()
		}
		return
	}

	t.machine.TransitionTo(fsm.StateCompleted)
	if err := t.machine.RecoverToAuthenticated(); err != nil {
		t.abortLocked()
	}
	t.sessions.RefreshSession()
}

func (t *Terminal) abortLocked() {
	t.gateway.EjectCard()
	t.sessions.EndSession()
	t.machine.Reset()
	t.cardID = ""
}

func (t *Terminal) printTransferReceiptLocked(tx models.TransactionResponse) {
	content := receipt.NewBuilder().
		Header(t.bankName, t.atmCode, t.now()).
		Body("Transaction", tx.Type).
		Body("Reference", tx.ReferenceNumber).
		Body("To Account", tx.TargetAccountNumber).
		Separator().
		Body("Amount", tx.Amount.StringFixed(0)).
		Body("Balance", tx.BalanceAfter.StringFixed(0)).
		Footer("Keep this receipt for your records.").
		String()

	if err := t.gateway.PrintReceipt(content); err != nil {
		logger.Error("terminal transfer receipt print failed", err, logger.Fields{
			"atmCode":   t.atmCode,
			"reference": tx.ReferenceNumber,
		})
	}
}

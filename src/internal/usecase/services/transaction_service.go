package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/models"
	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/atm-transaction-processor/src/internal/atm/device"
	"github.com/api-sage/atm-transaction-processor/src/internal/atm/receipt"
	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
	"github.com/api-sage/atm-transaction-processor/src/internal/domain"
	"github.com/api-sage/atm-transaction-processor/src/internal/logger"
)

const (
	referenceAttempts  = 5
	defaultHistorySize = 20
	maxHistorySize     = 100
)

type TransactionService struct {
	accountRepo     repo_interfaces.AccountRepository
	transactionRepo repo_interfaces.TransactionRepository
	atmRepo         repo_interfaces.AtmRepository
	devices         device.Resolver
	bankName        string
	minNote         decimal.Decimal
	maxTransfer     decimal.Decimal
	now             func() time.Time
}

func NewTransactionService(
	accountRepo repo_interfaces.AccountRepository,
	transactionRepo repo_interfaces.TransactionRepository,
	atmRepo repo_interfaces.AtmRepository,
	devices device.Resolver,
	bankName string,
	minNote decimal.Decimal,
	maxTransfer decimal.Decimal,
) *TransactionService {
	return &TransactionService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		atmRepo:         atmRepo,
		devices:         devices,
		bankName:        strings.TrimSpace(bankName),
		minNote:         minNote,
		maxTransfer:     maxTransfer,
		now:             time.Now,
	}
}

// Withdraw debits the account and dispenses cash. The debit is
// committed before the hardware is asked to dispense, so a dispense
// failure leaves a successful ledger row that reconciliation must
// resolve with the customer.
func (s *TransactionService) Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("transaction service withdraw request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("transaction service withdraw validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", commons.ErrInvalidArgument, err)
	}
	if !req.Amount.Mod(s.minNote).IsZero() {
		err := fmt.Errorf("%w: amount must be a multiple of %s", commons.ErrInvalidArgument, s.minNote.StringFixed(0))
		return commons.ErrorResponse[models.TransactionResponse]("validation failed",
			fmt.Sprintf("amount must be a multiple of %s", s.minNote.StringFixed(0))), err
	}

	account, err := s.accountRepo.GetByID(ctx, strings.TrimSpace(req.AccountID))
	if err != nil {
		return s.accountLookupFailure(err)
	}
	if !account.IsActive {
		return commons.ErrorResponse[models.TransactionResponse]("Account is not active"), commons.ErrAccountInactive
	}

	atm, err := s.atmRepo.GetByCode(ctx, strings.TrimSpace(req.AtmCode))
	if err != nil {
		if errors.Is(err, commons.ErrAtmNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("ATM not recognised"), err
		}
		logger.Error("transaction service withdraw atm lookup failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("failed to process withdrawal", "Unable to process withdrawal right now"), err
	}
	if !atm.IsOnline {
		err := fmt.Errorf("%w: atm %s is offline", commons.ErrDeviceUnavailable, atm.AtmCode)
		return commons.ErrorResponse[models.TransactionResponse]("ATM is out of service"), err
	}

	gateway := s.devices.GatewayFor(atm.AtmCode)
	if remaining := gateway.RemainingCash(); remaining != device.CashUnknown && decimal.NewFromInt(remaining).LessThan(req.Amount) {
		err := fmt.Errorf("%w: atm %s cannot dispense %s", commons.ErrDeviceUnavailable, atm.AtmCode, req.Amount.StringFixed(0))
		return commons.ErrorResponse[models.TransactionResponse]("ATM does not have enough cash"), err
	}

	record, err := s.postWithdrawalWithReferenceRetry(ctx, domain.Transaction{
		AccountID: account.ID,
		AtmID:     &atm.ID,
		Type:      domain.TransactionTypeWithdrawal,
		Amount:    req.Amount,
		Status:    domain.TransactionStatusSuccess,
	})
	if err != nil {
		if errors.Is(err, commons.ErrInsufficientFunds) {
			return commons.ErrorResponse[models.TransactionResponse](
				fmt.Sprintf("Insufficient funds. Balance must not fall below %s", account.MinBalance.StringFixed(0))), err
		}
		if errors.Is(err, commons.ErrLimitExceeded) {
			return commons.ErrorResponse[models.TransactionResponse]("Daily withdrawal limit exceeded"), err
		}
		if errors.Is(err, commons.ErrAccountInactive) {
			return commons.ErrorResponse[models.TransactionResponse]("Account is not active"), err
		}
		if errors.Is(err, commons.ErrAccountNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("Account not found"), err
		}
		logger.Error("transaction service withdraw posting failed", err, logger.Fields{
			"accountId": account.ID,
			"amount":    req.Amount.String(),
		})
		return commons.ErrorResponse[models.TransactionResponse]("failed to process withdrawal", "Unable to process withdrawal right now"), err
	}

	if dispenseErr := gateway.Dispense(req.Amount.IntPart()); dispenseErr != nil {
		logger.Error("transaction service withdraw dispense failed after debit", dispenseErr, logger.Fields{
			"accountId": account.ID,
			"atmCode":   atm.AtmCode,
			"reference": record.ReferenceNumber,
		})
		return commons.ErrorResponse[models.TransactionResponse](
			"Cash could not be dispensed. Your account was debited. Please contact the bank.",
			record.ReferenceNumber,
		), fmt.Errorf("%w: %v", commons.ErrDeviceFailure, dispenseErr)
	}

	s.printReceipt(gateway, atm.AtmCode, record, account.AccountNumber)

	return commons.SuccessResponse("Withdrawal successful", models.NewTransactionResponse(record)), nil
}

// Deposit credits the account. Cash acceptance is assumed to have
// happened at the terminal before this is called.
func (s *TransactionService) Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("transaction service deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("transaction service deposit validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", commons.ErrInvalidArgument, err)
	}

	account, err := s.accountRepo.GetByID(ctx, strings.TrimSpace(req.AccountID))
	if err != nil {
		return s.accountLookupFailure(err)
	}
	if !account.IsActive {
		return commons.ErrorResponse[models.TransactionResponse]("Account is not active"), commons.ErrAccountInactive
	}

	atm, err := s.atmRepo.GetByCode(ctx, strings.TrimSpace(req.AtmCode))
	if err != nil {
		if errors.Is(err, commons.ErrAtmNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("ATM not recognised"), err
		}
		logger.Error("transaction service deposit atm lookup failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("failed to process deposit", "Unable to process deposit right now"), err
	}

	before, after, err := s.accountRepo.Credit(ctx, account.ID, req.Amount)
	if err != nil {
		if errors.Is(err, commons.ErrAccountInactive) {
			return commons.ErrorResponse[models.TransactionResponse]("Account is not active"), err
		}
		logger.Error("transaction service deposit credit failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return commons.ErrorResponse[models.TransactionResponse]("failed to process deposit", "Unable to process deposit right now"), err
	}

	record, err := s.createWithReferenceRetry(ctx, domain.Transaction{
		AccountID:     account.ID,
		AtmID:         &atm.ID,
		Type:          domain.TransactionTypeDeposit,
		Amount:        req.Amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Status:        domain.TransactionStatusSuccess,
	})
	if err != nil {
		logger.Error("transaction service deposit record failed after credit", err, logger.Fields{
			"accountId": account.ID,
		})
		return commons.ErrorResponse[models.TransactionResponse]("failed to process deposit", "Unable to process deposit right now"), fmt.Errorf("%w: %v", commons.ErrStoreFailure, err)
	}

	s.printReceipt(s.devices.GatewayFor(atm.AtmCode), atm.AtmCode, record, account.AccountNumber)

	return commons.SuccessResponse("Deposit successful", models.NewTransactionResponse(record)), nil
}

// Transfer moves funds between two accounts atomically. Transfers are
// capped by a per-transaction ceiling and by the source account's
// minimum balance floor, not by the daily withdrawal limit.
func (s *TransactionService) Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("transaction service transfer request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("transaction service transfer validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), fmt.Errorf("%w: %v", commons.ErrInvalidArgument, err)
	}
	if req.Amount.GreaterThan(s.maxTransfer) {
		err := fmt.Errorf("%w: transfer above %s per transaction", commons.ErrLimitExceeded, s.maxTransfer.StringFixed(0))
		return commons.ErrorResponse[models.TransactionResponse](
			fmt.Sprintf("Transfers are limited to %s per transaction", s.maxTransfer.StringFixed(0))), err
	}

	account, err := s.accountRepo.GetByID(ctx, strings.TrimSpace(req.AccountID))
	if err != nil {
		return s.accountLookupFailure(err)
	}
	if !account.IsActive {
		return commons.ErrorResponse[models.TransactionResponse]("Account is not active"), commons.ErrAccountInactive
	}

	targetNumber := strings.TrimSpace(req.TargetAccountNumber)
	if targetNumber == account.AccountNumber {
		err := fmt.Errorf("%w: cannot transfer to the same account", commons.ErrInvalidArgument)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", "cannot transfer to the same account"), err
	}

	target, err := s.accountRepo.GetByAccountNumber(ctx, targetNumber)
	if err != nil {
		if errors.Is(err, commons.ErrAccountNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("Target account not found"), err
		}
		logger.Error("transaction service transfer target lookup failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}
	if !target.IsActive {
		err := fmt.Errorf("%w: target account is not active", commons.ErrAccountInactive)
		return commons.ErrorResponse[models.TransactionResponse]("Target account is not active"), err
	}

	before, after, err := s.accountRepo.TransferFunds(ctx, account.ID, targetNumber, req.Amount, account.MinBalance)
	if err != nil {
		if errors.Is(err, commons.ErrInsufficientFunds) {
			return commons.ErrorResponse[models.TransactionResponse](
				fmt.Sprintf("Insufficient funds. Balance must not fall below %s", account.MinBalance.StringFixed(0))), err
		}
		if errors.Is(err, commons.ErrAccountNotFound) {
			return commons.ErrorResponse[models.TransactionResponse]("Target account not found"), err
		}
		if errors.Is(err, commons.ErrAccountInactive) {
			return commons.ErrorResponse[models.TransactionResponse]("Account is not active"), err
		}
		logger.Error("transaction service transfer posting failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return commons.ErrorResponse[models.TransactionResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}

	var description *string
	if trimmed := strings.TrimSpace(req.Description); trimmed != "" {
		description = &trimmed
	}

	record, err := s.createWithReferenceRetry(ctx, domain.Transaction{
		AccountID:           account.ID,
		Type:                domain.TransactionTypeTransfer,
		Amount:              req.Amount,
		BalanceBefore:       before,
		BalanceAfter:        after,
		TargetAccountNumber: &targetNumber,
		Status:              domain.TransactionStatusSuccess,
		Description:         description,
	})
	if err != nil {
		logger.Error("transaction service transfer record failed after posting", err, logger.Fields{
			"accountId": account.ID,
		})
		return commons.ErrorResponse[models.TransactionResponse]("failed to process transfer", "Unable to process transfer right now"), fmt.Errorf("%w: %v", commons.ErrStoreFailure, err)
	}

	return commons.SuccessResponse("Transfer successful", models.NewTransactionResponse(record)), nil
}

// BalanceInquiry reads the balance and records a zero-amount audit row
// so the inquiry shows up in the account history.
func (s *TransactionService) BalanceInquiry(ctx context.Context, accountID, atmCode string) (commons.Response[models.TransactionResponse], error) {
	logger.Info("transaction service balance inquiry request", logger.Fields{
		"accountId": accountID,
		"atmCode":   atmCode,
	})

	if strings.TrimSpace(accountID) == "" {
		err := fmt.Errorf("%w: accountId is required", commons.ErrInvalidArgument)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", "accountId is required"), err
	}

	account, err := s.accountRepo.GetByID(ctx, strings.TrimSpace(accountID))
	if err != nil {
		return s.accountLookupFailure(err)
	}

	var atmID *string
	if code := strings.TrimSpace(atmCode); code != "" {
		atm, err := s.atmRepo.GetByCode(ctx, code)
		if err != nil && !errors.Is(err, commons.ErrAtmNotFound) {
			logger.Error("transaction service balance inquiry atm lookup failed", err, nil)
			return commons.ErrorResponse[models.TransactionResponse]("failed to read balance", "Unable to read balance right now"), err
		}
		if err == nil {
			atmID = &atm.ID
		}
	}

	record, err := s.createWithReferenceRetry(ctx, domain.Transaction{
		AccountID:     account.ID,
		AtmID:         atmID,
		Type:          domain.TransactionTypeBalanceInquiry,
		Amount:        decimal.Zero,
		BalanceBefore: account.Balance,
		BalanceAfter:  account.Balance,
		Status:        domain.TransactionStatusSuccess,
	})
	if err != nil {
		logger.Error("transaction service balance inquiry record failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return commons.ErrorResponse[models.TransactionResponse]("failed to read balance", "Unable to read balance right now"), fmt.Errorf("%w: %v", commons.ErrStoreFailure, err)
	}

	return commons.SuccessResponse("Balance inquiry successful", models.NewTransactionResponse(record)), nil
}

// GetHistory lists the account's transactions, newest first.
func (s *TransactionService) GetHistory(ctx context.Context, accountID string, page, pageSize int) (commons.Response[[]models.TransactionResponse], error) {
	logger.Info("transaction service history request", logger.Fields{
		"accountId": accountID,
		"page":      page,
		"pageSize":  pageSize,
	})

	if strings.TrimSpace(accountID) == "" {
		err := fmt.Errorf("%w: accountId is required", commons.ErrInvalidArgument)
		return commons.ErrorResponse[[]models.TransactionResponse]("validation failed", "accountId is required"), err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultHistorySize
	}
	if pageSize > maxHistorySize {
		pageSize = maxHistorySize
	}

	if _, err := s.accountRepo.GetByID(ctx, strings.TrimSpace(accountID)); err != nil {
		if errors.Is(err, commons.ErrAccountNotFound) {
			return commons.ErrorResponse[[]models.TransactionResponse]("Account not found"), err
		}
		logger.Error("transaction service history account lookup failed", err, nil)
		return commons.ErrorResponse[[]models.TransactionResponse]("failed to read history", "Unable to read history right now"), err
	}

	records, err := s.transactionRepo.ListByAccount(ctx, strings.TrimSpace(accountID), page, pageSize)
	if err != nil {
		logger.Error("transaction service history list failed", err, logger.Fields{
			"accountId": accountID,
		})
		return commons.ErrorResponse[[]models.TransactionResponse]("failed to read history", "Unable to read history right now"), err
	}

	responses := make([]models.TransactionResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, models.NewTransactionResponse(record))
	}
	return commons.SuccessResponse("History retrieved", responses), nil
}

func (s *TransactionService) accountLookupFailure(err error) (commons.Response[models.TransactionResponse], error) {
	if errors.Is(err, commons.ErrAccountNotFound) {
		return commons.ErrorResponse[models.TransactionResponse]("Account not found"), err
	}
	logger.Error("transaction service account lookup failed", err, nil)
	return commons.ErrorResponse[models.TransactionResponse]("failed to process transaction", "Unable to process transaction right now"), err
}

// createWithReferenceRetry persists a transaction, regenerating the
// reference number on a duplicate collision.
func (s *TransactionService) createWithReferenceRetry(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	var created domain.Transaction
	var err error
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		tx.ReferenceNumber = s.generateReferenceNumber()
		created, err = s.transactionRepo.Create(ctx, tx)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, commons.ErrDuplicateReference) {
			return domain.Transaction{}, err
		}
	}
	return domain.Transaction{}, err
}

// postWithdrawalWithReferenceRetry posts a withdrawal through the
// account repository's single-transaction guard, regenerating the
// reference number on a duplicate collision.
func (s *TransactionService) postWithdrawalWithReferenceRetry(ctx context.Context, record domain.Transaction) (domain.Transaction, error) {
	var posted domain.Transaction
	var err error
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		record.ReferenceNumber = s.generateReferenceNumber()
		posted, err = s.accountRepo.PostWithdrawal(ctx, record)
		if err == nil {
			return posted, nil
		}
		if !errors.Is(err, commons.ErrDuplicateReference) {
			return domain.Transaction{}, err
		}
	}
	return domain.Transaction{}, err
}

func (s *TransactionService) generateReferenceNumber() string {
	return fmt.Sprintf("TXN%s%d", s.now().UTC().Format("20060102150405"), 1000+rand.Intn(9000))
}

// printReceipt is best-effort. A jammed printer never fails the
// transaction that already happened.
func (s *TransactionService) printReceipt(gateway device.Gateway, atmCode string, tx domain.Transaction, accountNumber string) {
	content := receipt.NewBuilder().
		Header(s.bankName, atmCode, tx.CreatedAt).
		Body("Transaction", string(tx.Type)).
		Body("Reference", tx.ReferenceNumber).
		Body("Account", maskAccountNumber(accountNumber)).
		Separator().
		Body("Amount", tx.Amount.StringFixed(0)).
		Body("Balance", tx.BalanceAfter.StringFixed(0)).
		Footer("Keep this receipt for your records.").
		String()

	if err := gateway.PrintReceipt(content); err != nil {
		logger.Error("transaction service receipt print failed", err, logger.Fields{
			"atmCode":   atmCode,
			"reference": tx.ReferenceNumber,
		})
	}
}

func maskAccountNumber(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return accountNumber
	}
	return strings.Repeat("*", len(accountNumber)-4) + accountNumber[len(accountNumber)-4:]
}

package services_test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/api-sage/atm-transaction-processor/src/internal/domain"
)

type accountRepoStub struct {
	getByID            func(ctx context.Context, id string) (domain.Account, error)
	getByAccountNumber func(ctx context.Context, accountNumber string) (domain.Account, error)
	postWithdrawal     func(ctx context.Context, record domain.Transaction) (domain.Transaction, error)
	credit             func(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error)
	transferFunds      func(ctx context.Context, sourceAccountID, targetAccountNumber string, amount, floor decimal.Decimal) (decimal.Decimal, decimal.Decimal, error)
}

func (s accountRepoStub) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return s.getByID(ctx, id)
}

func (s accountRepoStub) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	return s.getByAccountNumber(ctx, accountNumber)
}

func (s accountRepoStub) PostWithdrawal(ctx context.Context, record domain.Transaction) (domain.Transaction, error) {
	return s.postWithdrawal(ctx, record)
}

func (s accountRepoStub) Credit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	return s.credit(ctx, accountID, amount)
}

func (s accountRepoStub) TransferFunds(ctx context.Context, sourceAccountID, targetAccountNumber string, amount, floor decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	return s.transferFunds(ctx, sourceAccountID, targetAccountNumber, amount, floor)
}

type cardRepoStub struct {
	getByID             func(ctx context.Context, id string) (domain.Card, error)
	getByCardNumber     func(ctx context.Context, cardNumber string) (domain.Card, error)
	recordFailedAttempt func(ctx context.Context, cardID string) (int, bool, error)
	resetFailedAttempts func(ctx context.Context, cardID string) error
	updatePinHash       func(ctx context.Context, cardID, pinHash string) error
	unblock             func(ctx context.Context, cardID string) error
}

func (s cardRepoStub) GetByID(ctx context.Context, id string) (domain.Card, error) {
	return s.getByID(ctx, id)
}

func (s cardRepoStub) GetByCardNumber(ctx context.Context, cardNumber string) (domain.Card, error) {
	return s.getByCardNumber(ctx, cardNumber)
}

func (s cardRepoStub) RecordFailedAttempt(ctx context.Context, cardID string) (int, bool, error) {
	return s.recordFailedAttempt(ctx, cardID)
}

func (s cardRepoStub) ResetFailedAttempts(ctx context.Context, cardID string) error {
	return s.resetFailedAttempts(ctx, cardID)
}

func (s cardRepoStub) UpdatePinHash(ctx context.Context, cardID, pinHash string) error {
	return s.updatePinHash(ctx, cardID, pinHash)
}

func (s cardRepoStub) Unblock(ctx context.Context, cardID string) error {
	return s.unblock(ctx, cardID)
}

type transactionRepoStub struct {
	create        func(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	listByAccount func(ctx context.Context, accountID string, page, pageSize int) ([]domain.Transaction, error)
}

func (s transactionRepoStub) Create(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	return s.create(ctx, tx)
}

func (s transactionRepoStub) ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]domain.Transaction, error) {
	return s.listByAccount(ctx, accountID, page, pageSize)
}

type atmRepoStub struct {
	getByID    func(ctx context.Context, id string) (domain.Atm, error)
	getByCode  func(ctx context.Context, atmCode string) (domain.Atm, error)
	listOnline func(ctx context.Context) ([]domain.Atm, error)
}

func (s atmRepoStub) GetByID(ctx context.Context, id string) (domain.Atm, error) {
	return s.getByID(ctx, id)
}

func (s atmRepoStub) GetByCode(ctx context.Context, atmCode string) (domain.Atm, error) {
	return s.getByCode(ctx, atmCode)
}

func (s atmRepoStub) ListOnline(ctx context.Context) ([]domain.Atm, error) {
	return s.listOnline(ctx)
}

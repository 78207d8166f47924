package service_interfaces

import (
	"context"

	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/models"
	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
)

type TransactionService interface {
	Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error)
	Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.TransactionResponse], error)
	Transfer(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransactionResponse], error)
	BalanceInquiry(ctx context.Context, accountID, atmCode string) (commons.Response[models.TransactionResponse], error)
	GetHistory(ctx context.Context, accountID string, page, pageSize int) (commons.Response[[]models.TransactionResponse], error)
}

package controller_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/controller"
	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/models"
	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/router"
	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
)

type transactionServiceStub struct {
	withdraw func(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error)
	history  func(ctx context.Context, accountID string, page, pageSize int) (commons.Response[[]models.TransactionResponse], error)
}

func (s transactionServiceStub) Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error) {
	return s.withdraw(ctx, req)
}

func (s transactionServiceStub) Deposit(context.Context, models.DepositRequest) (commons.Response[models.TransactionResponse], error) {
	return commons.SuccessResponse("Deposit successful", models.TransactionResponse{}), nil
}

func (s transactionServiceStub) Transfer(context.Context, models.TransferRequest) (commons.Response[models.TransactionResponse], error) {
	return commons.SuccessResponse("Transfer successful", models.TransactionResponse{}), nil
}

func (s transactionServiceStub) BalanceInquiry(context.Context, string, string) (commons.Response[models.TransactionResponse], error) {
	return commons.ErrorResponse[models.TransactionResponse]("Account not found"), commons.ErrAccountNotFound
}

func (s transactionServiceStub) GetHistory(ctx context.Context, accountID string, page, pageSize int) (commons.Response[[]models.TransactionResponse], error) {
	return s.history(ctx, accountID, page, pageSize)
}

func newTestRouter(svc transactionServiceStub) http.Handler {
	return router.New(nil, controller.NewTransactionController(svc), nil, nil)
}

func TestTransactionControllerWithdrawStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"insufficient funds", commons.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{"daily limit", commons.ErrLimitExceeded, http.StatusUnprocessableEntity},
		{"account missing", commons.ErrAccountNotFound, http.StatusNotFound},
		{"dispense failure", commons.ErrDeviceFailure, http.StatusBadGateway},
		{"bad amount", commons.ErrInvalidArgument, http.StatusBadRequest},
		{"store failure", commons.ErrStoreFailure, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestRouter(transactionServiceStub{
				withdraw: func(context.Context, models.WithdrawRequest) (commons.Response[models.TransactionResponse], error) {
					return commons.ErrorResponse[models.TransactionResponse]("failed"), fmt.Errorf("wrapped: %w", tc.err)
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/transaction/withdraw",
				strings.NewReader(`{"accountId":"acc-1","atmCode":"ATM-001","amount":"100000"}`))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rr.Code)
			}

			var body commons.Response[models.TransactionResponse]
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body.Success {
				t.Fatal("expected an unsuccessful envelope")
			}
		})
	}
}

func TestTransactionControllerWithdrawSuccess(t *testing.T) {
	handler := newTestRouter(transactionServiceStub{
		withdraw: func(_ context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error) {
			if !req.Amount.Equal(decimal.NewFromInt(100000)) {
				t.Fatalf("unexpected amount %s", req.Amount)
			}
			return commons.SuccessResponse("Withdrawal successful", models.TransactionResponse{
				ReferenceNumber: "TXN202503141509261234",
				BalanceAfter:    decimal.NewFromInt(4900000),
			}), nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/transaction/withdraw",
		strings.NewReader(`{"accountId":"acc-1","atmCode":"ATM-001","amount":"100000"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var body commons.Response[models.TransactionResponse]
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || body.Data == nil || body.Data.ReferenceNumber == "" {
		t.Fatalf("unexpected envelope %+v", body)
	}
}

func TestTransactionControllerWithdrawRejectsMalformedBody(t *testing.T) {
	handler := newTestRouter(transactionServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/api/transaction/withdraw", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestTransactionControllerBalanceNotFound(t *testing.T) {
	handler := newTestRouter(transactionServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/transaction/balance/missing-account", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestTransactionControllerHistoryPassesPaging(t *testing.T) {
	var gotPage, gotPageSize int
	handler := newTestRouter(transactionServiceStub{
		history: func(_ context.Context, accountID string, page, pageSize int) (commons.Response[[]models.TransactionResponse], error) {
			if accountID != "acc-1" {
				t.Fatalf("unexpected account id %q", accountID)
			}
			gotPage, gotPageSize = page, pageSize
			return commons.SuccessResponse("History retrieved", []models.TransactionResponse{}), nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/transaction/history/acc-1?page=3&pageSize=5", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if gotPage != 3 || gotPageSize != 5 {
		t.Fatalf("expected page 3 size 5, got page %d size %d", gotPage, gotPageSize)
	}
}

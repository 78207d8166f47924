package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/controller"
	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/middleware"
	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/http/router"
	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/repository/implementations"
	"github.com/api-sage/atm-transaction-processor/src/internal/atm/device"
	"github.com/api-sage/atm-transaction-processor/src/internal/config"
	"github.com/api-sage/atm-transaction-processor/src/internal/logger"
	"github.com/api-sage/atm-transaction-processor/src/internal/usecase/services"
)

const defaultAtmFloat = 20_000_000

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := implementations.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := implementations.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	accountRepo := implementations.NewAccountRepository(db)
	cardRepo := implementations.NewCardRepository(db)
	transactionRepo := implementations.NewTransactionRepository(db)
	atmRepo := implementations.NewAtmRepository(db)

	// Every ATM that is online in the store gets a simulated cash
	// unit. Codes the registry does not know resolve to an
	// unavailable device.
	devices := device.NewRegistry()
	if atms, err := atmRepo.ListOnline(ctx); err != nil {
		logger.Error("listing online atms failed", err, nil)
	} else {
		for _, atm := range atms {
			devices.Register(atm.AtmCode, device.NewSimulated(defaultAtmFloat))
		}
	}

	tokens := services.NewTokenStore(cfg.TokenTTL)
	authService := services.NewAuthService(cardRepo, accountRepo, tokens)
	transactionService := services.NewTransactionService(
		accountRepo,
		transactionRepo,
		atmRepo,
		devices,
		cfg.BankName,
		cfg.MinNote,
		cfg.MaxTransferAmount,
	)

	handler := router.New(
		controller.NewAuthController(authService),
		controller.NewTransactionController(transactionService),
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
		middleware.BearerToken(authService),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", logger.Fields{"port": cfg.HTTPPort})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Fatalf("shutdown server: %v", err)
		}
		logger.Info("http server stopped", nil)
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/api-sage/atm-transaction-processor/src/internal/adapter/repository/implementations"
	"github.com/api-sage/atm-transaction-processor/src/internal/atm/device"
	"github.com/api-sage/atm-transaction-processor/src/internal/atm/terminal"
	"github.com/api-sage/atm-transaction-processor/src/internal/config"
	"github.com/api-sage/atm-transaction-processor/src/internal/usecase/services"
)

const terminalCashFloat = 20_000_000

// An interactive console for one machine. Runs against the same
// database as the server, with the auth and transaction services
// in-process. The server owns migrations; this binary expects the
// schema to be in place.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	atmCode := strings.TrimSpace(os.Getenv("ATM_CODE"))
	if atmCode == "" {
		atmCode = "ATM-001"
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

	atm, err := atmRepo.GetByCode(ctx, atmCode)
	if err != nil {
		log.Fatalf("look up atm %s: %v", atmCode, err)
	}
	if !atm.IsOnline {
		log.Fatalf("atm %s is offline", atmCode)
	}

	gateway := device.NewSimulated(terminalCashFloat)
	devices := device.NewRegistry()
	devices.Register(atm.AtmCode, gateway)

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

	term := terminal.New(atm.AtmCode, cfg.BankName, gateway, authService, transactionService, cfg.SessionTimeout)

	fmt.Printf("%s terminal %s ready. Type 'help' for commands.\n", cfg.BankName, atm.AtmCode)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Printf("[%s] > ", term.State())
		select {
		case <-ctx.Done():
			term.EndSession()
			fmt.Println()
			return
		case line, ok := <-lines:
			if !ok {
				term.EndSession()
				return
			}
			if quit := run(ctx, term, gateway, line); quit {
				term.EndSession()
				return
			}
		}
	}
}

func run(ctx context.Context, term *terminal.Terminal, gateway *device.Simulated, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "help":
		fmt.Println("commands: card <number>, pin <pin>, balance, withdraw <amount>, deposit <amount>, transfer <account> <amount> [description], end, exit")

	case "card":
		if len(fields) != 2 {
			fmt.Println("usage: card <number>")
			return false
		}
		gateway.InsertCard(fields[1])
		resp, err := term.InsertCard(ctx)
		if err != nil {
			fmt.Printf("card rejected: %v\n", err)
			return false
		}
		fmt.Printf("Welcome %s. Enter your PIN.\n", resp.CustomerName)

	case "pin":
		if len(fields) != 2 {
			fmt.Println("usage: pin <pin>")
			return false
		}
		resp, err := term.SubmitPin(ctx, fields[1])
		if err != nil {
			fmt.Printf("pin rejected: %v\n", err)
			return false
		}
		fmt.Printf("Authenticated. Account %s, balance %s.\n", resp.AccountNumber, resp.Balance.StringFixed(0))

	case "balance":
		resp, err := term.BalanceInquiry(ctx)
		if err != nil {
			say(resp.Message, err)
			return false
		}
		fmt.Printf("Balance: %s\n", resp.Data.BalanceAfter.StringFixed(0))

	case "withdraw":
		amount, ok := parseAmount(fields, 2)
		if !ok {
			fmt.Println("usage: withdraw <amount>")
			return false
		}
		resp, err := term.Withdraw(ctx, amount)
		say(resp.Message, err)
		if err == nil {
			printLastReceipt(gateway)
		}

	case "deposit":
		amount, ok := parseAmount(fields, 2)
		if !ok {
			fmt.Println("usage: deposit <amount>")
			return false
		}
		resp, err := term.Deposit(ctx, amount)
		say(resp.Message, err)
		if err == nil {
			printLastReceipt(gateway)
		}

	case "transfer":
		if len(fields) < 3 {
			fmt.Println("usage: transfer <account> <amount> [description]")
			return false
		}
		amount, err := decimal.NewFromString(fields[2])
		if err != nil {
			fmt.Println("usage: transfer <account> <amount> [description]")
			return false
		}
		resp, err := term.Transfer(ctx, fields[1], amount, strings.Join(fields[3:], " "))
		say(resp.Message, err)
		if err == nil {
			printLastReceipt(gateway)
		}

	case "end":
		term.EndSession()
		fmt.Println("Card ejected. Thank you.")

	case "exit", "quit":
		return true

	default:
		fmt.Printf("unknown command %q, type 'help'\n", fields[0])
	}

	return false
}

// say prefers the customer-facing envelope message; terminal gate
// errors (wrong state, no session) carry no envelope.
func say(message string, err error) {
	if message != "" {
		fmt.Println(message)
		return
	}
	if err != nil {
		fmt.Println(err)
	}
}

func parseAmount(fields []string, want int) (decimal.Decimal, bool) {
	if len(fields) != want {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(fields[want-1])
	if err != nil {
		return decimal.Zero, false
	}
	return amount, true
}

func printLastReceipt(gateway *device.Simulated) {
	printed := gateway.Printed()
	if len(printed) == 0 {
		return
	}
	fmt.Println(printed[len(printed)-1])
}

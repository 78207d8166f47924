package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=atm_banking_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"

const (
	defaultHTTPPort          = "8080"
	defaultChannelID         = "AtmChannel"
	defaultChannelKey        = "AtmChannelKey001"
	defaultMigrationsDir     = "migrations"
	defaultBankName          = "UNION TRUST BANK"
	defaultSessionTimeout    = 60 * time.Second
	defaultTokenTTL          = time.Hour
	defaultMinNote           = "50000"
	defaultMaxTransferAmount = "100000000"
)

type Config struct {
	DatabaseDSN       string
	MigrationsDir     string
	HTTPPort          string
	BankName          string
	ChannelID         string
	ChannelKey        string
	SessionTimeout    time.Duration
	TokenTTL          time.Duration
	MinNote           decimal.Decimal
	MaxTransferAmount decimal.Decimal
}

func Load() (Config, error) {
	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	minNote, err := decimalEnv("MIN_NOTE_DENOMINATION", defaultMinNote)
	if err != nil {
		return Config{}, err
	}

	maxTransfer, err := decimalEnv("MAX_TRANSFER_AMOUNT", defaultMaxTransferAmount)
	if err != nil {
		return Config{}, err
	}

	sessionTimeout, err := durationEnv("SESSION_TIMEOUT_SECONDS", defaultSessionTimeout)
	if err != nil {
		return Config{}, err
	}

	tokenTTL, err := durationEnv("TOKEN_TTL_MINUTES", defaultTokenTTL)
	if err != nil {
		return Config{}, err
	}

	return Config{
		DatabaseDSN:       normalizeConnectionString(conn),
		MigrationsDir:     stringEnv("MIGRATIONS_DIR", defaultMigrationsDir),
		HTTPPort:          stringEnv("HTTP_PORT", defaultHTTPPort),
		BankName:          stringEnv("BANK_NAME", defaultBankName),
		ChannelID:         stringEnv("CHANNEL_ID", defaultChannelID),
		ChannelKey:        stringEnv("CHANNEL_KEY", defaultChannelKey),
		SessionTimeout:    sessionTimeout,
		TokenTTL:          tokenTTL,
		MinNote:           minNote,
		MaxTransferAmount: maxTransfer,
	}, nil
}

func stringEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func decimalEnv(key, fallback string) (decimal.Decimal, error) {
	raw := stringEnv(key, fallback)
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %s: %w", key, err)
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%s must be greater than zero", key)
	}
	return value, nil
}

// durationEnv reads whole units matching the key suffix (seconds or minutes).
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero", key)
	}

	if strings.HasSuffix(key, "_MINUTES") {
		return time.Duration(value) * time.Minute, nil
	}
	return time.Duration(value) * time.Second, nil
}

func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}

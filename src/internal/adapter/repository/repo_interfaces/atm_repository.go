package repo_interfaces

import (
	"context"

	"github.com/api-sage/atm-transaction-processor/src/internal/domain"
)

type AtmRepository interface {
	GetByID(ctx context.Context, id string) (domain.Atm, error)
	GetByCode(ctx context.Context, atmCode string) (domain.Atm, error)
	ListOnline(ctx context.Context) ([]domain.Atm, error)
}

package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/atm-transaction-processor/src/internal/commons"
	"github.com/api-sage/atm-transaction-processor/src/internal/domain"
	"github.com/api-sage/atm-transaction-processor/src/internal/logger"
)

type AtmRepository struct {
	db *sql.DB
}

func NewAtmRepository(db *sql.DB) *AtmRepository {
	return &AtmRepository{db: db}
}

const atmColumns = `id, atm_code, location, is_online, last_refill, created_at`

func (r *AtmRepository) GetByID(ctx context.Context, id string) (domain.Atm, error) {
	const query = `SELECT ` + atmColumns + ` FROM atms WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *AtmRepository) GetByCode(ctx context.Context, atmCode string) (domain.Atm, error) {
	const query = `SELECT ` + atmColumns + ` FROM atms WHERE atm_code = $1`
	return r.getOne(ctx, query, atmCode)
}

func (r *AtmRepository) getOne(ctx context.Context, query string, arg any) (domain.Atm, error) {
	var atm domain.Atm
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&atm.ID,
		&atm.AtmCode,
		&atm.Location,
		&atm.IsOnline,
		&atm.LastRefill,
		&atm.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Atm{}, commons.ErrAtmNotFound
		}
		logger.Error("atm repository get failed", err, nil)
		return domain.Atm{}, fmt.Errorf("get atm: %w", err)
	}

	return atm, nil
}

func (r *AtmRepository) ListOnline(ctx context.Context) ([]domain.Atm, error) {
	const query = `SELECT ` + atmColumns + ` FROM atms WHERE is_online ORDER BY atm_code`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("atm repository list online failed", err, nil)
		return nil, fmt.Errorf("list online atms: %w", err)
	}
	defer rows.Close()

	atms := make([]domain.Atm, 0)
	for rows.Next() {
		var atm domain.Atm
		if err := rows.Scan(&atm.ID, &atm.AtmCode, &atm.Location, &atm.IsOnline, &atm.LastRefill, &atm.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan atm: %w", err)
		}
		atms = append(atms, atm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate atms: %w", err)
	}

	return atms, nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	"github.com/cantinatita/card_ledger_app/internal/models"
	"github.com/cantinatita/card_ledger_app/internal/utils/mapping"
)

type PgxAuthorizationRepository struct {
	BaseRepository
}

// newPgxAuthorizationRepository creates a new repository for negative-balance authorizations.
func newPgxAuthorizationRepository(pool *pgxpool.Pool) portsrepo.AuthorizationRepositoryWithTx {
	return &PgxAuthorizationRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxAuthorizationRepository implements portsrepo.AuthorizationRepositoryWithTx
var _ portsrepo.AuthorizationRepositoryWithTx = (*PgxAuthorizationRepository)(nil)

const authorizationColumns = `authorization_id, card_number, authorized_by_staff_id, balance_before, amount, resulting_balance, justification, authorized_at, consumption_event_id, settled, settled_at, settling_event_id, created_at, created_by, last_updated_at, last_updated_by`

func scanAuthorization(row pgx.Row) (*domain.Authorization, error) {
	var m models.Authorization
	err := row.Scan(
		&m.AuthorizationID,
		&m.CardNumber,
		&m.AuthorizedByStaff,
		&m.BalanceBefore,
		&m.Amount,
		&m.ResultingBalance,
		&m.Justification,
		&m.AuthorizedAt,
		&m.ConsumptionEventID,
		&m.Settled,
		&m.SettledAt,
		&m.SettlingEventID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	authorization := mapping.ToDomainAuthorization(m)
	return &authorization, nil
}

func scanAuthorizationRows(rows pgx.Rows) ([]domain.Authorization, error) {
	defer rows.Close()

	var ms []models.Authorization
	for rows.Next() {
		var m models.Authorization
		if err := rows.Scan(
			&m.AuthorizationID,
			&m.CardNumber,
			&m.AuthorizedByStaff,
			&m.BalanceBefore,
			&m.Amount,
			&m.ResultingBalance,
			&m.Justification,
			&m.AuthorizedAt,
			&m.ConsumptionEventID,
			&m.Settled,
			&m.SettledAt,
			&m.SettlingEventID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan authorization row: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating authorization rows: %w", err)
	}
	return mapping.ToDomainAuthorizationSlice(ms), nil
}

// SaveAuthorization persists a freshly approved authorization.
func (r *PgxAuthorizationRepository) SaveAuthorization(ctx context.Context, authorization domain.Authorization) error {
	m := mapping.ToModelAuthorization(authorization)

	query := `
		INSERT INTO negative_balance_authorizations (` + authorizationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AuthorizationID,
		m.CardNumber,
		m.AuthorizedByStaff,
		m.BalanceBefore,
		m.Amount,
		m.ResultingBalance,
		m.Justification,
		m.AuthorizedAt,
		m.ConsumptionEventID,
		m.Settled,
		m.SettledAt,
		m.SettlingEventID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: authorization %s already exists", apperrors.ErrDuplicate, m.AuthorizationID)
		}
		return fmt.Errorf("failed to save authorization %s: %w", m.AuthorizationID, err)
	}
	return nil
}

// FindAuthorizationByID retrieves a specific authorization.
func (r *PgxAuthorizationRepository) FindAuthorizationByID(ctx context.Context, authorizationID string) (*domain.Authorization, error) {
	query := `SELECT ` + authorizationColumns + ` FROM negative_balance_authorizations WHERE authorization_id = $1;`
	authorization, err := scanAuthorization(r.Pool.QueryRow(ctx, query, authorizationID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find authorization %s: %w", authorizationID, err)
	}
	return authorization, nil
}

// ListAuthorizationsByCard retrieves a card's authorizations, oldest first.
func (r *PgxAuthorizationRepository) ListAuthorizationsByCard(ctx context.Context, cardNumber string, unsettledOnly bool) ([]domain.Authorization, error) {
	query := `
		SELECT ` + authorizationColumns + `
		FROM negative_balance_authorizations
		WHERE card_number = $1
	`
	if unsettledOnly {
		query += ` AND settled = FALSE`
	}
	query += ` ORDER BY authorized_at, created_at;`

	rows, err := r.Pool.Query(ctx, query, cardNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list authorizations for card %s: %w", cardNumber, err)
	}
	return scanAuthorizationRows(rows)
}

// FindAuthorizationForUpdate selects an authorization and locks it within a transaction.
func (r *PgxAuthorizationRepository) FindAuthorizationForUpdate(ctx context.Context, tx pgx.Tx, authorizationID string) (*domain.Authorization, error) {
	query := `SELECT ` + authorizationColumns + ` FROM negative_balance_authorizations WHERE authorization_id = $1 FOR UPDATE;`
	authorization, err := scanAuthorization(tx.QueryRow(ctx, query, authorizationID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock authorization %s: %w", authorizationID, err)
	}
	return authorization, nil
}

// FindUnsettledByCardForUpdate selects and locks the card's outstanding
// debts, oldest first, so settlement order is stable. An authorization
// whose debit never committed is no debt: approvals without a consumption
// event stay out of the working set.
func (r *PgxAuthorizationRepository) FindUnsettledByCardForUpdate(ctx context.Context, tx pgx.Tx, cardNumber string) ([]domain.Authorization, error) {
	query := `
		SELECT ` + authorizationColumns + `
		FROM negative_balance_authorizations
		WHERE card_number = $1 AND settled = FALSE AND consumption_event_id IS NOT NULL
		ORDER BY authorized_at, created_at
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, cardNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to lock unsettled authorizations for card %s: %w", cardNumber, err)
	}
	return scanAuthorizationRows(rows)
}

// MarkConsumedInTx links the consumption event that spent the authorization.
// The guard on consumption_event_id makes double-spending impossible even if
// two transactions race past the service checks.
func (r *PgxAuthorizationRepository) MarkConsumedInTx(ctx context.Context, tx pgx.Tx, authorizationID string, consumptionEventID string, staffID string, now time.Time) error {
	query := `
		UPDATE negative_balance_authorizations
		SET consumption_event_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE authorization_id = $1 AND consumption_event_id IS NULL;
	`
	tag, err := tx.Exec(ctx, query, authorizationID, consumptionEventID, now, staffID)
	if err != nil {
		return fmt.Errorf("failed to mark authorization %s consumed: %w", authorizationID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: authorization %s already consumed", apperrors.ErrConflict, authorizationID)
	}
	return nil
}

// MarkSettledInTx marks an authorization settled by a top-up event.
// Settling an already-settled authorization is a no-op.
func (r *PgxAuthorizationRepository) MarkSettledInTx(ctx context.Context, tx pgx.Tx, authorizationID string, settlingEventID string, staffID string, now time.Time) error {
	query := `
		UPDATE negative_balance_authorizations
		SET settled = TRUE, settled_at = $2, settling_event_id = $3, last_updated_at = $2, last_updated_by = $4
		WHERE authorization_id = $1 AND settled = FALSE;
	`
	if _, err := tx.Exec(ctx, query, authorizationID, now, settlingEventID, staffID); err != nil {
		return fmt.Errorf("failed to mark authorization %s settled: %w", authorizationID, err)
	}
	return nil
}

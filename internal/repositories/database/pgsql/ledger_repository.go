package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	"github.com/cantinatita/card_ledger_app/internal/models"
	"github.com/cantinatita/card_ledger_app/internal/utils/mapping"
	"github.com/cantinatita/card_ledger_app/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger events.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const ledgerEventColumns = `event_id, card_number, event_type, amount, balance_before, balance_after, event_at, authorization_id, sale_id, created_at, created_by, last_updated_at, last_updated_by`

func scanLedgerEvent(row pgx.Row) (*domain.LedgerEvent, error) {
	var m models.LedgerEvent
	err := row.Scan(
		&m.EventID,
		&m.CardNumber,
		&m.EventType,
		&m.Amount,
		&m.BalanceBefore,
		&m.BalanceAfter,
		&m.EventAt,
		&m.AuthorizationID,
		&m.SaleID,
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
	event := mapping.ToDomainLedgerEvent(m)
	return &event, nil
}

// SaveEventInTx appends one event within a transaction. The table carries
// no UPDATE path for the monetary columns; events are immutable once written.
func (r *PgxLedgerRepository) SaveEventInTx(ctx context.Context, tx pgx.Tx, event domain.LedgerEvent) error {
	m := mapping.ToModelLedgerEvent(event)

	query := `
		INSERT INTO ledger_events (` + ledgerEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := tx.Exec(ctx, query,
		m.EventID,
		m.CardNumber,
		m.EventType,
		m.Amount,
		m.BalanceBefore,
		m.BalanceAfter,
		m.EventAt,
		m.AuthorizationID,
		m.SaleID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: event %s already exists", apperrors.ErrDuplicate, m.EventID)
		}
		return fmt.Errorf("failed to save ledger event %s: %w", m.EventID, err)
	}
	return nil
}

// LinkSaleInTx stamps the generated sale id onto a top-up event.
func (r *PgxLedgerRepository) LinkSaleInTx(ctx context.Context, tx pgx.Tx, eventID string, saleID string) error {
	query := `UPDATE ledger_events SET sale_id = $2 WHERE event_id = $1 AND sale_id IS NULL;`
	tag, err := tx.Exec(ctx, query, eventID, saleID)
	if err != nil {
		return fmt.Errorf("failed to link sale %s to event %s: %w", saleID, eventID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: event %s missing or already linked to a sale", apperrors.ErrConflict, eventID)
	}
	return nil
}

// FindEventByID retrieves a ledger event by its unique identifier.
func (r *PgxLedgerRepository) FindEventByID(ctx context.Context, eventID string) (*domain.LedgerEvent, error) {
	query := `SELECT ` + ledgerEventColumns + ` FROM ledger_events WHERE event_id = $1;`
	event, err := scanLedgerEvent(r.Pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event %s: %w", eventID, err)
	}
	return event, nil
}

// ListEventsByCard retrieves a page of a card's events using keyset
// pagination on (event_at, created_at), newest first.
func (r *PgxLedgerRepository) ListEventsByCard(ctx context.Context, cardNumber string, limit int, nextToken *string) ([]domain.LedgerEvent, *string, error) {
	args := []interface{}{cardNumber}
	query := `
		SELECT ` + ledgerEventColumns + `
		FROM ledger_events
		WHERE card_number = $1
	`

	if nextToken != nil && *nextToken != "" {
		eventAt, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		query += ` AND (event_at, created_at) < ($2, $3)`
		args = append(args, eventAt, createdAt)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY event_at DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list events for card %s: %w", cardNumber, err)
	}
	defer rows.Close()

	var events []models.LedgerEvent
	for rows.Next() {
		var m models.LedgerEvent
		if err := rows.Scan(
			&m.EventID,
			&m.CardNumber,
			&m.EventType,
			&m.Amount,
			&m.BalanceBefore,
			&m.BalanceAfter,
			&m.EventAt,
			&m.AuthorizationID,
			&m.SaleID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	var token *string
	if len(events) > limit {
		events = events[:limit]
		last := events[len(events)-1]
		t := pagination.EncodeToken(last.EventAt, last.CreatedAt)
		token = &t
	}

	return mapping.ToDomainLedgerEventSlice(events), token, nil
}

// SumSignedAmounts recomputes a card's balance from the event log.
func (r *PgxLedgerRepository) SumSignedAmounts(ctx context.Context, cardNumber string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN event_type = 'TOPUP' THEN amount ELSE -amount END), 0)
		FROM ledger_events
		WHERE card_number = $1;
	`
	var sum int64
	if err := r.Pool.QueryRow(ctx, query, cardNumber).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum events for card %s: %w", cardNumber, err)
	}
	return sum, nil
}

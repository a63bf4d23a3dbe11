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

type PgxCardRepository struct {
	BaseRepository
}

// newPgxCardRepository creates a new repository for card data.
func newPgxCardRepository(pool *pgxpool.Pool) portsrepo.CardRepositoryWithTx {
	return &PgxCardRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxCardRepository implements portsrepo.CardRepositoryWithTx
var _ portsrepo.CardRepositoryWithTx = (*PgxCardRepository)(nil)

const cardColumns = `card_number, student_id, guardian_client_id, status, balance, allows_negative, credit_limit, notify_low_balance, last_notified_at, created_at, created_by, last_updated_at, last_updated_by`

func scanCard(row pgx.Row) (*domain.Card, error) {
	var m models.Card
	err := row.Scan(
		&m.CardNumber,
		&m.StudentID,
		&m.GuardianClientID,
		&m.Status,
		&m.Balance,
		&m.AllowsNegative,
		&m.CreditLimit,
		&m.NotifyLowBalance,
		&m.LastNotifiedAt,
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
	card := mapping.ToDomainCard(m)
	return &card, nil
}

// SaveCard inserts a newly issued card.
func (r *PgxCardRepository) SaveCard(ctx context.Context, card domain.Card) error {
	m := mapping.ToModelCard(card)

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CardNumber,
		m.StudentID,
		m.GuardianClientID,
		m.Status,
		m.Balance,
		m.AllowsNegative,
		m.CreditLimit,
		m.NotifyLowBalance,
		m.LastNotifiedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: card %s already exists", apperrors.ErrDuplicate, m.CardNumber)
		}
		return fmt.Errorf("failed to save card %s: %w", m.CardNumber, err)
	}
	return nil
}

// FindCardByNumber retrieves a card by its printed number.
func (r *PgxCardRepository) FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_number = $1;`
	card, err := scanCard(r.Pool.QueryRow(ctx, query, cardNumber))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find card %s: %w", cardNumber, err)
	}
	return card, nil
}

// ListCards retrieves a paginated list of cards ordered by issue date.
func (r *PgxCardRepository) ListCards(ctx context.Context, limit int, offset int) ([]domain.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		ORDER BY created_at DESC, card_number
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var m models.Card
		if err := rows.Scan(
			&m.CardNumber,
			&m.StudentID,
			&m.GuardianClientID,
			&m.Status,
			&m.Balance,
			&m.AllowsNegative,
			&m.CreditLimit,
			&m.NotifyLowBalance,
			&m.LastNotifiedAt,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card rows: %w", err)
	}

	return mapping.ToDomainCardSlice(cards), nil
}

// UpdateCardStatus transitions a card's lifecycle status.
func (r *PgxCardRepository) UpdateCardStatus(ctx context.Context, cardNumber string, status domain.CardStatus, staffID string, now time.Time) error {
	query := `
		UPDATE cards
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE card_number = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, cardNumber, string(status), now, staffID)
	if err != nil {
		return fmt.Errorf("failed to update status of card %s: %w", cardNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateCardPolicy updates the negative-balance policy fields.
func (r *PgxCardRepository) UpdateCardPolicy(ctx context.Context, cardNumber string, allowsNegative bool, creditLimit int64, notifyLowBalance bool, staffID string, now time.Time) error {
	query := `
		UPDATE cards
		SET allows_negative = $2, credit_limit = $3, notify_low_balance = $4, last_updated_at = $5, last_updated_by = $6
		WHERE card_number = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, cardNumber, allowsNegative, creditLimit, notifyLowBalance, now, staffID)
	if err != nil {
		return fmt.Errorf("failed to update policy of card %s: %w", cardNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkNotified stamps last_notified_at for the external dispatcher.
func (r *PgxCardRepository) MarkNotified(ctx context.Context, cardNumber string, at time.Time) error {
	query := `UPDATE cards SET last_notified_at = $2 WHERE card_number = $1;`
	tag, err := r.Pool.Exec(ctx, query, cardNumber, at)
	if err != nil {
		return fmt.Errorf("failed to mark card %s notified: %w", cardNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindCardByNumberForUpdate selects a card and locks its row within a
// transaction. Concurrent ledger operations on the same card queue here.
func (r *PgxCardRepository) FindCardByNumberForUpdate(ctx context.Context, tx pgx.Tx, cardNumber string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_number = $1 FOR UPDATE;`
	card, err := scanCard(tx.QueryRow(ctx, query, cardNumber))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock card %s: %w", cardNumber, err)
	}
	return card, nil
}

// UpdateCardBalanceInTx writes the balance projection within a transaction.
func (r *PgxCardRepository) UpdateCardBalanceInTx(ctx context.Context, tx pgx.Tx, cardNumber string, newBalance int64, staffID string, now time.Time) error {
	query := `
		UPDATE cards
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE card_number = $1;
	`
	tag, err := tx.Exec(ctx, query, cardNumber, newBalance, now, staffID)
	if err != nil {
		return fmt.Errorf("failed to update balance of card %s: %w", cardNumber, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

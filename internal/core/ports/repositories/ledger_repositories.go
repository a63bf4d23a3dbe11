package repositories

import (
	"context"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LedgerEventReader defines read operations for ledger events
type LedgerEventReader interface {
	// FindEventByID retrieves a specific ledger event by its unique identifier.
	FindEventByID(ctx context.Context, eventID string) (*domain.LedgerEvent, error)

	// ListEventsByCard retrieves a paginated list of events for a card using
	// token-based pagination, newest first. It returns the events, a token
	// for the next page, and an error.
	ListEventsByCard(ctx context.Context, cardNumber string, limit int, nextToken *string) ([]domain.LedgerEvent, *string, error)

	// SumSignedAmounts recomputes a card's balance independently from the
	// event log (top-ups positive, consumptions negative).
	SumSignedAmounts(ctx context.Context, cardNumber string) (int64, error)
}

// LedgerEventWriter defines write operations for ledger events.
// Events are append-only; there is no update or delete.
type LedgerEventWriter interface {
	// SaveEventInTx appends one event within a given transaction.
	SaveEventInTx(ctx context.Context, tx pgx.Tx, event domain.LedgerEvent) error

	// LinkSaleInTx stamps the generated sale id onto a top-up event within
	// the same transaction that created both.
	LinkSaleInTx(ctx context.Context, tx pgx.Tx, eventID string, saleID string) error
}

// LedgerRepositoryFacade combines all ledger-event repository interfaces
type LedgerRepositoryFacade interface {
	LedgerEventReader
	LedgerEventWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}

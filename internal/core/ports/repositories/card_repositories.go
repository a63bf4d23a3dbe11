package repositories

import (
	"context"
	"time"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CardReader defines read operations for card data
type CardReader interface {
	// FindCardByNumber retrieves a specific card by its printed number.
	FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error)

	// ListCards retrieves a paginated list of cards.
	ListCards(ctx context.Context, limit int, offset int) ([]domain.Card, error)
}

// CardWriter defines write operations for card data.
// Note the deliberate absence of a balance setter: the balance projection is
// only writable through CardTransactionSupport inside a ledger transaction.
type CardWriter interface {
	// SaveCard persists a newly issued card.
	SaveCard(ctx context.Context, card domain.Card) error

	// UpdateCardStatus transitions a card's lifecycle status.
	UpdateCardStatus(ctx context.Context, cardNumber string, status domain.CardStatus, staffID string, now time.Time) error

	// UpdateCardPolicy updates the negative-balance policy fields.
	UpdateCardPolicy(ctx context.Context, cardNumber string, allowsNegative bool, creditLimit int64, notifyLowBalance bool, staffID string, now time.Time) error

	// MarkNotified stamps last_notified_at for the external dispatcher.
	MarkNotified(ctx context.Context, cardNumber string, at time.Time) error
}

// CardTransactionSupport defines operations that support ledger transactions
type CardTransactionSupport interface {
	// FindCardByNumberForUpdate selects a card and locks its row for update
	// within a transaction, serializing concurrent balance operations per card.
	FindCardByNumberForUpdate(ctx context.Context, tx pgx.Tx, cardNumber string) (*domain.Card, error)

	// UpdateCardBalanceInTx writes the balance projection within a given transaction.
	UpdateCardBalanceInTx(ctx context.Context, tx pgx.Tx, cardNumber string, newBalance int64, staffID string, now time.Time) error
}

// CardRepositoryFacade combines all card-related repository interfaces
type CardRepositoryFacade interface {
	CardReader
	CardWriter
	CardTransactionSupport
}

// CardRepositoryWithTx extends CardRepositoryFacade with transaction capabilities
type CardRepositoryWithTx interface {
	CardRepositoryFacade
	TransactionManager
}

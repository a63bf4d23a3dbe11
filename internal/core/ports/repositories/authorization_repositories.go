package repositories

import (
	"context"
	"time"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AuthorizationReader defines read operations for negative-balance authorizations
type AuthorizationReader interface {
	// FindAuthorizationByID retrieves a specific authorization.
	FindAuthorizationByID(ctx context.Context, authorizationID string) (*domain.Authorization, error)

	// ListAuthorizationsByCard retrieves authorizations for a card, oldest
	// first, optionally restricted to unsettled ones.
	ListAuthorizationsByCard(ctx context.Context, cardNumber string, unsettledOnly bool) ([]domain.Authorization, error)
}

// AuthorizationWriter defines write operations for authorizations
type AuthorizationWriter interface {
	// SaveAuthorization persists a freshly approved authorization.
	SaveAuthorization(ctx context.Context, authorization domain.Authorization) error
}

// AuthorizationTransactionSupport defines operations used inside ledger transactions
type AuthorizationTransactionSupport interface {
	// FindAuthorizationForUpdate selects an authorization and locks it within a transaction.
	FindAuthorizationForUpdate(ctx context.Context, tx pgx.Tx, authorizationID string) (*domain.Authorization, error)

	// FindUnsettledByCardForUpdate selects and locks the card's consumed,
	// unsettled authorizations, ordered oldest first. Approvals whose debit
	// never committed are excluded.
	FindUnsettledByCardForUpdate(ctx context.Context, tx pgx.Tx, cardNumber string) ([]domain.Authorization, error)

	// MarkConsumedInTx links the consumption event that spent the authorization.
	MarkConsumedInTx(ctx context.Context, tx pgx.Tx, authorizationID string, consumptionEventID string, staffID string, now time.Time) error

	// MarkSettledInTx marks an authorization settled by a top-up event.
	// Marking an already-settled authorization is a no-op.
	MarkSettledInTx(ctx context.Context, tx pgx.Tx, authorizationID string, settlingEventID string, staffID string, now time.Time) error
}

// AuthorizationRepositoryFacade combines all authorization repository interfaces
type AuthorizationRepositoryFacade interface {
	AuthorizationReader
	AuthorizationWriter
	AuthorizationTransactionSupport
}

// AuthorizationRepositoryWithTx extends AuthorizationRepositoryFacade with transaction capabilities
type AuthorizationRepositoryWithTx interface {
	AuthorizationRepositoryFacade
	TransactionManager
}

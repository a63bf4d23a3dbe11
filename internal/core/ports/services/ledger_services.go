package services

import (
	"context"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/cantinatita/card_ledger_app/internal/dto"
)

// LedgerSvcFacade is the balance ledger: the only path by which card
// balances change. Top-ups and consumptions run under a per-card lock so
// concurrent operations on the same card serialize.
type LedgerSvcFacade interface {
	// ApplyTopup credits the card, generates the companion sale record in
	// the same transaction, and settles outstanding authorizations
	// oldest-first as far as the new balance covers them.
	ApplyTopup(ctx context.Context, cardNumber string, req dto.TopupRequest, staffID string) (*domain.LedgerEvent, error)

	// ApplyConsumption debits the card. A debit that drives the balance
	// negative requires a valid unconsumed authorization for the exact
	// amount on the same card.
	ApplyConsumption(ctx context.Context, cardNumber string, req dto.ConsumptionRequest, staffID string) (*domain.LedgerEvent, error)

	GetEvent(ctx context.Context, eventID string) (*domain.LedgerEvent, error)
	ListEventsByCard(ctx context.Context, cardNumber string, limit int, nextToken *string) ([]domain.LedgerEvent, *string, error)

	// CheckBalanceIntegrity recomputes the balance from the event log and
	// compares it with the materialized projection on the card row.
	CheckBalanceIntegrity(ctx context.Context, cardNumber string) (*dto.BalanceIntegrityResponse, error)

	// ListPendingNotifications returns balance notifications not yet picked
	// up by the external dispatcher, oldest first.
	ListPendingNotifications(ctx context.Context, cardNumber string, limit int) ([]domain.BalanceNotification, error)

	// AcknowledgeNotifications stamps the given notifications as delivered
	// and records the delivery time on the card. Returns how many rows were
	// newly acknowledged.
	AcknowledgeNotifications(ctx context.Context, cardNumber string, notificationIDs []string) (int64, error)
}

package services

import (
	"context"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
)

// AuthorizationSvcFacade manages negative-balance authorizations:
// previewing the resulting balance, recording supervisor approvals and
// querying the outstanding set.
type AuthorizationSvcFacade interface {
	// PreviewAuthorization computes the facts a supervisor reviews before
	// approving. Nothing is persisted.
	PreviewAuthorization(ctx context.Context, cardNumber string, amount int64) (*domain.AuthorizationRequest, error)

	// ApproveAuthorization records a supervisor's approval for a debit of
	// the given exact amount on the card.
	ApproveAuthorization(ctx context.Context, cardNumber string, amount int64, justification, staffID string) (*domain.Authorization, error)

	GetAuthorization(ctx context.Context, authorizationID string) (*domain.Authorization, error)
	ListAuthorizationsByCard(ctx context.Context, cardNumber string, unsettledOnly bool) ([]domain.Authorization, error)
}

// StaffAuthority answers whether a staff member may approve
// negative-balance authorizations.
type StaffAuthority interface {
	IsAuthorizedSupervisor(ctx context.Context, staffID string) (bool, error)
}

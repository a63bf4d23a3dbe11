package services

import (
	"context"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	"github.com/cantinatita/card_ledger_app/internal/dto"
)

// CardSvcFacade manages the card registry: issuing cards, lifecycle
// status transitions and the negative-balance policy.
type CardSvcFacade interface {
	IssueCard(ctx context.Context, req dto.IssueCardRequest, staffID string) (*domain.Card, error)
	GetCard(ctx context.Context, cardNumber string) (*domain.Card, error)

	// GetNegativeBalancePolicy exposes the policy view consulted before
	// requesting a supervisor authorization at the point of sale.
	GetNegativeBalancePolicy(ctx context.Context, cardNumber string) (*domain.NegativeBalancePolicy, error)
	ListCards(ctx context.Context, limit, offset int) ([]domain.Card, error)
	UpdateCardStatus(ctx context.Context, cardNumber string, status domain.CardStatus, staffID string) (*domain.Card, error)
	UpdateCardPolicy(ctx context.Context, cardNumber string, req dto.UpdateCardPolicyRequest, staffID string) (*domain.Card, error)
}

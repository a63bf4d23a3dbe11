package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/middleware"
)

var (
	// ErrAuthorizationUnnecessary is returned when the requested debit does
	// not drive the balance negative, so no supervisor approval is needed.
	ErrAuthorizationUnnecessary = errors.New("debit does not require authorization")

	// ErrJustificationMissing is returned when a supervisor approves
	// without stating a reason.
	ErrJustificationMissing = errors.New("authorization justification is required")
)

// authorizationService manages negative-balance authorizations.
type authorizationService struct {
	cardRepo  portsrepo.CardRepositoryWithTx
	authRepo  portsrepo.AuthorizationRepositoryWithTx
	authority portssvc.StaffAuthority
}

// NewAuthorizationService creates a new AuthorizationService.
func NewAuthorizationService(authRepo portsrepo.AuthorizationRepositoryWithTx, cardRepo portsrepo.CardRepositoryWithTx, authority portssvc.StaffAuthority) portssvc.AuthorizationSvcFacade {
	return &authorizationService{
		cardRepo:  cardRepo,
		authRepo:  authRepo,
		authority: authority,
	}
}

// Ensure authorizationService implements the portssvc.AuthorizationSvcFacade interface
var _ portssvc.AuthorizationSvcFacade = (*authorizationService)(nil)

// buildRequest validates the card's policy against the requested debit and
// assembles the facts shown to the supervisor. Shared by preview and approve.
func (s *authorizationService) buildRequest(card *domain.Card, amount int64) (*domain.AuthorizationRequest, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: debit amount must be positive", apperrors.ErrValidation)
	}
	if !card.IsActive() {
		return nil, ErrCardNotActive
	}

	resulting := card.Balance - amount
	if resulting >= 0 {
		return nil, ErrAuthorizationUnnecessary
	}
	if !card.AllowsNegative {
		return nil, ErrInsufficientBalance
	}
	if resulting < -card.CreditLimit {
		return nil, ErrCreditLimitExceeded
	}

	return &domain.AuthorizationRequest{
		CardNumber:           card.CardNumber,
		CurrentBalance:       card.Balance,
		RequestedAmount:      amount,
		ResultingBalance:     resulting,
		CreditLimit:          card.CreditLimit,
		CreditLimitRemaining: card.CreditLimit + resulting,
	}, nil
}

// PreviewAuthorization computes the facts a supervisor reviews before
// approving an over-limit debit. Nothing is persisted.
func (s *authorizationService) PreviewAuthorization(ctx context.Context, cardNumber string, amount int64) (*domain.AuthorizationRequest, error) {
	card, err := s.cardRepo.FindCardByNumber(ctx, cardNumber)
	if err != nil {
		return nil, err
	}
	return s.buildRequest(card, amount)
}

// ApproveAuthorization records a supervisor's approval for a debit of the
// given exact amount. The balance figures are captured at approval time;
// the consumption itself revalidates against the live balance.
func (s *authorizationService) ApproveAuthorization(ctx context.Context, cardNumber string, amount int64, justification, staffID string) (*domain.Authorization, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(justification) == "" {
		return nil, ErrJustificationMissing
	}

	ok, err := s.authority.IsAuthorizedSupervisor(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to check supervisor authority: %w", err)
	}
	if !ok {
		logger.Warn("Staff member lacks authority to approve negative balances", slog.String("staff_id", staffID))
		return nil, apperrors.ErrForbidden
	}

	card, err := s.cardRepo.FindCardByNumber(ctx, cardNumber)
	if err != nil {
		return nil, err
	}

	request, err := s.buildRequest(card, amount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	authorization := domain.Authorization{
		AuthorizationID:   uuid.NewString(),
		CardNumber:        cardNumber,
		AuthorizedByStaff: staffID,
		BalanceBefore:     request.CurrentBalance,
		Amount:            amount,
		ResultingBalance:  request.ResultingBalance,
		Justification:     justification,
		AuthorizedAt:      now,
		Settled:           false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}

	if err := s.authRepo.SaveAuthorization(ctx, authorization); err != nil {
		logger.Error("Failed to save authorization", slog.String("card_number", cardNumber), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save authorization: %w", err)
	}

	logger.Info("Negative-balance debit authorized",
		slog.String("authorization_id", authorization.AuthorizationID),
		slog.String("card_number", cardNumber),
		slog.Int64("amount", amount),
		slog.Int64("resulting_balance", authorization.ResultingBalance))

	return &authorization, nil
}

// GetAuthorization retrieves a specific authorization.
func (s *authorizationService) GetAuthorization(ctx context.Context, authorizationID string) (*domain.Authorization, error) {
	authorization, err := s.authRepo.FindAuthorizationByID(ctx, authorizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find authorization %s: %w", authorizationID, err)
	}
	return authorization, nil
}

// ListAuthorizationsByCard retrieves a card's authorizations, oldest first.
func (s *authorizationService) ListAuthorizationsByCard(ctx context.Context, cardNumber string, unsettledOnly bool) ([]domain.Authorization, error) {
	if _, err := s.cardRepo.FindCardByNumber(ctx, cardNumber); err != nil {
		return nil, err
	}
	authorizations, err := s.authRepo.ListAuthorizationsByCard(ctx, cardNumber, unsettledOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list authorizations for card %s: %w", cardNumber, err)
	}
	return authorizations, nil
}

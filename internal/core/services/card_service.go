package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/dto"
	"github.com/cantinatita/card_ledger_app/internal/middleware"
)

// cardService implements the card registry operations.
type cardService struct {
	cardRepo portsrepo.CardRepositoryWithTx
}

// NewCardService creates a new CardService.
func NewCardService(cardRepo portsrepo.CardRepositoryWithTx) portssvc.CardSvcFacade {
	return &cardService{
		cardRepo: cardRepo,
	}
}

// Ensure cardService implements the portssvc.CardSvcFacade interface
var _ portssvc.CardSvcFacade = (*cardService)(nil)

// IssueCard registers a new card for a student. Cards start ACTIVE with a
// zero balance; the balance itself is only ever touched by the ledger.
func (s *cardService) IssueCard(ctx context.Context, req dto.IssueCardRequest, staffID string) (*domain.Card, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.CreditLimit < 0 {
		return nil, fmt.Errorf("%w: credit limit must not be negative", apperrors.ErrValidation)
	}
	if !req.AllowsNegative && req.CreditLimit > 0 {
		return nil, fmt.Errorf("%w: credit limit requires the negative-balance policy to be enabled", apperrors.ErrValidation)
	}

	existing, err := s.cardRepo.FindCardByNumber(ctx, req.CardNumber)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing card: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: card number %s is already issued", apperrors.ErrDuplicate, req.CardNumber)
	}

	notifyLowBalance := true
	if req.NotifyLowBalance != nil {
		notifyLowBalance = *req.NotifyLowBalance
	}

	now := time.Now().UTC()
	card := domain.Card{
		CardNumber:       req.CardNumber,
		StudentID:        req.StudentID,
		GuardianClientID: req.GuardianClientID,
		Status:           domain.CardActive,
		Balance:          0,
		AllowsNegative:   req.AllowsNegative,
		CreditLimit:      req.CreditLimit,
		NotifyLowBalance: notifyLowBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}

	if err := s.cardRepo.SaveCard(ctx, card); err != nil {
		logger.Error("Failed to save card", slog.String("card_number", req.CardNumber), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save card: %w", err)
	}

	logger.Info("Card issued", slog.String("card_number", card.CardNumber), slog.String("student_id", card.StudentID))
	return &card, nil
}

// GetCard retrieves a card by its printed number.
func (s *cardService) GetCard(ctx context.Context, cardNumber string) (*domain.Card, error) {
	card, err := s.cardRepo.FindCardByNumber(ctx, cardNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find card %s: %w", cardNumber, err)
	}
	return card, nil
}

// GetNegativeBalancePolicy returns the card's negative-balance policy view.
func (s *cardService) GetNegativeBalancePolicy(ctx context.Context, cardNumber string) (*domain.NegativeBalancePolicy, error) {
	card, err := s.cardRepo.FindCardByNumber(ctx, cardNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find card %s: %w", cardNumber, err)
	}
	return &domain.NegativeBalancePolicy{
		CardNumber:     card.CardNumber,
		AllowsNegative: card.AllowsNegative,
		CreditLimit:    card.CreditLimit,
	}, nil
}

// ListCards retrieves a paginated list of cards.
func (s *cardService) ListCards(ctx context.Context, limit, offset int) ([]domain.Card, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	cards, err := s.cardRepo.ListCards(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// UpdateCardStatus transitions a card's lifecycle status. Blocked and
// inactive cards keep their balance; they just refuse ledger operations.
func (s *cardService) UpdateCardStatus(ctx context.Context, cardNumber string, status domain.CardStatus, staffID string) (*domain.Card, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	switch status {
	case domain.CardActive, domain.CardInactive, domain.CardBlocked:
	default:
		return nil, fmt.Errorf("%w: unknown card status %q", apperrors.ErrValidation, status)
	}

	card, err := s.cardRepo.FindCardByNumber(ctx, cardNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.cardRepo.UpdateCardStatus(ctx, cardNumber, status, staffID, now); err != nil {
		logger.Error("Failed to update card status", slog.String("card_number", cardNumber), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update card status: %w", err)
	}

	logger.Info("Card status updated",
		slog.String("card_number", cardNumber),
		slog.String("from", string(card.Status)),
		slog.String("to", string(status)))

	card.Status = status
	card.LastUpdatedAt = now
	card.LastUpdatedBy = staffID
	return card, nil
}

// UpdateCardPolicy updates the negative-balance policy for a card.
// Disabling the policy does not touch an already-negative balance; it only
// stops new over-limit debits from being authorized.
func (s *cardService) UpdateCardPolicy(ctx context.Context, cardNumber string, req dto.UpdateCardPolicyRequest, staffID string) (*domain.Card, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.CreditLimit < 0 {
		return nil, fmt.Errorf("%w: credit limit must not be negative", apperrors.ErrValidation)
	}
	if !req.AllowsNegative && req.CreditLimit > 0 {
		return nil, fmt.Errorf("%w: credit limit requires the negative-balance policy to be enabled", apperrors.ErrValidation)
	}

	card, err := s.cardRepo.FindCardByNumber(ctx, cardNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.cardRepo.UpdateCardPolicy(ctx, cardNumber, req.AllowsNegative, req.CreditLimit, req.NotifyLowBalance, staffID, now); err != nil {
		logger.Error("Failed to update card policy", slog.String("card_number", cardNumber), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update card policy: %w", err)
	}

	logger.Info("Card policy updated",
		slog.String("card_number", cardNumber),
		slog.Bool("allows_negative", req.AllowsNegative),
		slog.Int64("credit_limit", req.CreditLimit))

	card.AllowsNegative = req.AllowsNegative
	card.CreditLimit = req.CreditLimit
	card.NotifyLowBalance = req.NotifyLowBalance
	card.LastUpdatedAt = now
	card.LastUpdatedBy = staffID
	return card, nil
}

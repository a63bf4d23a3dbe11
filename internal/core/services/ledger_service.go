package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/dto"
	"github.com/cantinatita/card_ledger_app/internal/middleware"
	"github.com/cantinatita/card_ledger_app/internal/utils"
)

var (
	// ErrCardNotActive is returned when a ledger operation targets an
	// inactive or blocked card.
	ErrCardNotActive = errors.New("card is not active")

	// ErrInsufficientBalance is returned when a debit would drive the
	// balance negative and the card's policy does not allow it.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrCreditLimitExceeded is returned when a debit would push the
	// balance below the card's overdraft limit.
	ErrCreditLimitExceeded = errors.New("credit limit exceeded")

	// ErrAuthorizationRequired is returned when a negative-resulting debit
	// arrives without a valid, unconsumed authorization for its exact amount.
	ErrAuthorizationRequired = errors.New("supervisor authorization required")
)

// maxConflictRetries bounds how many times a ledger operation is retried
// when the database reports a serialization failure or deadlock.
const maxConflictRetries = 3

// ledgerService is the only path through which card balances change.
// Every operation locks the card row, so concurrent events on the same
// card serialize and each event sees a consistent balance-before.
type ledgerService struct {
	cardRepo         portsrepo.CardRepositoryWithTx
	ledgerRepo       portsrepo.LedgerRepositoryWithTx
	authRepo         portsrepo.AuthorizationRepositoryWithTx
	saleRepo         portsrepo.SaleRepositoryFacade
	notificationRepo portsrepo.NotificationRepository

	lowBalanceThreshold int64
	stampingNumber      string
}

// LedgerServiceOption configures optional ledger service behavior.
type LedgerServiceOption func(*ledgerService)

// WithLowBalanceThreshold sets the balance below which committed events
// record a low-balance notification.
func WithLowBalanceThreshold(threshold int64) LedgerServiceOption {
	return func(s *ledgerService) {
		s.lowBalanceThreshold = threshold
	}
}

// WithTopupStamping sets the stamping number under which top-up fiscal
// documents are issued.
func WithTopupStamping(stampingNumber string) LedgerServiceOption {
	return func(s *ledgerService) {
		s.stampingNumber = stampingNumber
	}
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	cardRepo portsrepo.CardRepositoryWithTx,
	ledgerRepo portsrepo.LedgerRepositoryWithTx,
	authRepo portsrepo.AuthorizationRepositoryWithTx,
	saleRepo portsrepo.SaleRepositoryFacade,
	notificationRepo portsrepo.NotificationRepository,
	opts ...LedgerServiceOption,
) portssvc.LedgerSvcFacade {
	s := &ledgerService{
		cardRepo:            cardRepo,
		ledgerRepo:          ledgerRepo,
		authRepo:            authRepo,
		saleRepo:            saleRepo,
		notificationRepo:    notificationRepo,
		lowBalanceThreshold: 10000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// isRetryableTxError reports whether the database aborted the transaction
// with a serialization failure (40001) or deadlock (40P01), both of which
// are safe to retry from scratch.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// ApplyTopup credits the card and, within the same transaction, generates
// the companion sale record and settles outstanding authorizations
// oldest-first as far as the recovered balance covers them.
func (s *ledgerService) ApplyTopup(ctx context.Context, cardNumber string, req dto.TopupRequest, staffID string) (*domain.LedgerEvent, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: top-up amount must be positive", apperrors.ErrValidation)
	}
	switch req.PaymentMethod {
	case domain.PaymentCash, domain.PaymentTransfer, domain.PaymentCard:
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.PaymentMethod)
	}

	var event *domain.LedgerEvent
	var lastErr error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		event, lastErr = s.applyTopupOnce(ctx, cardNumber, req, staffID)
		if lastErr == nil {
			return event, nil
		}
		if !isRetryableTxError(lastErr) {
			return nil, lastErr
		}
		logger.Warn("Top-up transaction aborted, retrying",
			slog.String("card_number", cardNumber),
			slog.Int("attempt", attempt+1),
			slog.String("error", lastErr.Error()))
	}

	logger.Error("Top-up retries exhausted", slog.String("card_number", cardNumber))
	return nil, fmt.Errorf("%w: top-up on card %s", apperrors.ErrConflict, cardNumber)
}

func (s *ledgerService) applyTopupOnce(ctx context.Context, cardNumber string, req dto.TopupRequest, staffID string) (*domain.LedgerEvent, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.cardRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = s.cardRepo.Rollback(ctx, tx)
		}
	}()

	card, err := s.cardRepo.FindCardByNumberForUpdate(ctx, tx, cardNumber)
	if err != nil {
		return nil, err
	}
	if !card.IsActive() {
		return nil, ErrCardNotActive
	}

	now := time.Now().UTC()
	balanceBefore := card.Balance
	balanceAfter := balanceBefore + req.Amount

	event := domain.LedgerEvent{
		EventID:       uuid.NewString(),
		CardNumber:    cardNumber,
		EventType:     domain.EventTopup,
		Amount:        req.Amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		EventAt:       now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}

	if err := s.ledgerRepo.SaveEventInTx(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to save top-up event: %w", err)
	}

	sale, err := s.generateSaleInTx(ctx, tx, card, &event, req, staffID, now)
	if err != nil {
		return nil, err
	}
	event.SaleID = &sale.SaleID

	settled, err := s.settleAuthorizationsInTx(ctx, tx, cardNumber, balanceAfter, event.EventID, staffID, now)
	if err != nil {
		return nil, err
	}

	if err := s.recordBalanceNotificationsInTx(ctx, tx, card, balanceBefore, balanceAfter, now); err != nil {
		return nil, err
	}

	if err := s.cardRepo.UpdateCardBalanceInTx(ctx, tx, cardNumber, balanceAfter, staffID, now); err != nil {
		return nil, fmt.Errorf("failed to update balance projection: %w", err)
	}

	if err := s.cardRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit top-up: %w", err)
	}
	tx = nil // committed, skip the deferred rollback

	logger.Info("Top-up applied",
		slog.String("event_id", event.EventID),
		slog.String("card_number", cardNumber),
		slog.Int64("amount", req.Amount),
		slog.Int64("balance_after", balanceAfter),
		slog.String("sale_id", sale.SaleID),
		slog.Int("settled_authorizations", settled))

	return &event, nil
}

// generateSaleInTx derives the sale, payment, and fiscal document from a
// top-up event inside the same transaction. Every top-up yields exactly one
// sale; top-up sales are fully VAT-exempt.
func (s *ledgerService) generateSaleInTx(ctx context.Context, tx pgx.Tx, card *domain.Card, event *domain.LedgerEvent, req dto.TopupRequest, staffID string, now time.Time) (*domain.SaleRecord, error) {
	buyer := req.BuyerClientID
	if buyer == "" {
		buyer = card.GuardianClientID
	}

	sequential, err := s.saleRepo.NextSequentialInTx(ctx, tx, s.stampingNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate fiscal sequential: %w", err)
	}

	doc := domain.FiscalDocument{
		DocumentID:       uuid.NewString(),
		StampingNumber:   s.stampingNumber,
		SequentialNumber: sequential,
		IssuedAt:         now,
		TotalAmount:      req.Amount,
		ExemptAmount:     req.Amount,
	}

	sale := domain.SaleRecord{
		SaleID:           uuid.NewString(),
		TopupEventID:     event.EventID,
		BuyerClientID:    buyer,
		PaymentMethod:    req.PaymentMethod,
		Amount:           req.Amount,
		FiscalDocumentID: doc.DocumentID,
		GeneratedAt:      now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}

	payment := domain.Payment{
		PaymentID:     uuid.NewString(),
		SaleID:        sale.SaleID,
		PaymentMethod: req.PaymentMethod,
		Amount:        req.Amount,
		PaidAt:        now,
	}

	if err := s.saleRepo.SaveSaleInTx(ctx, tx, sale, payment, doc); err != nil {
		return nil, fmt.Errorf("failed to save generated sale: %w", err)
	}
	if err := s.ledgerRepo.LinkSaleInTx(ctx, tx, event.EventID, sale.SaleID); err != nil {
		return nil, fmt.Errorf("failed to link sale to top-up event: %w", err)
	}

	return &sale, nil
}

// settleAuthorizationsInTx marks outstanding debts settled, oldest first,
// as far as the recovered balance covers their amounts. Only consumed
// authorizations enter the sum: an approval whose debit never committed
// represents no debt and must not widen coverage. With consumed unsettled
// amounts summing to S and the new balance at B, coverage is S+B: when B
// has returned to zero or above, everything settles.
func (s *ledgerService) settleAuthorizationsInTx(ctx context.Context, tx pgx.Tx, cardNumber string, balanceAfter int64, settlingEventID, staffID string, now time.Time) (int, error) {
	unsettled, err := s.authRepo.FindUnsettledByCardForUpdate(ctx, tx, cardNumber)
	if err != nil {
		return 0, fmt.Errorf("failed to load unsettled authorizations: %w", err)
	}
	if len(unsettled) == 0 {
		return 0, nil
	}

	var totalUnsettled int64
	for _, a := range unsettled {
		totalUnsettled += a.Amount
	}

	coverage := balanceAfter + totalUnsettled
	settled := 0
	for _, a := range unsettled {
		if coverage < a.Amount {
			break
		}
		if err := s.authRepo.MarkSettledInTx(ctx, tx, a.AuthorizationID, settlingEventID, staffID, now); err != nil {
			return settled, fmt.Errorf("failed to settle authorization %s: %w", a.AuthorizationID, err)
		}
		coverage -= a.Amount
		settled++
	}

	return settled, nil
}

// recordBalanceNotificationsInTx appends notification rows for the external
// dispatcher when the committed event crosses a balance threshold.
func (s *ledgerService) recordBalanceNotificationsInTx(ctx context.Context, tx pgx.Tx, card *domain.Card, balanceBefore, balanceAfter int64, now time.Time) error {
	var notification *domain.BalanceNotification

	switch {
	case balanceBefore < 0 && balanceAfter >= 0:
		notification = &domain.BalanceNotification{
			Type:    domain.NotificationRegularized,
			Message: fmt.Sprintf("La tarjeta %s regularizó su saldo: %s", card.CardNumber, utils.FormatGuaranies(balanceAfter)),
		}
	case balanceAfter < 0 && balanceBefore >= 0:
		notification = &domain.BalanceNotification{
			Type:    domain.NotificationNegativeBalance,
			Message: fmt.Sprintf("La tarjeta %s quedó con saldo negativo: %s", card.CardNumber, utils.FormatGuaranies(balanceAfter)),
		}
	case card.NotifyLowBalance && balanceAfter >= 0 && balanceAfter < s.lowBalanceThreshold && balanceBefore >= s.lowBalanceThreshold:
		notification = &domain.BalanceNotification{
			Type:    domain.NotificationLowBalance,
			Message: fmt.Sprintf("La tarjeta %s tiene saldo bajo: %s", card.CardNumber, utils.FormatGuaranies(balanceAfter)),
		}
	default:
		return nil
	}

	notification.NotificationID = uuid.NewString()
	notification.CardNumber = card.CardNumber
	notification.Balance = balanceAfter
	notification.CreatedAt = now

	if err := s.notificationRepo.SaveNotificationInTx(ctx, tx, *notification); err != nil {
		return fmt.Errorf("failed to record balance notification: %w", err)
	}
	return nil
}

// ApplyConsumption debits the card. A debit that drives the balance negative
// requires an unconsumed authorization for the exact amount on the same card.
func (s *ledgerService) ApplyConsumption(ctx context.Context, cardNumber string, req dto.ConsumptionRequest, staffID string) (*domain.LedgerEvent, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: consumption amount must be positive", apperrors.ErrValidation)
	}

	var event *domain.LedgerEvent
	var lastErr error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		event, lastErr = s.applyConsumptionOnce(ctx, cardNumber, req, staffID)
		if lastErr == nil {
			return event, nil
		}
		if !isRetryableTxError(lastErr) {
			return nil, lastErr
		}
		logger.Warn("Consumption transaction aborted, retrying",
			slog.String("card_number", cardNumber),
			slog.Int("attempt", attempt+1),
			slog.String("error", lastErr.Error()))
	}

	logger.Error("Consumption retries exhausted", slog.String("card_number", cardNumber))
	return nil, fmt.Errorf("%w: consumption on card %s", apperrors.ErrConflict, cardNumber)
}

func (s *ledgerService) applyConsumptionOnce(ctx context.Context, cardNumber string, req dto.ConsumptionRequest, staffID string) (*domain.LedgerEvent, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	tx, err := s.cardRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = s.cardRepo.Rollback(ctx, tx)
		}
	}()

	card, err := s.cardRepo.FindCardByNumberForUpdate(ctx, tx, cardNumber)
	if err != nil {
		return nil, err
	}
	if !card.IsActive() {
		return nil, ErrCardNotActive
	}

	now := time.Now().UTC()
	balanceBefore := card.Balance
	balanceAfter := balanceBefore - req.Amount

	event := domain.LedgerEvent{
		EventID:       uuid.NewString(),
		CardNumber:    cardNumber,
		EventType:     domain.EventConsumption,
		Amount:        req.Amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		EventAt:       now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}

	if balanceAfter < 0 {
		if !card.AllowsNegative {
			return nil, ErrInsufficientBalance
		}
		if balanceAfter < -card.CreditLimit {
			return nil, ErrCreditLimitExceeded
		}

		authorization, err := s.spendAuthorizationInTx(ctx, tx, cardNumber, req)
		if err != nil {
			return nil, err
		}
		event.AuthorizationID = &authorization.AuthorizationID

		if err := s.ledgerRepo.SaveEventInTx(ctx, tx, event); err != nil {
			return nil, fmt.Errorf("failed to save consumption event: %w", err)
		}
		if err := s.authRepo.MarkConsumedInTx(ctx, tx, authorization.AuthorizationID, event.EventID, staffID, now); err != nil {
			return nil, fmt.Errorf("failed to mark authorization consumed: %w", err)
		}
	} else {
		// A debit the balance covers never needs approval; a supplied
		// authorization is left untouched for a real negative debit.
		if err := s.ledgerRepo.SaveEventInTx(ctx, tx, event); err != nil {
			return nil, fmt.Errorf("failed to save consumption event: %w", err)
		}
	}

	if err := s.recordBalanceNotificationsInTx(ctx, tx, card, balanceBefore, balanceAfter, now); err != nil {
		return nil, err
	}

	if err := s.cardRepo.UpdateCardBalanceInTx(ctx, tx, cardNumber, balanceAfter, staffID, now); err != nil {
		return nil, fmt.Errorf("failed to update balance projection: %w", err)
	}

	if err := s.cardRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit consumption: %w", err)
	}
	tx = nil

	logger.Info("Consumption applied",
		slog.String("event_id", event.EventID),
		slog.String("card_number", cardNumber),
		slog.Int64("amount", req.Amount),
		slog.Int64("balance_after", balanceAfter))

	return &event, nil
}

// spendAuthorizationInTx locks and validates the authorization backing a
// negative-resulting debit: it must exist, belong to the same card, match
// the amount exactly, and not have been consumed before.
func (s *ledgerService) spendAuthorizationInTx(ctx context.Context, tx pgx.Tx, cardNumber string, req dto.ConsumptionRequest) (*domain.Authorization, error) {
	if req.AuthorizationID == nil || *req.AuthorizationID == "" {
		return nil, ErrAuthorizationRequired
	}

	authorization, err := s.authRepo.FindAuthorizationForUpdate(ctx, tx, *req.AuthorizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrAuthorizationRequired
		}
		return nil, fmt.Errorf("failed to load authorization: %w", err)
	}

	if authorization.CardNumber != cardNumber {
		return nil, fmt.Errorf("%w: authorization belongs to another card", ErrAuthorizationRequired)
	}
	if authorization.Amount != req.Amount {
		return nil, fmt.Errorf("%w: authorization amount does not match the debit", ErrAuthorizationRequired)
	}
	if authorization.Consumed() {
		return nil, fmt.Errorf("%w: authorization was already used", ErrAuthorizationRequired)
	}

	return authorization, nil
}

// GetEvent retrieves a single ledger event.
func (s *ledgerService) GetEvent(ctx context.Context, eventID string) (*domain.LedgerEvent, error) {
	event, err := s.ledgerRepo.FindEventByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find event %s: %w", eventID, err)
	}
	return event, nil
}

// ListEventsByCard retrieves a page of a card's event history, newest first.
func (s *ledgerService) ListEventsByCard(ctx context.Context, cardNumber string, limit int, nextToken *string) ([]domain.LedgerEvent, *string, error) {
	if _, err := s.cardRepo.FindCardByNumber(ctx, cardNumber); err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	events, token, err := s.ledgerRepo.ListEventsByCard(ctx, cardNumber, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list events for card %s: %w", cardNumber, err)
	}
	return events, token, nil
}

// CheckBalanceIntegrity recomputes the balance from the event log and
// compares it with the materialized projection on the card row.
func (s *ledgerService) CheckBalanceIntegrity(ctx context.Context, cardNumber string) (*dto.BalanceIntegrityResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	card, err := s.cardRepo.FindCardByNumber(ctx, cardNumber)
	if err != nil {
		return nil, err
	}

	sum, err := s.ledgerRepo.SumSignedAmounts(ctx, cardNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute balance for card %s: %w", cardNumber, err)
	}

	consistent := card.Balance == sum
	if !consistent {
		logger.Error("Balance projection diverged from event log",
			slog.String("card_number", cardNumber),
			slog.Int64("projected", card.Balance),
			slog.Int64("recomputed", sum))
	}

	return &dto.BalanceIntegrityResponse{
		CardNumber:       cardNumber,
		ProjectedBalance: card.Balance,
		RecomputedSum:    sum,
		Consistent:       consistent,
	}, nil
}

// ListPendingNotifications returns notifications awaiting the external
// dispatcher, oldest first.
func (s *ledgerService) ListPendingNotifications(ctx context.Context, cardNumber string, limit int) ([]domain.BalanceNotification, error) {
	if _, err := s.cardRepo.FindCardByNumber(ctx, cardNumber); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	notifications, err := s.notificationRepo.ListUnsentByCard(ctx, cardNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending notifications for card %s: %w", cardNumber, err)
	}
	return notifications, nil
}

// AcknowledgeNotifications records that the external dispatcher delivered
// the given notifications. Already-acknowledged rows are skipped.
func (s *ledgerService) AcknowledgeNotifications(ctx context.Context, cardNumber string, notificationIDs []string) (int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(notificationIDs) == 0 {
		return 0, fmt.Errorf("%w: at least one notification ID is required", apperrors.ErrValidation)
	}
	if _, err := s.cardRepo.FindCardByNumber(ctx, cardNumber); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	updated, err := s.notificationRepo.MarkSent(ctx, notificationIDs, now)
	if err != nil {
		return 0, fmt.Errorf("failed to acknowledge notifications for card %s: %w", cardNumber, err)
	}
	if updated > 0 {
		if err := s.cardRepo.MarkNotified(ctx, cardNumber, now); err != nil {
			return 0, fmt.Errorf("failed to stamp card %s as notified: %w", cardNumber, err)
		}
	}

	logger.Info("Notifications acknowledged",
		slog.String("card_number", cardNumber),
		slog.Int64("acknowledged", updated))
	return updated, nil
}

package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
)

// --- Mock CardRepository ---

type MockCardRepository struct {
	mock.Mock
}

var _ portsrepo.CardRepositoryWithTx = (*MockCardRepository)(nil)

func (m *MockCardRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockCardRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCardRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockCardRepository) FindCardByNumber(ctx context.Context, cardNumber string) (*domain.Card, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) ListCards(ctx context.Context, limit int, offset int) ([]domain.Card, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardRepository) SaveCard(ctx context.Context, card domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateCardStatus(ctx context.Context, cardNumber string, status domain.CardStatus, staffID string, now time.Time) error {
	args := m.Called(ctx, cardNumber, status, staffID, now)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateCardPolicy(ctx context.Context, cardNumber string, allowsNegative bool, creditLimit int64, notifyLowBalance bool, staffID string, now time.Time) error {
	args := m.Called(ctx, cardNumber, allowsNegative, creditLimit, notifyLowBalance, staffID, now)
	return args.Error(0)
}

func (m *MockCardRepository) MarkNotified(ctx context.Context, cardNumber string, at time.Time) error {
	args := m.Called(ctx, cardNumber, at)
	return args.Error(0)
}

func (m *MockCardRepository) FindCardByNumberForUpdate(ctx context.Context, tx pgx.Tx, cardNumber string) (*domain.Card, error) {
	args := m.Called(ctx, tx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) UpdateCardBalanceInTx(ctx context.Context, tx pgx.Tx, cardNumber string, newBalance int64, staffID string, now time.Time) error {
	args := m.Called(ctx, tx, cardNumber, newBalance, staffID, now)
	return args.Error(0)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryWithTx = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockLedgerRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindEventByID(ctx context.Context, eventID string) (*domain.LedgerEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEvent), args.Error(1)
}

func (m *MockLedgerRepository) ListEventsByCard(ctx context.Context, cardNumber string, limit int, nextToken *string) ([]domain.LedgerEvent, *string, error) {
	args := m.Called(ctx, cardNumber, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEvent), returnedNextToken, args.Error(2)
}

func (m *MockLedgerRepository) SumSignedAmounts(ctx context.Context, cardNumber string) (int64, error) {
	args := m.Called(ctx, cardNumber)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) SaveEventInTx(ctx context.Context, tx pgx.Tx, event domain.LedgerEvent) error {
	args := m.Called(ctx, tx, event)
	return args.Error(0)
}

func (m *MockLedgerRepository) LinkSaleInTx(ctx context.Context, tx pgx.Tx, eventID string, saleID string) error {
	args := m.Called(ctx, tx, eventID, saleID)
	return args.Error(0)
}

// --- Mock AuthorizationRepository ---

type MockAuthorizationRepository struct {
	mock.Mock
}

var _ portsrepo.AuthorizationRepositoryWithTx = (*MockAuthorizationRepository)(nil)

func (m *MockAuthorizationRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockAuthorizationRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAuthorizationRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockAuthorizationRepository) FindAuthorizationByID(ctx context.Context, authorizationID string) (*domain.Authorization, error) {
	args := m.Called(ctx, authorizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Authorization), args.Error(1)
}

func (m *MockAuthorizationRepository) ListAuthorizationsByCard(ctx context.Context, cardNumber string, unsettledOnly bool) ([]domain.Authorization, error) {
	args := m.Called(ctx, cardNumber, unsettledOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Authorization), args.Error(1)
}

func (m *MockAuthorizationRepository) SaveAuthorization(ctx context.Context, authorization domain.Authorization) error {
	args := m.Called(ctx, authorization)
	return args.Error(0)
}

func (m *MockAuthorizationRepository) FindAuthorizationForUpdate(ctx context.Context, tx pgx.Tx, authorizationID string) (*domain.Authorization, error) {
	args := m.Called(ctx, tx, authorizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Authorization), args.Error(1)
}

func (m *MockAuthorizationRepository) FindUnsettledByCardForUpdate(ctx context.Context, tx pgx.Tx, cardNumber string) ([]domain.Authorization, error) {
	args := m.Called(ctx, tx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Authorization), args.Error(1)
}

func (m *MockAuthorizationRepository) MarkConsumedInTx(ctx context.Context, tx pgx.Tx, authorizationID string, consumptionEventID string, staffID string, now time.Time) error {
	args := m.Called(ctx, tx, authorizationID, consumptionEventID, staffID, now)
	return args.Error(0)
}

func (m *MockAuthorizationRepository) MarkSettledInTx(ctx context.Context, tx pgx.Tx, authorizationID string, settlingEventID string, staffID string, now time.Time) error {
	args := m.Called(ctx, tx, authorizationID, settlingEventID, staffID, now)
	return args.Error(0)
}

// --- Mock SaleRepository ---

type MockSaleRepository struct {
	mock.Mock
}

var _ portsrepo.SaleRepositoryFacade = (*MockSaleRepository)(nil)

func (m *MockSaleRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.SaleRecord, *domain.Payment, *domain.FiscalDocument, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*domain.SaleRecord), args.Get(1).(*domain.Payment), args.Get(2).(*domain.FiscalDocument), args.Error(3)
}

func (m *MockSaleRepository) FindSaleByTopupEventID(ctx context.Context, eventID string) (*domain.SaleRecord, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaleRecord), args.Error(1)
}

func (m *MockSaleRepository) NextSequentialInTx(ctx context.Context, tx pgx.Tx, stampingNumber string) (int64, error) {
	args := m.Called(ctx, tx, stampingNumber)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) SaveSaleInTx(ctx context.Context, tx pgx.Tx, sale domain.SaleRecord, payment domain.Payment, doc domain.FiscalDocument) error {
	args := m.Called(ctx, tx, sale, payment, doc)
	return args.Error(0)
}

// --- Mock NotificationRepository ---

type MockNotificationRepository struct {
	mock.Mock
}

var _ portsrepo.NotificationRepository = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) SaveNotificationInTx(ctx context.Context, tx pgx.Tx, notification domain.BalanceNotification) error {
	args := m.Called(ctx, tx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListUnsentByCard(ctx context.Context, cardNumber string, limit int) ([]domain.BalanceNotification, error) {
	args := m.Called(ctx, cardNumber, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceNotification), args.Error(1)
}

func (m *MockNotificationRepository) MarkSent(ctx context.Context, notificationIDs []string, at time.Time) (int64, error) {
	args := m.Called(ctx, notificationIDs, at)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock StaffRepository ---

type MockStaffRepository struct {
	mock.Mock
}

var _ portsrepo.StaffRepositoryFacade = (*MockStaffRepository)(nil)

func (m *MockStaffRepository) FindStaffByID(ctx context.Context, staffID string) (*domain.Staff, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindStaffByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) FindStaffByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) ListStaff(ctx context.Context, limit int, offset int) ([]domain.Staff, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Staff), args.Error(1)
}

func (m *MockStaffRepository) SaveStaff(ctx context.Context, staff domain.Staff) error {
	args := m.Called(ctx, staff)
	return args.Error(0)
}

func (m *MockStaffRepository) DeactivateStaff(ctx context.Context, staffID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, staffID, updatedBy, now)
	return args.Error(0)
}

// --- Mock ReportingRepository ---

type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetMovementTotals(ctx context.Context, from, to time.Time) (portsrepo.MovementTotals, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(portsrepo.MovementTotals), args.Error(1)
}

func (m *MockReportingRepository) GetSaleTotals(ctx context.Context, from, to time.Time) (portsrepo.SaleTotals, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(portsrepo.SaleTotals), args.Error(1)
}

func (m *MockReportingRepository) GetOutstandingDebt(ctx context.Context) (int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// --- Mock StaffAuthority ---

type MockStaffAuthority struct {
	mock.Mock
}

var _ portssvc.StaffAuthority = (*MockStaffAuthority)(nil)

func (m *MockStaffAuthority) IsAuthorizedSupervisor(ctx context.Context, staffID string) (bool, error) {
	args := m.Called(ctx, staffID)
	return args.Bool(0), args.Error(1)
}

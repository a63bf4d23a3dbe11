package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cantinatita/card_ledger_app/internal/apperrors"
	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/core/services"
	"github.com/cantinatita/card_ledger_app/internal/dto"
)

type LedgerServiceTestSuite struct {
	suite.Suite

	mockCardRepo         *MockCardRepository
	mockLedgerRepo       *MockLedgerRepository
	mockAuthRepo         *MockAuthorizationRepository
	mockSaleRepo         *MockSaleRepository
	mockNotificationRepo *MockNotificationRepository
	service              portssvc.LedgerSvcFacade

	staffID string
	card    domain.Card
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.mockCardRepo = new(MockCardRepository)
	s.mockLedgerRepo = new(MockLedgerRepository)
	s.mockAuthRepo = new(MockAuthorizationRepository)
	s.mockSaleRepo = new(MockSaleRepository)
	s.mockNotificationRepo = new(MockNotificationRepository)

	s.service = services.NewLedgerService(
		s.mockCardRepo,
		s.mockLedgerRepo,
		s.mockAuthRepo,
		s.mockSaleRepo,
		s.mockNotificationRepo,
		services.WithLowBalanceThreshold(10000),
		services.WithTopupStamping("12558811"),
	)

	s.staffID = uuid.NewString()
	s.card = domain.Card{
		CardNumber:       "1001-2002",
		StudentID:        uuid.NewString(),
		GuardianClientID: uuid.NewString(),
		Status:           domain.CardActive,
		Balance:          50000,
		AllowsNegative:   false,
		CreditLimit:      0,
		NotifyLowBalance: true,
	}
}

// expectTxLifecycle sets up the Begin/Commit/Rollback choreography shared by
// the happy paths.
func (s *LedgerServiceTestSuite) expectTxLifecycle() {
	s.mockCardRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.mockCardRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)
	s.mockCardRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (s *LedgerServiceTestSuite) TestApplyTopupGeneratesSaleAndUpdatesBalance() {
	ctx := context.Background()
	card := s.card

	s.expectTxLifecycle()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)

	var savedEvent domain.LedgerEvent
	s.mockLedgerRepo.On("SaveEventInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(e domain.LedgerEvent) bool {
		savedEvent = e
		return e.EventType == domain.EventTopup &&
			e.Amount == 30000 &&
			e.BalanceBefore == 50000 &&
			e.BalanceAfter == 80000
	})).Return(nil)

	s.mockSaleRepo.On("NextSequentialInTx", mock.Anything, mock.Anything, "12558811").Return(int64(42), nil)

	var savedSale domain.SaleRecord
	s.mockSaleRepo.On("SaveSaleInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(sale domain.SaleRecord) bool {
		savedSale = sale
		return sale.Amount == 30000 && sale.BuyerClientID == card.GuardianClientID
	}), mock.MatchedBy(func(p domain.Payment) bool {
		return p.Amount == 30000 && p.PaymentMethod == domain.PaymentCash
	}), mock.MatchedBy(func(doc domain.FiscalDocument) bool {
		// Top-up sales are fully VAT-exempt under the dedicated stamping
		return doc.StampingNumber == "12558811" &&
			doc.SequentialNumber == 42 &&
			doc.TotalAmount == 30000 &&
			doc.ExemptAmount == 30000
	})).Return(nil)

	s.mockLedgerRepo.On("LinkSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockAuthRepo.On("FindUnsettledByCardForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return([]domain.Authorization{}, nil)
	s.mockCardRepo.On("UpdateCardBalanceInTx", mock.Anything, mock.Anything, card.CardNumber, int64(80000), s.staffID, mock.Anything).Return(nil)

	event, err := s.service.ApplyTopup(ctx, card.CardNumber, dto.TopupRequest{
		Amount:        30000,
		PaymentMethod: domain.PaymentCash,
	}, s.staffID)

	s.Require().NoError(err)
	s.Require().NotNil(event)
	s.Equal(savedEvent.EventID, event.EventID)
	s.Require().NotNil(event.SaleID)
	s.Equal(savedSale.SaleID, *event.SaleID)
	s.Equal(savedEvent.EventID, savedSale.TopupEventID)
	s.mockCardRepo.AssertExpectations(s.T())
	s.mockLedgerRepo.AssertExpectations(s.T())
	s.mockSaleRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestApplyTopupBillsExplicitBuyer() {
	ctx := context.Background()
	card := s.card
	buyer := uuid.NewString()

	s.expectTxLifecycle()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)
	s.mockLedgerRepo.On("SaveEventInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockSaleRepo.On("NextSequentialInTx", mock.Anything, mock.Anything, "12558811").Return(int64(7), nil)
	s.mockSaleRepo.On("SaveSaleInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(sale domain.SaleRecord) bool {
		return sale.BuyerClientID == buyer
	}), mock.Anything, mock.Anything).Return(nil)
	s.mockLedgerRepo.On("LinkSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockAuthRepo.On("FindUnsettledByCardForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return([]domain.Authorization{}, nil)
	s.mockCardRepo.On("UpdateCardBalanceInTx", mock.Anything, mock.Anything, card.CardNumber, mock.Anything, s.staffID, mock.Anything).Return(nil)

	_, err := s.service.ApplyTopup(ctx, card.CardNumber, dto.TopupRequest{
		Amount:        5000,
		PaymentMethod: domain.PaymentTransfer,
		BuyerClientID: buyer,
	}, s.staffID)

	s.Require().NoError(err)
	s.mockSaleRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestApplyTopupSettlesOldestFirst() {
	ctx := context.Background()
	card := s.card
	card.Balance = -30000
	card.AllowsNegative = true
	card.CreditLimit = 50000

	oldestEventID := uuid.NewString()
	newestEventID := uuid.NewString()
	oldest := domain.Authorization{AuthorizationID: uuid.NewString(), CardNumber: card.CardNumber, Amount: 20000, ConsumptionEventID: &oldestEventID}
	newest := domain.Authorization{AuthorizationID: uuid.NewString(), CardNumber: card.CardNumber, Amount: 10000, ConsumptionEventID: &newestEventID}

	s.expectTxLifecycle()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)
	s.mockLedgerRepo.On("SaveEventInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockSaleRepo.On("NextSequentialInTx", mock.Anything, mock.Anything, mock.Anything).Return(int64(1), nil)
	s.mockSaleRepo.On("SaveSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockLedgerRepo.On("LinkSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockAuthRepo.On("FindUnsettledByCardForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return([]domain.Authorization{oldest, newest}, nil)

	// Balance goes -30000 -> -5000. Coverage is -5000 + 30000 = 25000:
	// enough for the 20000 authorization, not for the 10000 after it.
	s.mockAuthRepo.On("MarkSettledInTx", mock.Anything, mock.Anything, oldest.AuthorizationID, mock.Anything, s.staffID, mock.Anything).Return(nil).Once()

	s.mockNotificationRepo.On("SaveNotificationInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockCardRepo.On("UpdateCardBalanceInTx", mock.Anything, mock.Anything, card.CardNumber, int64(-5000), s.staffID, mock.Anything).Return(nil)

	_, err := s.service.ApplyTopup(ctx, card.CardNumber, dto.TopupRequest{
		Amount:        25000,
		PaymentMethod: domain.PaymentCash,
	}, s.staffID)

	s.Require().NoError(err)
	s.mockAuthRepo.AssertExpectations(s.T())
	s.mockAuthRepo.AssertNotCalled(s.T(), "MarkSettledInTx", mock.Anything, mock.Anything, newest.AuthorizationID, mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestApplyTopupSettlesAllAndRecordsRegularization() {
	ctx := context.Background()
	card := s.card
	card.Balance = -15000
	card.AllowsNegative = true
	card.CreditLimit = 20000

	debitEventID := uuid.NewString()
	auth := domain.Authorization{AuthorizationID: uuid.NewString(), CardNumber: card.CardNumber, Amount: 15000, ConsumptionEventID: &debitEventID}

	s.expectTxLifecycle()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)
	s.mockLedgerRepo.On("SaveEventInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockSaleRepo.On("NextSequentialInTx", mock.Anything, mock.Anything, mock.Anything).Return(int64(9), nil)
	s.mockSaleRepo.On("SaveSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockLedgerRepo.On("LinkSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockAuthRepo.On("FindUnsettledByCardForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return([]domain.Authorization{auth}, nil)
	s.mockAuthRepo.On("MarkSettledInTx", mock.Anything, mock.Anything, auth.AuthorizationID, mock.Anything, s.staffID, mock.Anything).Return(nil).Once()

	s.mockNotificationRepo.On("SaveNotificationInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(n domain.BalanceNotification) bool {
		return n.Type == domain.NotificationRegularized && n.Balance == 25000
	})).Return(nil).Once()

	s.mockCardRepo.On("UpdateCardBalanceInTx", mock.Anything, mock.Anything, card.CardNumber, int64(25000), s.staffID, mock.Anything).Return(nil)

	_, err := s.service.ApplyTopup(ctx, card.CardNumber, dto.TopupRequest{
		Amount:        40000,
		PaymentMethod: domain.PaymentCash,
	}, s.staffID)

	s.Require().NoError(err)
	s.mockAuthRepo.AssertExpectations(s.T())
	s.mockNotificationRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestApplyTopupLeavesConsumedDebtWhenCoverageFallsShort() {
	ctx := context.Background()
	card := s.card
	card.Balance = -50000
	card.AllowsNegative = true
	card.CreditLimit = 80000

	// Only consumed authorizations come back from the repository; an
	// approval whose debit never committed is not part of the debt and
	// must not widen coverage.
	consumptionEventID := uuid.NewString()
	consumedDebt := domain.Authorization{
		AuthorizationID:    uuid.NewString(),
		CardNumber:         card.CardNumber,
		Amount:             50000,
		ConsumptionEventID: &consumptionEventID,
	}

	s.expectTxLifecycle()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)
	s.mockLedgerRepo.On("SaveEventInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockSaleRepo.On("NextSequentialInTx", mock.Anything, mock.Anything, mock.Anything).Return(int64(3), nil)
	s.mockSaleRepo.On("SaveSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockLedgerRepo.On("LinkSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockAuthRepo.On("FindUnsettledByCardForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return([]domain.Authorization{consumedDebt}, nil)
	s.mockCardRepo.On("UpdateCardBalanceInTx", mock.Anything, mock.Anything, card.CardNumber, int64(-30000), s.staffID, mock.Anything).Return(nil)

	// Balance goes -50000 -> -30000. Coverage is -30000 + 50000 = 20000:
	// the 50000 debt stays open because only 20000 was repaid.
	_, err := s.service.ApplyTopup(ctx, card.CardNumber, dto.TopupRequest{
		Amount:        20000,
		PaymentMethod: domain.PaymentCash,
	}, s.staffID)

	s.Require().NoError(err)
	s.mockAuthRepo.AssertNotCalled(s.T(), "MarkSettledInTx", mock.Anything, mock.Anything, consumedDebt.AuthorizationID, mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestApplyTopupDoesNotResettleSettledAuthorizations() {
	ctx := context.Background()
	card := s.card
	card.Balance = 25000
	card.AllowsNegative = true
	card.CreditLimit = 20000

	// A previous top-up settled every authorization; settled rows leave
	// the working set, so a later top-up settles nothing again.
	s.expectTxLifecycle()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)
	s.mockLedgerRepo.On("SaveEventInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockSaleRepo.On("NextSequentialInTx", mock.Anything, mock.Anything, mock.Anything).Return(int64(10), nil)
	s.mockSaleRepo.On("SaveSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockLedgerRepo.On("LinkSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockAuthRepo.On("FindUnsettledByCardForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return([]domain.Authorization{}, nil)
	s.mockCardRepo.On("UpdateCardBalanceInTx", mock.Anything, mock.Anything, card.CardNumber, int64(35000), s.staffID, mock.Anything).Return(nil)

	_, err := s.service.ApplyTopup(ctx, card.CardNumber, dto.TopupRequest{
		Amount:        10000,
		PaymentMethod: domain.PaymentCash,
	}, s.staffID)

	s.Require().NoError(err)
	s.mockAuthRepo.AssertNotCalled(s.T(), "MarkSettledInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestApplyTopupRejectsInactiveCard() {
	ctx := context.Background()
	card := s.card
	card.Status = domain.CardBlocked

	s.mockCardRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.mockCardRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)

	_, err := s.service.ApplyTopup(ctx, card.CardNumber, dto.TopupRequest{
		Amount:        1000,
		PaymentMethod: domain.PaymentCash,
	}, s.staffID)

	s.Require().ErrorIs(err, services.ErrCardNotActive)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveEventInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestApplyTopupRetriesOnSerializationFailure() {
	ctx := context.Background()
	card := s.card

	serializationFailure := &pgconn.PgError{Code: "40001"}

	s.mockCardRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.mockCardRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	// First attempt dies at the row lock, second goes through.
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(nil, serializationFailure).Once()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil).Once()

	s.mockLedgerRepo.On("SaveEventInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockSaleRepo.On("NextSequentialInTx", mock.Anything, mock.Anything, mock.Anything).Return(int64(3), nil)
	s.mockSaleRepo.On("SaveSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockLedgerRepo.On("LinkSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockAuthRepo.On("FindUnsettledByCardForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return([]domain.Authorization{}, nil)
	s.mockCardRepo.On("UpdateCardBalanceInTx", mock.Anything, mock.Anything, card.CardNumber, mock.Anything, s.staffID, mock.Anything).Return(nil)
	s.mockCardRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)

	event, err := s.service.ApplyTopup(ctx, card.CardNumber, dto.TopupRequest{
		Amount:        2000,
		PaymentMethod: domain.PaymentCash,
	}, s.staffID)

	s.Require().NoError(err)
	s.Require().NotNil(event)
	s.mockCardRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestApplyTopupGivesUpAfterRetriesExhausted() {
	ctx := context.Background()
	card := s.card

	deadlock := &pgconn.PgError{Code: "40P01"}

	s.mockCardRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.mockCardRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(nil, deadlock)

	_, err := s.service.ApplyTopup(ctx, card.CardNumber, dto.TopupRequest{
		Amount:        2000,
		PaymentMethod: domain.PaymentCash,
	}, s.staffID)

	s.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (s *LedgerServiceTestSuite) TestApplyConsumptionWithSufficientBalance() {
	ctx := context.Background()
	card := s.card // balance 50000

	s.expectTxLifecycle()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)
	s.mockLedgerRepo.On("SaveEventInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(e domain.LedgerEvent) bool {
		return e.EventType == domain.EventConsumption &&
			e.Amount == 20000 &&
			e.BalanceBefore == 50000 &&
			e.BalanceAfter == 30000 &&
			e.AuthorizationID == nil
	})).Return(nil)
	s.mockCardRepo.On("UpdateCardBalanceInTx", mock.Anything, mock.Anything, card.CardNumber, int64(30000), s.staffID, mock.Anything).Return(nil)

	event, err := s.service.ApplyConsumption(ctx, card.CardNumber, dto.ConsumptionRequest{Amount: 20000}, s.staffID)

	s.Require().NoError(err)
	s.Require().NotNil(event)
	s.Nil(event.SaleID, "consumptions never generate sales")
	s.mockSaleRepo.AssertNotCalled(s.T(), "SaveSaleInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestApplyConsumptionRecordsLowBalanceNotification() {
	ctx := context.Background()
	card := s.card // balance 50000, threshold 10000, notifications on

	s.expectTxLifecycle()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)
	s.mockLedgerRepo.On("SaveEventInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	s.mockNotificationRepo.On("SaveNotificationInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(n domain.BalanceNotification) bool {
		return n.Type == domain.NotificationLowBalance && n.Balance == 5000
	})).Return(nil).Once()
	s.mockCardRepo.On("UpdateCardBalanceInTx", mock.Anything, mock.Anything, card.CardNumber, int64(5000), s.staffID, mock.Anything).Return(nil)

	_, err := s.service.ApplyConsumption(ctx, card.CardNumber, dto.ConsumptionRequest{Amount: 45000}, s.staffID)

	s.Require().NoError(err)
	s.mockNotificationRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestApplyConsumptionInsufficientBalance() {
	ctx := context.Background()
	card := s.card // AllowsNegative false

	s.mockCardRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.mockCardRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)

	_, err := s.service.ApplyConsumption(ctx, card.CardNumber, dto.ConsumptionRequest{Amount: 60000}, s.staffID)

	s.Require().ErrorIs(err, services.ErrInsufficientBalance)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveEventInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestApplyConsumptionBeyondCreditLimit() {
	ctx := context.Background()
	card := s.card
	card.AllowsNegative = true
	card.CreditLimit = 5000

	s.mockCardRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.mockCardRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)

	// 50000 - 60000 = -10000, below the -5000 limit
	_, err := s.service.ApplyConsumption(ctx, card.CardNumber, dto.ConsumptionRequest{Amount: 60000}, s.staffID)

	s.Require().ErrorIs(err, services.ErrCreditLimitExceeded)
}

func (s *LedgerServiceTestSuite) TestApplyConsumptionNegativeRequiresAuthorization() {
	ctx := context.Background()
	card := s.card
	card.AllowsNegative = true
	card.CreditLimit = 20000

	s.mockCardRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.mockCardRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)

	_, err := s.service.ApplyConsumption(ctx, card.CardNumber, dto.ConsumptionRequest{Amount: 60000}, s.staffID)

	s.Require().ErrorIs(err, services.ErrAuthorizationRequired)
}

func (s *LedgerServiceTestSuite) TestApplyConsumptionWithValidAuthorization() {
	ctx := context.Background()
	card := s.card
	card.AllowsNegative = true
	card.CreditLimit = 20000

	authorization := domain.Authorization{
		AuthorizationID: uuid.NewString(),
		CardNumber:      card.CardNumber,
		Amount:          60000,
	}

	s.expectTxLifecycle()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)
	s.mockAuthRepo.On("FindAuthorizationForUpdate", mock.Anything, mock.Anything, authorization.AuthorizationID).Return(&authorization, nil)
	s.mockLedgerRepo.On("SaveEventInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(e domain.LedgerEvent) bool {
		return e.AuthorizationID != nil && *e.AuthorizationID == authorization.AuthorizationID && e.BalanceAfter == -10000
	})).Return(nil)
	s.mockAuthRepo.On("MarkConsumedInTx", mock.Anything, mock.Anything, authorization.AuthorizationID, mock.Anything, s.staffID, mock.Anything).Return(nil).Once()
	s.mockNotificationRepo.On("SaveNotificationInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(n domain.BalanceNotification) bool {
		return n.Type == domain.NotificationNegativeBalance && n.Balance == -10000
	})).Return(nil).Once()
	s.mockCardRepo.On("UpdateCardBalanceInTx", mock.Anything, mock.Anything, card.CardNumber, int64(-10000), s.staffID, mock.Anything).Return(nil)

	event, err := s.service.ApplyConsumption(ctx, card.CardNumber, dto.ConsumptionRequest{
		Amount:          60000,
		AuthorizationID: &authorization.AuthorizationID,
	}, s.staffID)

	s.Require().NoError(err)
	s.Require().NotNil(event.AuthorizationID)
	s.mockAuthRepo.AssertExpectations(s.T())
	s.mockNotificationRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestApplyConsumptionRejectsConsumedAuthorization() {
	ctx := context.Background()
	card := s.card
	card.AllowsNegative = true
	card.CreditLimit = 20000

	spentEventID := uuid.NewString()
	authorization := domain.Authorization{
		AuthorizationID:    uuid.NewString(),
		CardNumber:         card.CardNumber,
		Amount:             60000,
		ConsumptionEventID: &spentEventID,
	}

	s.mockCardRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.mockCardRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)
	s.mockAuthRepo.On("FindAuthorizationForUpdate", mock.Anything, mock.Anything, authorization.AuthorizationID).Return(&authorization, nil)

	_, err := s.service.ApplyConsumption(ctx, card.CardNumber, dto.ConsumptionRequest{
		Amount:          60000,
		AuthorizationID: &authorization.AuthorizationID,
	}, s.staffID)

	s.Require().ErrorIs(err, services.ErrAuthorizationRequired)
	s.mockLedgerRepo.AssertNotCalled(s.T(), "SaveEventInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (s *LedgerServiceTestSuite) TestApplyConsumptionRejectsAmountMismatch() {
	ctx := context.Background()
	card := s.card
	card.AllowsNegative = true
	card.CreditLimit = 20000

	authorization := domain.Authorization{
		AuthorizationID: uuid.NewString(),
		CardNumber:      card.CardNumber,
		Amount:          55000, // approved for a different amount
	}

	s.mockCardRepo.On("Begin", mock.Anything).Return(nil, nil)
	s.mockCardRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	s.mockCardRepo.On("FindCardByNumberForUpdate", mock.Anything, mock.Anything, card.CardNumber).Return(&card, nil)
	s.mockAuthRepo.On("FindAuthorizationForUpdate", mock.Anything, mock.Anything, authorization.AuthorizationID).Return(&authorization, nil)

	_, err := s.service.ApplyConsumption(ctx, card.CardNumber, dto.ConsumptionRequest{
		Amount:          60000,
		AuthorizationID: &authorization.AuthorizationID,
	}, s.staffID)

	s.Require().ErrorIs(err, services.ErrAuthorizationRequired)
}

func (s *LedgerServiceTestSuite) TestCheckBalanceIntegrity() {
	ctx := context.Background()
	card := s.card

	s.mockCardRepo.On("FindCardByNumber", ctx, card.CardNumber).Return(&card, nil)
	s.mockLedgerRepo.On("SumSignedAmounts", ctx, card.CardNumber).Return(int64(50000), nil)

	resp, err := s.service.CheckBalanceIntegrity(ctx, card.CardNumber)
	s.Require().NoError(err)
	s.True(resp.Consistent)
	s.Equal(int64(50000), resp.ProjectedBalance)
	s.Equal(int64(50000), resp.RecomputedSum)
}

func (s *LedgerServiceTestSuite) TestCheckBalanceIntegrityDetectsDivergence() {
	ctx := context.Background()
	card := s.card

	s.mockCardRepo.On("FindCardByNumber", ctx, card.CardNumber).Return(&card, nil)
	s.mockLedgerRepo.On("SumSignedAmounts", ctx, card.CardNumber).Return(int64(48000), nil)

	resp, err := s.service.CheckBalanceIntegrity(ctx, card.CardNumber)
	s.Require().NoError(err)
	s.False(resp.Consistent)
}

func (s *LedgerServiceTestSuite) TestAcknowledgeNotificationsStampsCard() {
	ctx := context.Background()
	card := s.card
	ids := []string{uuid.NewString(), uuid.NewString()}

	s.mockCardRepo.On("FindCardByNumber", ctx, card.CardNumber).Return(&card, nil)
	s.mockNotificationRepo.On("MarkSent", ctx, ids, mock.AnythingOfType("time.Time")).Return(int64(2), nil)
	s.mockCardRepo.On("MarkNotified", ctx, card.CardNumber, mock.AnythingOfType("time.Time")).Return(nil)

	updated, err := s.service.AcknowledgeNotifications(ctx, card.CardNumber, ids)
	s.Require().NoError(err)
	s.Equal(int64(2), updated)
	s.mockCardRepo.AssertCalled(s.T(), "MarkNotified", ctx, card.CardNumber, mock.AnythingOfType("time.Time"))
}

func (s *LedgerServiceTestSuite) TestAcknowledgeNotificationsSkipsCardStampWhenNothingUpdated() {
	ctx := context.Background()
	card := s.card
	ids := []string{uuid.NewString()}

	s.mockCardRepo.On("FindCardByNumber", ctx, card.CardNumber).Return(&card, nil)
	s.mockNotificationRepo.On("MarkSent", ctx, ids, mock.AnythingOfType("time.Time")).Return(int64(0), nil)

	updated, err := s.service.AcknowledgeNotifications(ctx, card.CardNumber, ids)
	s.Require().NoError(err)
	s.Equal(int64(0), updated)
	s.mockCardRepo.AssertNotCalled(s.T(), "MarkNotified", mock.Anything, mock.Anything, mock.Anything)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func TestApplyTopupRejectsNonPositiveAmount(t *testing.T) {
	svc := services.NewLedgerService(new(MockCardRepository), new(MockLedgerRepository), new(MockAuthorizationRepository), new(MockSaleRepository), new(MockNotificationRepository))

	_, err := svc.ApplyTopup(context.Background(), "1001", dto.TopupRequest{Amount: 0, PaymentMethod: domain.PaymentCash}, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.ApplyConsumption(context.Background(), "1001", dto.ConsumptionRequest{Amount: -5}, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestApplyTopupRejectsUnknownPaymentMethod(t *testing.T) {
	svc := services.NewLedgerService(new(MockCardRepository), new(MockLedgerRepository), new(MockAuthorizationRepository), new(MockSaleRepository), new(MockNotificationRepository))

	_, err := svc.ApplyTopup(context.Background(), "1001", dto.TopupRequest{Amount: 100, PaymentMethod: "CHEQUE"}, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/cantinatita/card_ledger_app/internal/core/domain"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/dto"
)

// --- Mock CardService ---
type MockCardService struct {
	mock.Mock
}

func (m *MockCardService) IssueCard(ctx context.Context, req dto.IssueCardRequest, staffID string) (*domain.Card, error) {
	args := m.Called(ctx, req, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}
func (m *MockCardService) GetCard(ctx context.Context, cardNumber string) (*domain.Card, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}
func (m *MockCardService) GetNegativeBalancePolicy(ctx context.Context, cardNumber string) (*domain.NegativeBalancePolicy, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NegativeBalancePolicy), args.Error(1)
}
func (m *MockCardService) ListCards(ctx context.Context, limit, offset int) ([]domain.Card, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}
func (m *MockCardService) UpdateCardStatus(ctx context.Context, cardNumber string, status domain.CardStatus, staffID string) (*domain.Card, error) {
	args := m.Called(ctx, cardNumber, status, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}
func (m *MockCardService) UpdateCardPolicy(ctx context.Context, cardNumber string, req dto.UpdateCardPolicyRequest, staffID string) (*domain.Card, error) {
	args := m.Called(ctx, cardNumber, req, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

var _ portssvc.CardSvcFacade = (*MockCardService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ApplyTopup(ctx context.Context, cardNumber string, req dto.TopupRequest, staffID string) (*domain.LedgerEvent, error) {
	args := m.Called(ctx, cardNumber, req, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEvent), args.Error(1)
}
func (m *MockLedgerService) ApplyConsumption(ctx context.Context, cardNumber string, req dto.ConsumptionRequest, staffID string) (*domain.LedgerEvent, error) {
	args := m.Called(ctx, cardNumber, req, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEvent), args.Error(1)
}
func (m *MockLedgerService) GetEvent(ctx context.Context, eventID string) (*domain.LedgerEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEvent), args.Error(1)
}
func (m *MockLedgerService) ListEventsByCard(ctx context.Context, cardNumber string, limit int, nextToken *string) ([]domain.LedgerEvent, *string, error) {
	args := m.Called(ctx, cardNumber, limit, nextToken)
	var events []domain.LedgerEvent
	if args.Get(0) != nil {
		events = args.Get(0).([]domain.LedgerEvent)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return events, token, args.Error(2)
}
func (m *MockLedgerService) ListPendingNotifications(ctx context.Context, cardNumber string, limit int) ([]domain.BalanceNotification, error) {
	args := m.Called(ctx, cardNumber, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BalanceNotification), args.Error(1)
}
func (m *MockLedgerService) AcknowledgeNotifications(ctx context.Context, cardNumber string, notificationIDs []string) (int64, error) {
	args := m.Called(ctx, cardNumber, notificationIDs)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLedgerService) CheckBalanceIntegrity(ctx context.Context, cardNumber string) (*dto.BalanceIntegrityResponse, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BalanceIntegrityResponse), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock AuthorizationService ---
type MockAuthorizationService struct {
	mock.Mock
}

func (m *MockAuthorizationService) PreviewAuthorization(ctx context.Context, cardNumber string, amount int64) (*domain.AuthorizationRequest, error) {
	args := m.Called(ctx, cardNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthorizationRequest), args.Error(1)
}
func (m *MockAuthorizationService) ApproveAuthorization(ctx context.Context, cardNumber string, amount int64, justification, staffID string) (*domain.Authorization, error) {
	args := m.Called(ctx, cardNumber, amount, justification, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Authorization), args.Error(1)
}
func (m *MockAuthorizationService) GetAuthorization(ctx context.Context, authorizationID string) (*domain.Authorization, error) {
	args := m.Called(ctx, authorizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Authorization), args.Error(1)
}
func (m *MockAuthorizationService) ListAuthorizationsByCard(ctx context.Context, cardNumber string, unsettledOnly bool) ([]domain.Authorization, error) {
	args := m.Called(ctx, cardNumber, unsettledOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Authorization), args.Error(1)
}

var _ portssvc.AuthorizationSvcFacade = (*MockAuthorizationService)(nil)

// --- Mock SaleService ---
type MockSaleService struct {
	mock.Mock
}

func (m *MockSaleService) GetSale(ctx context.Context, saleID string) (*domain.SaleRecord, *domain.Payment, *domain.FiscalDocument, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*domain.SaleRecord), args.Get(1).(*domain.Payment), args.Get(2).(*domain.FiscalDocument), args.Error(3)
}
func (m *MockSaleService) GetSaleByTopupEvent(ctx context.Context, topupEventID string) (*domain.SaleRecord, *domain.Payment, *domain.FiscalDocument, error) {
	args := m.Called(ctx, topupEventID)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*domain.SaleRecord), args.Get(1).(*domain.Payment), args.Get(2).(*domain.FiscalDocument), args.Error(3)
}

var _ portssvc.SaleSvcFacade = (*MockSaleService)(nil)

// --- Mock StaffService ---
type MockStaffService struct {
	mock.Mock
}

func (m *MockStaffService) Login(ctx context.Context, req dto.LoginRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
func (m *MockStaffService) CreateStaff(ctx context.Context, req dto.CreateStaffRequest, creatorStaffID string) (*domain.Staff, error) {
	args := m.Called(ctx, req, creatorStaffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}
func (m *MockStaffService) GetStaff(ctx context.Context, staffID string) (*domain.Staff, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}
func (m *MockStaffService) ListStaff(ctx context.Context, limit, offset int) ([]domain.Staff, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Staff), args.Error(1)
}
func (m *MockStaffService) DeactivateStaff(ctx context.Context, staffID, actorStaffID string) error {
	args := m.Called(ctx, staffID, actorStaffID)
	return args.Error(0)
}
func (m *MockStaffService) IsAuthorizedSupervisor(ctx context.Context, staffID string) (bool, error) {
	args := m.Called(ctx, staffID)
	return args.Bool(0), args.Error(1)
}

var _ portssvc.StaffSvcFacade = (*MockStaffService)(nil)

// --- Mock GoogleOAuthService ---
type MockGoogleOAuthService struct {
	mock.Mock
}

func (m *MockGoogleOAuthService) AuthURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}
func (m *MockGoogleOAuthService) HandleCallback(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}
func (m *MockGoogleOAuthService) SignInWithIDToken(ctx context.Context, idToken string) (string, error) {
	args := m.Called(ctx, idToken)
	return args.String(0), args.Error(1)
}

var _ portssvc.GoogleOAuthHandlerSvcFacade = (*MockGoogleOAuthService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetDailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailySummary), args.Error(1)
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

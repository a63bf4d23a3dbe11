package services

import (
	portsrepo "github.com/cantinatita/card_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/cantinatita/card_ledger_app/internal/core/ports/services"
	"github.com/cantinatita/card_ledger_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Staff service first since the authorizer depends on it
	container.StaffSvc = NewStaffService(cfg, repos.StaffRepo)

	container.CardSvc = NewCardService(repos.CardRepo)

	container.AuthorizationSvc = NewAuthorizationService(
		repos.AuthorizationRepo,
		repos.CardRepo,
		container.StaffSvc,
	)

	container.LedgerSvc = NewLedgerService(
		repos.CardRepo,
		repos.LedgerRepo,
		repos.AuthorizationRepo,
		repos.SaleRepo,
		repos.NotificationRepo,
		WithLowBalanceThreshold(cfg.LowBalanceThreshold),
		WithTopupStamping(cfg.TopupStampingNumber),
	)

	container.SaleSvc = NewSaleService(repos.SaleRepo)
	container.ReportingSvc = NewReportingService(repos.ReportingRepo)
	container.GoogleOAuthSvc = NewGoogleOAuthHandlerService(cfg, repos.StaffRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.CardSvcFacade          = (*cardService)(nil)
	_ portssvc.LedgerSvcFacade        = (*ledgerService)(nil)
	_ portssvc.AuthorizationSvcFacade = (*authorizationService)(nil)
	_ portssvc.StaffSvcFacade         = (*staffService)(nil)
)

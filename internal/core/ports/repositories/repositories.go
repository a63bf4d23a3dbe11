package repositories

// RepositoryProvider aggregates all repository facades for dependency injection.
type RepositoryProvider struct {
	CardRepo          CardRepositoryWithTx
	LedgerRepo        LedgerRepositoryWithTx
	AuthorizationRepo AuthorizationRepositoryWithTx
	SaleRepo          SaleRepositoryFacade
	StaffRepo         StaffRepositoryFacade
	NotificationRepo  NotificationRepository
	ReportingRepo     ReportingRepository
}

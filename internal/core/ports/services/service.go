package services

// ServiceContainer bundles the service facades handed to the HTTP layer.
type ServiceContainer struct {
	CardSvc          CardSvcFacade
	LedgerSvc        LedgerSvcFacade
	AuthorizationSvc AuthorizationSvcFacade
	SaleSvc          SaleSvcFacade
	StaffSvc         StaffSvcFacade
	GoogleOAuthSvc   GoogleOAuthHandlerSvcFacade
	ReportingSvc     ReportingSvcFacade
}

package services

// ServiceContainer bundles all service implementations for injection into
// the handler layer.
type ServiceContainer struct {
	Company        CompanyService
	Account        AccountService
	Journal        JournalService
	Batch          BatchService
	Reporting      ReportingService
	Reconciliation ReconciliationService
}

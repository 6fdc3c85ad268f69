package services

import (
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
)

// NewServiceContainer wires all services against the repository provider.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, batchWorkers int) *portssvc.ServiceContainer {
	companySvc := NewCompanyService(repos.CompanyRepo)
	accountSvc := NewAccountService(repos.AccountRepo, companySvc)
	journalSvc := NewJournalService(repos.JournalRepo, accountSvc, companySvc)
	batchSvc := NewBatchService(repos.JournalRepo, journalSvc, batchWorkers)
	reportingSvc := NewReportingService(repos.ReportingRepo)
	reconciliationSvc := NewReconciliationService(repos.ExceptionRepo, repos.JournalRepo, accountSvc)

	return &portssvc.ServiceContainer{
		Company:        companySvc,
		Account:        accountSvc,
		Journal:        journalSvc,
		Batch:          batchSvc,
		Reporting:      reportingSvc,
		Reconciliation: reconciliationSvc,
	}
}

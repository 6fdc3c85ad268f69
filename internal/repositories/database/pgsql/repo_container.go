package pgsql

import (
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	companyRepo := newPgxCompanyRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	reportingRepo := newReportingRepository(dbPool)
	exceptionRepo := newPgxExceptionRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CompanyRepo:   companyRepo,
		AccountRepo:   accountRepo,
		JournalRepo:   journalRepo,
		ReportingRepo: reportingRepo,
		ExceptionRepo: exceptionRepo,
	}
}

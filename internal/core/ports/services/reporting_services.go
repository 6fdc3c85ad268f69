package services

import (
	"context"
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
)

// ReportingService derives ledger views by folding posted entries. It never
// mutates state. Reports that fail their balancing cross-check return
// apperrors.ErrIntegrity instead of a silently-adjusted report.
type ReportingService interface {
	TrialBalance(ctx context.Context, companyID string, asOf time.Time) (*domain.TrialBalanceReport, error)
	BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error)
	ProfitAndLoss(ctx context.Context, companyID string, from, to time.Time) (*domain.PAndLReport, error)
	AgingReport(ctx context.Context, companyID string, kind domain.OpenItemKind, asOf time.Time) (*domain.AgingReport, error)
}

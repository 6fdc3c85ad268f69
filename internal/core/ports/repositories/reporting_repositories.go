package repositories

import (
	"context"
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
)

// ReportingRepository defines the read-only aggregation queries backing the
// ledger reports. It only ever sees committed POSTED entries and never
// mutates state.
type ReportingRepository interface {
	// GetTrialBalanceRows folds every posted line dated on or before asOf
	// into per-account debit/credit totals.
	GetTrialBalanceRows(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetBalanceSheetData returns net amounts for asset, liability and equity
	// accounts as of a date, signed positive on each account's normal side.
	GetBalanceSheetData(ctx context.Context, companyID string, asOf time.Time) (assets, liabilities, equity []domain.AccountAmount, err error)

	// GetProfitAndLossData returns net revenue and expense amounts for a period.
	GetProfitAndLossData(ctx context.Context, companyID string, from, to time.Time) (revenue, expenses []domain.AccountAmount, err error)

	// ListOpenItems returns unsettled receivables or payables that existed on
	// or before asOf.
	ListOpenItems(ctx context.Context, companyID string, kind domain.OpenItemKind, asOf time.Time) ([]domain.OpenItem, error)
}

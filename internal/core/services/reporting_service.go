package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
)

// currentPeriodEarningsName labels the synthetic equity line that carries
// net income not yet closed to retained earnings. Without it the balance
// sheet identity cannot hold mid-period.
const currentPeriodEarningsName = "Current Period Earnings"

// reportingService folds posted entries into ledger reports. All derivations
// are read-only; balancing failures surface as errors rather than adjusted
// numbers.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingService {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance lists per-account debit/credit totals as of a date. The report
// is the ledger's own consistency check, so an imbalance is reported in the
// Difference/IsBalanced fields instead of being suppressed.
func (s *reportingService) TrialBalance(ctx context.Context, companyID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	rows, err := s.reportingRepo.GetTrialBalanceRows(ctx, companyID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch trial balance rows", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to fetch trial balance rows: %w", err)
	}

	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, row := range rows {
		totalDebits = totalDebits.Add(row.Debit)
		totalCredits = totalCredits.Add(row.Credit)
	}
	difference := totalDebits.Sub(totalCredits)

	report := &domain.TrialBalanceReport{
		AsOf:         asOf,
		Rows:         rows,
		TotalDebits:  totalDebits,
		TotalCredits: totalCredits,
		Difference:   difference,
		IsBalanced:   difference.IsZero(),
	}
	if !report.IsBalanced {
		s.LogWarn(ctx, "Trial balance does not balance",
			slog.String("company_id", companyID),
			slog.String("difference", difference.String()))
	}
	return report, nil
}

// BalanceSheet derives the balance sheet as of a date. Net income for the
// period is appended as a synthetic equity line so the accounting identity
// Assets == Liabilities + Equity holds structurally; a residual violation
// after that means the underlying data is corrupt and fails with
// apperrors.ErrIntegrity.
func (s *reportingService) BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	assets, liabilities, equity, err := s.reportingRepo.GetBalanceSheetData(ctx, companyID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch balance sheet data", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to fetch balance sheet data: %w", err)
	}

	// Net income since inception that has not been closed to retained
	// earnings. Revenue and expense balances are exactly this residual.
	revenue, expenses, err := s.reportingRepo.GetProfitAndLossData(ctx, companyID, time.Time{}, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch earnings data for balance sheet", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to fetch earnings data: %w", err)
	}
	earnings := sumAmounts(revenue).Sub(sumAmounts(expenses))
	if !earnings.IsZero() {
		equity = append(equity, domain.AccountAmount{
			Name:      currentPeriodEarningsName,
			NetAmount: earnings,
		})
	}

	report := &domain.BalanceSheetReport{
		AsOf:             asOf,
		Assets:           assets,
		Liabilities:      liabilities,
		Equity:           equity,
		TotalAssets:      sumAmounts(assets),
		TotalLiabilities: sumAmounts(liabilities),
		TotalEquity:      sumAmounts(equity),
	}
	report.IsBalanced = report.TotalAssets.Equal(report.TotalLiabilities.Add(report.TotalEquity))

	if !report.IsBalanced {
		s.LogError(ctx, apperrors.ErrIntegrity, "Balance sheet identity violated",
			slog.String("company_id", companyID),
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("total_liabilities", report.TotalLiabilities.String()),
			slog.String("total_equity", report.TotalEquity.String()))
		return nil, fmt.Errorf("%w: assets %s != liabilities %s + equity %s",
			apperrors.ErrIntegrity, report.TotalAssets, report.TotalLiabilities, report.TotalEquity)
	}
	return report, nil
}

// ProfitAndLoss derives net profit over a period.
func (s *reportingService) ProfitAndLoss(ctx context.Context, companyID string, from, to time.Time) (*domain.PAndLReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end %s precedes start %s", apperrors.ErrValidation, to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	revenue, expenses, err := s.reportingRepo.GetProfitAndLossData(ctx, companyID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch profit and loss data", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to fetch profit and loss data: %w", err)
	}

	return &domain.PAndLReport{
		From:      from,
		To:        to,
		Revenue:   revenue,
		Expenses:  expenses,
		NetProfit: sumAmounts(revenue).Sub(sumAmounts(expenses)),
	}, nil
}

// AgingReport buckets outstanding receivables or payables by days past due
// as of a date. Buckets use half-open day ranges (1-30, 31-60, 61-90, >90);
// anything not yet due lands in Current.
func (s *reportingService) AgingReport(ctx context.Context, companyID string, kind domain.OpenItemKind, asOf time.Time) (*domain.AgingReport, error) {
	if kind != domain.ReceivableItem && kind != domain.PayableItem {
		return nil, fmt.Errorf("%w: unknown open item kind %q", apperrors.ErrValidation, kind)
	}

	items, err := s.reportingRepo.ListOpenItems(ctx, companyID, kind, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open items", slog.String("company_id", companyID), slog.String("kind", string(kind)))
		return nil, fmt.Errorf("failed to list open items: %w", err)
	}

	report := &domain.AgingReport{
		AsOf: asOf,
		Kind: kind,
		Rows: make([]domain.AgingRow, 0),
	}

	rowIndex := make(map[string]int)
	for _, item := range items {
		idx, exists := rowIndex[item.EntityID]
		if !exists {
			idx = len(report.Rows)
			rowIndex[item.EntityID] = idx
			report.Rows = append(report.Rows, domain.AgingRow{
				EntityID:   item.EntityID,
				EntityName: item.EntityName,
			})
		}
		days := daysPastDue(asOf, item.DueDate)
		addToBucket(&report.Rows[idx].Buckets, days, item.Outstanding)
		addToBucket(&report.Totals, days, item.Outstanding)
	}
	return report, nil
}

// daysPastDue counts whole calendar days between the due date and the
// reporting date. Zero or negative means not yet due.
func daysPastDue(asOf, dueDate time.Time) int {
	asOfDay := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	dueDay := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(asOfDay.Sub(dueDay) / (24 * time.Hour))
}

func addToBucket(b *domain.AgingBuckets, days int, amount decimal.Decimal) {
	switch {
	case days <= 0:
		b.Current = b.Current.Add(amount)
	case days <= 30:
		b.Days30 = b.Days30.Add(amount)
	case days <= 60:
		b.Days60 = b.Days60.Add(amount)
	case days <= 90:
		b.Days90 = b.Days90.Add(amount)
	default:
		b.Over90 = b.Over90.Add(amount)
	}
	b.Total = b.Total.Add(amount)
}

func sumAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.NetAmount)
	}
	return total
}

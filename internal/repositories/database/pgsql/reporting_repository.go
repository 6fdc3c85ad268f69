package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface.
//
// All queries exclude reversal pairs: the reversed original (status
// REVERSED) and the reversal entry (original_entry_id set) drop out
// together, so a reversal nets to zero in every report.
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetTrialBalanceRows retrieves per-account debit/credit totals as of a date.
func (r *reportingRepository) GetTrialBalanceRows(ctx context.Context, companyID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name AS account_name,
			a.account_type,
			SUM(l.debit) AS total_debit,
			SUM(l.credit) AS total_credit
		FROM journal_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.entry_date <= $1
			AND a.company_id = $2
			AND e.status = 'POSTED'
			AND e.original_entry_id IS NULL
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, asOf, companyID)
	if err != nil {
		return nil, fmt.Errorf("error querying trial balance data: %w", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string

		if err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&accountType,
			&row.Debit,
			&row.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}

		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}

	return result, nil
}

// GetBalanceSheetData retrieves balance sheet data as of a specific date.
// Amounts come back signed positive on each account type's normal side.
func (r *reportingRepository) GetBalanceSheetData(ctx context.Context, companyID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	query := `
		SELECT
			a.account_type,
			a.account_id,
			a.code,
			a.name,
			SUM(l.debit - l.credit) AS net
		FROM journal_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.entry_date <= $1
			AND a.company_id = $2
			AND e.status = 'POSTED'
			AND e.original_entry_id IS NULL
			AND a.account_type IN ('ASSET', 'LIABILITY', 'EQUITY')
		GROUP BY a.account_type, a.account_id, a.code, a.name
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, asOf, companyID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error querying balance sheet data: %w", err)
	}
	defer rows.Close()

	assets := []domain.AccountAmount{}
	liabilities := []domain.AccountAmount{}
	equity := []domain.AccountAmount{}

	for rows.Next() {
		var accountType string
		var amount domain.AccountAmount
		var net decimal.Decimal

		if err := rows.Scan(&accountType, &amount.AccountID, &amount.Code, &amount.Name, &net); err != nil {
			return nil, nil, nil, fmt.Errorf("error scanning balance sheet row: %w", err)
		}

		switch accountType {
		case string(domain.Asset):
			// Debit-normal: a positive net debit is a positive asset.
			amount.NetAmount = net
			assets = append(assets, amount)
		case string(domain.Liability):
			// Credit-normal: invert sign for display.
			amount.NetAmount = net.Neg()
			liabilities = append(liabilities, amount)
		case string(domain.Equity):
			amount.NetAmount = net.Neg()
			equity = append(equity, amount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("error iterating balance sheet rows: %w", err)
	}

	return assets, liabilities, equity, nil
}

// GetProfitAndLossData retrieves net revenue and expense amounts for a period.
func (r *reportingRepository) GetProfitAndLossData(ctx context.Context, companyID string, from, to time.Time) ([]domain.AccountAmount, []domain.AccountAmount, error) {
	query := `
		SELECT
			a.account_type,
			a.account_id,
			a.code,
			a.name,
			SUM(l.debit - l.credit) AS net
		FROM journal_lines l
		JOIN accounts a ON l.account_id = a.account_id
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.entry_date BETWEEN $1 AND $2
			AND a.company_id = $3
			AND e.status = 'POSTED'
			AND e.original_entry_id IS NULL
			AND a.account_type IN ('REVENUE', 'EXPENSE')
		GROUP BY a.account_type, a.account_id, a.code, a.name
		ORDER BY a.code
	`

	rows, err := r.Pool.Query(ctx, query, from, to, companyID)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying profit and loss data: %w", err)
	}
	defer rows.Close()

	revenue := []domain.AccountAmount{}
	expenses := []domain.AccountAmount{}

	for rows.Next() {
		var accountType string
		var amount domain.AccountAmount
		var net decimal.Decimal

		if err := rows.Scan(&accountType, &amount.AccountID, &amount.Code, &amount.Name, &net); err != nil {
			return nil, nil, fmt.Errorf("error scanning profit and loss row: %w", err)
		}

		switch accountType {
		case string(domain.Revenue):
			// Credit-normal: invert sign since credits increase revenue.
			amount.NetAmount = net.Neg()
			revenue = append(revenue, amount)
		case string(domain.Expense):
			// Debit-normal: keep sign as is.
			amount.NetAmount = net
			expenses = append(expenses, amount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating profit and loss rows: %w", err)
	}

	return revenue, expenses, nil
}

// ListOpenItems returns unsettled receivables or payables known on or
// before asOf, ordered by entity then due date.
func (r *reportingRepository) ListOpenItems(ctx context.Context, companyID string, kind domain.OpenItemKind, asOf time.Time) ([]domain.OpenItem, error) {
	query := `
		SELECT item_id, company_id, kind, entity_id, entity_name, entry_id, due_date, amount, outstanding,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM open_items
		WHERE company_id = $1
			AND kind = $2
			AND outstanding > 0
			AND created_at <= $3
		ORDER BY entity_id, due_date
	`

	rows, err := r.Pool.Query(ctx, query, companyID, string(kind), asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying open items: %w", err)
	}
	defer rows.Close()

	items := []domain.OpenItem{}
	for rows.Next() {
		var item domain.OpenItem
		var itemKind string
		if err := rows.Scan(
			&item.ItemID,
			&item.CompanyID,
			&itemKind,
			&item.EntityID,
			&item.EntityName,
			&item.EntryID,
			&item.DueDate,
			&item.Amount,
			&item.Outstanding,
			&item.CreatedAt,
			&item.CreatedBy,
			&item.LastUpdatedAt,
			&item.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("error scanning open item row: %w", err)
		}
		item.Kind = domain.OpenItemKind(itemKind)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating open item rows: %w", err)
	}

	return items, nil
}

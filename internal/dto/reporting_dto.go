package dto

import (
	"github.com/finbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse represents a row in the trial balance response.
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType string          `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceResponse represents the trial balance report response.
type TrialBalanceResponse struct {
	AsOf   string                    `json:"asOf"`
	Rows   []TrialBalanceRowResponse `json:"rows"`
	Totals struct {
		Debits     decimal.Decimal `json:"debits"`
		Credits    decimal.Decimal `json:"credits"`
		Difference decimal.Decimal `json:"difference"`
	} `json:"totals"`
	IsBalanced bool `json:"isBalanced"`
}

// ToTrialBalanceResponse converts a domain trial balance to its DTO.
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	response := TrialBalanceResponse{
		AsOf:       report.AsOf.Format("2006-01-02"),
		Rows:       make([]TrialBalanceRowResponse, len(report.Rows)),
		IsBalanced: report.IsBalanced,
	}
	for i, row := range report.Rows {
		response.Rows[i] = TrialBalanceRowResponse{
			AccountID:   row.AccountID,
			AccountCode: row.AccountCode,
			AccountName: row.AccountName,
			AccountType: string(row.AccountType),
			Debit:       row.Debit,
			Credit:      row.Credit,
		}
	}
	response.Totals.Debits = report.TotalDebits
	response.Totals.Credits = report.TotalCredits
	response.Totals.Difference = report.Difference
	return response
}

// AccountAmountResponse represents an account with its amount in a report.
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

func toAccountAmountResponses(amounts []domain.AccountAmount) []AccountAmountResponse {
	responses := make([]AccountAmountResponse, len(amounts))
	for i, a := range amounts {
		responses[i] = AccountAmountResponse{
			AccountID: a.AccountID,
			Code:      a.Code,
			Name:      a.Name,
			Amount:    a.NetAmount,
		}
	}
	return responses
}

// BalanceSheetResponse represents the balance sheet report response.
type BalanceSheetResponse struct {
	AsOf        string                  `json:"asOf"`
	Assets      []AccountAmountResponse `json:"assets"`
	Liabilities []AccountAmountResponse `json:"liabilities"`
	Equity      []AccountAmountResponse `json:"equity"`
	Summary     struct {
		TotalAssets      decimal.Decimal `json:"totalAssets"`
		TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
		TotalEquity      decimal.Decimal `json:"totalEquity"`
	} `json:"summary"`
	IsBalanced bool `json:"isBalanced"`
}

// ToBalanceSheetResponse converts a domain balance sheet report to its DTO.
func ToBalanceSheetResponse(report *domain.BalanceSheetReport) BalanceSheetResponse {
	response := BalanceSheetResponse{
		AsOf:        report.AsOf.Format("2006-01-02"),
		Assets:      toAccountAmountResponses(report.Assets),
		Liabilities: toAccountAmountResponses(report.Liabilities),
		Equity:      toAccountAmountResponses(report.Equity),
		IsBalanced:  report.IsBalanced,
	}
	response.Summary.TotalAssets = report.TotalAssets
	response.Summary.TotalLiabilities = report.TotalLiabilities
	response.Summary.TotalEquity = report.TotalEquity
	return response
}

// ProfitAndLossResponse represents the profit and loss report response.
type ProfitAndLossResponse struct {
	FromDate string                  `json:"fromDate"`
	ToDate   string                  `json:"toDate"`
	Revenue  []AccountAmountResponse `json:"revenue"`
	Expenses []AccountAmountResponse `json:"expenses"`
	Summary  struct {
		TotalRevenue  decimal.Decimal `json:"totalRevenue"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		NetProfit     decimal.Decimal `json:"netProfit"`
	} `json:"summary"`
}

// ToProfitAndLossResponse converts a domain P&L report to its DTO.
func ToProfitAndLossResponse(report *domain.PAndLReport) ProfitAndLossResponse {
	response := ProfitAndLossResponse{
		FromDate: report.From.Format("2006-01-02"),
		ToDate:   report.To.Format("2006-01-02"),
		Revenue:  toAccountAmountResponses(report.Revenue),
		Expenses: toAccountAmountResponses(report.Expenses),
	}
	totalRevenue := decimal.Zero
	for _, r := range report.Revenue {
		totalRevenue = totalRevenue.Add(r.NetAmount)
	}
	totalExpenses := decimal.Zero
	for _, e := range report.Expenses {
		totalExpenses = totalExpenses.Add(e.NetAmount)
	}
	response.Summary.TotalRevenue = totalRevenue
	response.Summary.TotalExpenses = totalExpenses
	response.Summary.NetProfit = report.NetProfit
	return response
}

// AgingBucketsResponse mirrors domain.AgingBuckets on the wire.
type AgingBucketsResponse struct {
	Current decimal.Decimal `json:"current"`
	Days30  decimal.Decimal `json:"days30"`
	Days60  decimal.Decimal `json:"days60"`
	Days90  decimal.Decimal `json:"days90"`
	Over90  decimal.Decimal `json:"over90"`
	Total   decimal.Decimal `json:"total"`
}

// AgingRowResponse is one entity's bucketed outstanding balance.
type AgingRowResponse struct {
	EntityID   string               `json:"entityID"`
	EntityName string               `json:"entityName"`
	Buckets    AgingBucketsResponse `json:"buckets"`
}

// AgingReportResponse represents the AR/AP aging report response.
type AgingReportResponse struct {
	AsOf   string               `json:"asOf"`
	Kind   string               `json:"kind"`
	Rows   []AgingRowResponse   `json:"rows"`
	Totals AgingBucketsResponse `json:"totals"`
}

func toAgingBucketsResponse(b domain.AgingBuckets) AgingBucketsResponse {
	return AgingBucketsResponse{
		Current: b.Current,
		Days30:  b.Days30,
		Days60:  b.Days60,
		Days90:  b.Days90,
		Over90:  b.Over90,
		Total:   b.Total,
	}
}

// ToAgingReportResponse converts a domain aging report to its DTO.
func ToAgingReportResponse(report *domain.AgingReport) AgingReportResponse {
	response := AgingReportResponse{
		AsOf:   report.AsOf.Format("2006-01-02"),
		Kind:   string(report.Kind),
		Rows:   make([]AgingRowResponse, len(report.Rows)),
		Totals: toAgingBucketsResponse(report.Totals),
	}
	for i, row := range report.Rows {
		response.Rows[i] = AgingRowResponse{
			EntityID:   row.EntityID,
			EntityName: row.EntityName,
			Buckets:    toAgingBucketsResponse(row.Buckets),
		}
	}
	return response
}

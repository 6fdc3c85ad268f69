package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow represents a single account's totals in a trial balance.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport is the full trial balance as of a date. Difference must
// be exactly zero in a consistent ledger; any nonzero difference is an
// integrity failure, not a rounding artifact.
type TrialBalanceReport struct {
	AsOf         time.Time         `json:"asOf"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
	Difference   decimal.Decimal   `json:"difference"`
	IsBalanced   bool              `json:"isBalanced"`
}

// AccountAmount represents an account with its net amount for financial reports.
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	NetAmount decimal.Decimal `json:"netAmount"`
}

// BalanceSheetReport partitions trial-balance rows by account type.
// IsBalanced holds iff TotalAssets == TotalLiabilities + TotalEquity.
type BalanceSheetReport struct {
	AsOf             time.Time       `json:"asOf"`
	Assets           []AccountAmount `json:"assets"`
	Liabilities      []AccountAmount `json:"liabilities"`
	Equity           []AccountAmount `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	IsBalanced       bool            `json:"isBalanced"`
}

// PAndLReport represents a profit and loss report.
type PAndLReport struct {
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Revenue   []AccountAmount `json:"revenue"`
	Expenses  []AccountAmount `json:"expenses"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// AgingBuckets partitions an entity's outstanding amounts by days past due.
// Buckets are mutually exclusive and sum exactly to Total.
type AgingBuckets struct {
	Current decimal.Decimal `json:"current"` // daysPastDue <= 0
	Days30  decimal.Decimal `json:"days30"`  // 1-30
	Days60  decimal.Decimal `json:"days60"`  // 31-60
	Days90  decimal.Decimal `json:"days90"`  // 61-90
	Over90  decimal.Decimal `json:"over90"`  // > 90
	Total   decimal.Decimal `json:"total"`
}

// AgingRow is one customer's (or vendor's) bucketed outstanding balance.
type AgingRow struct {
	EntityID   string       `json:"entityID"`
	EntityName string       `json:"entityName"`
	Buckets    AgingBuckets `json:"buckets"`
}

// AgingReport is the AR or AP aging view as of a date.
type AgingReport struct {
	AsOf   time.Time    `json:"asOf"`
	Kind   OpenItemKind `json:"kind"`
	Rows   []AgingRow   `json:"rows"`
	Totals AgingBuckets `json:"totals"`
}

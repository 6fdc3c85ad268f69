package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// BalanceSide indicates which side of the ledger increases an account.
type BalanceSide string

const (
	DebitSide  BalanceSide = "DEBIT"
	CreditSide BalanceSide = "CREDIT"
)

// NormalSide returns the side on which an account of this type carries its
// normal balance. Asset and Expense accounts are debit-normal; Liability,
// Equity and Revenue accounts are credit-normal.
func (t AccountType) NormalSide() BalanceSide {
	switch t {
	case Asset, Expense:
		return DebitSide
	default:
		return CreditSide
	}
}

// Account represents a single account in a company's chart of accounts.
// The code is unique within a company; the type is immutable after creation
// because changing it would invalidate historical balances.
type Account struct {
	AccountID   string      `json:"accountID"` // Primary Key (e.g., UUID)
	CompanyID   string      `json:"companyID"` // FK -> companies.company_id (Not Null)
	Code        string      `json:"code"`      // Unique, sortable within a company
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"` // ASSET, LIABILITY, etc.
	Description string      `json:"description"` // Nullable user description
	IsActive    bool        `json:"isActive"`
	AuditFields
}

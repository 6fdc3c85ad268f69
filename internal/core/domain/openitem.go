package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenItemKind distinguishes receivables (AR) from payables (AP).
type OpenItemKind string

const (
	ReceivableItem OpenItemKind = "RECEIVABLE"
	PayableItem    OpenItemKind = "PAYABLE"
)

// OpenItem is an outstanding receivable or payable backing the aging report.
// Items are emitted when a posted journal entry carries a counterparty due
// date, reduced by payment application, and drop out of aging once settled.
type OpenItem struct {
	ItemID      string          `json:"itemID"`  // Primary Key (e.g., UUID)
	CompanyID   string          `json:"companyID"`
	Kind        OpenItemKind    `json:"kind"`
	EntityID    string          `json:"entityID"`   // Customer or vendor ID
	EntityName  string          `json:"entityName"`
	EntryID     string          `json:"entryID"` // Originating journal entry
	DueDate     time.Time       `json:"dueDate"`
	Amount      decimal.Decimal `json:"amount"`      // Original amount
	Outstanding decimal.Decimal `json:"outstanding"` // Remaining unpaid amount
	AuditFields
}

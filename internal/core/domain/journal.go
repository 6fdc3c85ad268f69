package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft           EntryStatus = "DRAFT"
	PendingApproval EntryStatus = "PENDING_APPROVAL"
	Posted          EntryStatus = "POSTED"
	Reversed        EntryStatus = "REVERSED"
)

// JournalLine is a single line item within a journal entry, affecting one
// account. Exactly one of Debit/Credit is nonzero, and both are >= 0.
type JournalLine struct {
	LineID    string          `json:"lineID"`    // Primary Key (e.g., UUID)
	EntryID   string          `json:"entryID"`   // FK -> journal_entries.entry_id (Not Null)
	AccountID string          `json:"accountID"` // FK -> accounts.account_id (Not Null)
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"` // Nullable
	AuditFields
}

// JournalEntry represents a single, balanced financial event composed of
// multiple lines. sum(Debit) == sum(Credit) holds for every entry accepted by
// the store, and is re-checked at every transition that posts it.
type JournalEntry struct {
	EntryID      string      `json:"entryID"`   // Primary Key (e.g., UUID)
	CompanyID    string      `json:"companyID"` // FK -> companies.company_id (Not Null)
	EntryDate    time.Time   `json:"entryDate"` // Date the event occurred
	Reference    string      `json:"reference"` // External document reference, nullable
	Memo         string      `json:"memo"`
	Status       EntryStatus `json:"status"`
	CurrencyCode string      `json:"currencyCode"` // Opaque ISO code; FX handling is external

	// Approval gating (maker-checker). Approved only ever becomes true while
	// the entry is PENDING_APPROVAL; posting is a separate transition.
	Approved        bool   `json:"approved"`
	ApprovalComment string `json:"approvalComment"`

	// Reversal links. A reversal carries OriginalEntryID; the reversed
	// original carries ReversingEntryID. Both are permanent.
	OriginalEntryID  *string `json:"originalEntryID,omitempty"`
	ReversingEntryID *string `json:"reversingEntryID,omitempty"`

	ReversalReason string `json:"reversalReason,omitempty"`

	// Terms, when present, make posting emit an open receivable/payable for
	// the aging report.
	Terms *CounterpartyTerms `json:"terms,omitempty"`

	Lines []JournalLine `json:"lines,omitempty"`
	AuditFields
}

// CounterpartyTerms carries the customer/vendor due-date terms of an entry.
type CounterpartyTerms struct {
	Kind       OpenItemKind `json:"kind"`
	EntityID   string       `json:"entityID"`
	EntityName string       `json:"entityName"`
	DueDate    time.Time    `json:"dueDate"`
}

// InventoryMovement records a stock movement booked alongside a journal entry.
// Reversing the entry reverses the movement and restores quantities.
type InventoryMovement struct {
	MovementID string          `json:"movementID"`
	EntryID    string          `json:"entryID"`
	ProductID  string          `json:"productID"`
	Quantity   decimal.Decimal `json:"quantity"` // Positive for inbound, negative for outbound
	Reversed   bool            `json:"reversed"`
}

// ReversalResult reports the side effects of reversing a posted entry.
type ReversalResult struct {
	ReversingEntry             *JournalEntry
	InventoryMovementsReversed int
	StockRestored              bool
}

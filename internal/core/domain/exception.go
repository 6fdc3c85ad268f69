package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExceptionReason classifies why an external transaction has no ledger
// counterpart.
type ExceptionReason string

const (
	ReasonUnmatched       ExceptionReason = "unmatched"
	ReasonPolicyViolation ExceptionReason = "policy_violation"
)

// ExceptionStatus is the lifecycle state of an exception record. Exceptions
// are never deleted, only status-transitioned, to preserve the audit trail.
type ExceptionStatus string

const (
	ExceptionOpen      ExceptionStatus = "open"
	ExceptionMatched   ExceptionStatus = "matched"
	ExceptionDismissed ExceptionStatus = "dismissed"
)

// ExceptionRecord is an unresolved external transaction (e.g. a card charge)
// awaiting reconciliation against the ledger.
type ExceptionRecord struct {
	ExceptionID string          `json:"exceptionID"` // Primary Key (e.g., UUID)
	CompanyID   string          `json:"companyID"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Reason      ExceptionReason `json:"reason"`
	Status      ExceptionStatus `json:"status"`
	// MatchedEntryID links the expense journal entry that resolved this
	// exception. Set exactly once, when status transitions to matched.
	MatchedEntryID *string `json:"matchedEntryID,omitempty"`
	AuditFields
}

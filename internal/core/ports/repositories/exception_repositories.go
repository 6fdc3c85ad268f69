package repositories

import (
	"context"
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
)

// ExceptionRepository defines persistence for reconciliation exceptions.
// Records are never deleted; all closure happens via status transitions.
type ExceptionRepository interface {
	SaveException(ctx context.Context, exception domain.ExceptionRecord) error
	FindExceptionByID(ctx context.Context, companyID, exceptionID string) (*domain.ExceptionRecord, error)
	ListExceptions(ctx context.Context, companyID string, status *domain.ExceptionStatus) ([]domain.ExceptionRecord, error)

	// MarkDismissed transitions open -> dismissed (CAS on status).
	MarkDismissed(ctx context.Context, companyID, exceptionID, userID string, at time.Time) error

	// MarkMatched transitions open -> matched and links the resolving entry.
	MarkMatched(ctx context.Context, companyID, exceptionID, entryID, userID string, at time.Time) error

	// ResolveWithExpense atomically inserts the already-posted expense entry
	// (with lines) and marks the exception matched against it. Used by
	// resolve-create so the expense and the status flip commit together.
	ResolveWithExpense(ctx context.Context, exception domain.ExceptionRecord, expense domain.JournalEntry, userID string, at time.Time) error
}

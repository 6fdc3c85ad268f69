package services

import (
	"context"

	"github.com/finbooks/ledger_backend/internal/core/domain"
)

// BatchRequest is the validated input of a batch lifecycle operation.
type BatchRequest struct {
	Operation domain.BatchOperation
	EntryIDs  []string
	Comment   string // approve only
	Reason    string // reverse only, required
}

// BatchService applies a lifecycle operation to many entries with per-entry
// independence: one entry's failure never blocks the others, and callers must
// inspect the failure list rather than assume full success.
type BatchService interface {
	Execute(ctx context.Context, companyID string, req BatchRequest, userID string) (*domain.BatchResult, error)
}

package services

import (
	"context"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	"github.com/finbooks/ledger_backend/internal/dto"
)

// ReconciliationService resolves exception records against the ledger. The
// service is authoritative and strictly consistent; optimistic apply/rollback
// is a client-side concern layered on top (see pkg/client).
type ReconciliationService interface {
	CreateException(ctx context.Context, companyID string, req dto.CreateExceptionRequest, userID string) (*domain.ExceptionRecord, error)
	ListExceptions(ctx context.Context, companyID string, status *domain.ExceptionStatus) ([]domain.ExceptionRecord, error)

	// Dismiss transitions open -> dismissed. Dismissing an already-dismissed
	// exception is a no-op success so UI retries stay safe.
	Dismiss(ctx context.Context, companyID, exceptionID, userID string) (*domain.ExceptionRecord, error)

	// ResolveCreate creates a posted expense entry from the exception's
	// amount/date/description and links it. Fails with apperrors.ErrCreation
	// if the exception is not open.
	ResolveCreate(ctx context.Context, companyID, exceptionID string, req dto.ResolveCreateRequest, userID string) (*domain.ExceptionRecord, error)

	// ResolveMatch links an existing posted entry instead of creating one.
	ResolveMatch(ctx context.Context, companyID, exceptionID, entryID, userID string) (*domain.ExceptionRecord, error)
}

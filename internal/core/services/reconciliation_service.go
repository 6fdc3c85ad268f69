package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/dto"
)

// reconciliationService resolves card/bank exception records against the
// ledger. It is the authoritative arbiter: a resolution either commits fully
// or leaves the exception untouched.
type reconciliationService struct {
	BaseService
	exceptionRepo portsrepo.ExceptionRepository
	journalRepo   portsrepo.JournalRepository
	accountSvc    portssvc.AccountService
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(exceptionRepo portsrepo.ExceptionRepository, journalRepo portsrepo.JournalRepository, accountSvc portssvc.AccountService) portssvc.ReconciliationService {
	return &reconciliationService{
		exceptionRepo: exceptionRepo,
		journalRepo:   journalRepo,
		accountSvc:    accountSvc,
	}
}

var _ portssvc.ReconciliationService = (*reconciliationService)(nil)

// CreateException records an external transaction that found no ledger
// counterpart during import.
func (s *reconciliationService) CreateException(ctx context.Context, companyID string, req dto.CreateExceptionRequest, userID string) (*domain.ExceptionRecord, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exception amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	exception := domain.ExceptionRecord{
		ExceptionID: uuid.NewString(),
		CompanyID:   companyID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		Reason:      domain.ExceptionReason(req.Reason),
		Status:      domain.ExceptionOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.exceptionRepo.SaveException(ctx, exception); err != nil {
		s.LogError(ctx, err, "Failed to save exception record", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save exception record: %w", err)
	}

	s.LogInfo(ctx, "Exception record created", slog.String("exception_id", exception.ExceptionID))
	return &exception, nil
}

// ListExceptions returns exception records, optionally filtered by status.
func (s *reconciliationService) ListExceptions(ctx context.Context, companyID string, status *domain.ExceptionStatus) ([]domain.ExceptionRecord, error) {
	exceptions, err := s.exceptionRepo.ListExceptions(ctx, companyID, status)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exception records", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list exception records: %w", err)
	}
	return exceptions, nil
}

// Dismiss closes an exception without a ledger entry. Dismissing an
// already-dismissed exception is a no-op success; dismissing a matched one
// fails, because the linked entry would be orphaned.
func (s *reconciliationService) Dismiss(ctx context.Context, companyID, exceptionID, userID string) (*domain.ExceptionRecord, error) {
	exception, err := s.exceptionRepo.FindExceptionByID(ctx, companyID, exceptionID)
	if err != nil {
		return nil, err
	}

	switch exception.Status {
	case domain.ExceptionDismissed:
		return exception, nil
	case domain.ExceptionMatched:
		return nil, fmt.Errorf("%w: exception %s is already matched to an entry", apperrors.ErrInvalidState, exceptionID)
	}

	now := time.Now().UTC()
	if err := s.exceptionRepo.MarkDismissed(ctx, companyID, exceptionID, userID, now); err != nil {
		// Lost a race with another resolver; report the current state.
		if errors.Is(err, apperrors.ErrInvalidState) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to dismiss exception", slog.String("exception_id", exceptionID))
		return nil, fmt.Errorf("failed to dismiss exception: %w", err)
	}

	exception.Status = domain.ExceptionDismissed
	exception.LastUpdatedAt = now
	exception.LastUpdatedBy = userID
	s.LogInfo(ctx, "Exception dismissed", slog.String("exception_id", exceptionID))
	return exception, nil
}

// ResolveCreate books a posted expense entry from the exception's own
// amount/date/description and links it. The expense debit and the clearing
// credit are both the exception amount, so the created entry is balanced by
// construction. The insert and the status flip commit atomically.
func (s *reconciliationService) ResolveCreate(ctx context.Context, companyID, exceptionID string, req dto.ResolveCreateRequest, userID string) (*domain.ExceptionRecord, error) {
	exception, err := s.exceptionRepo.FindExceptionByID(ctx, companyID, exceptionID)
	if err != nil {
		return nil, err
	}
	if exception.Status != domain.ExceptionOpen {
		return nil, fmt.Errorf("%w: exception %s is %s", apperrors.ErrCreation, exceptionID, exception.Status)
	}

	accounts, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, []string{req.ExpenseAccountID, req.ClearingAccountID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resolution accounts: %w", err)
	}
	expenseAcc, found := accounts[req.ExpenseAccountID]
	if !found {
		return nil, fmt.Errorf("%w: expense account %s not found", apperrors.ErrValidation, req.ExpenseAccountID)
	}
	if expenseAcc.AccountType != domain.Expense {
		return nil, fmt.Errorf("%w: account %s is %s, expected EXPENSE", apperrors.ErrValidation, req.ExpenseAccountID, expenseAcc.AccountType)
	}
	if _, found := accounts[req.ClearingAccountID]; !found {
		return nil, fmt.Errorf("%w: clearing account %s not found", apperrors.ErrValidation, req.ClearingAccountID)
	}

	now := time.Now().UTC()
	memo := req.Memo
	if memo == "" {
		memo = exception.Description
	}
	currency := req.CurrencyCode
	if currency == "" {
		currency = "JPY"
	}

	entryID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	expense := domain.JournalEntry{
		EntryID:      entryID,
		CompanyID:    companyID,
		EntryDate:    exception.Date,
		Memo:         memo,
		CurrencyCode: currency,
		Status:       domain.Posted,
		Lines: []domain.JournalLine{
			{
				LineID:      uuid.NewString(),
				EntryID:     entryID,
				AccountID:   req.ExpenseAccountID,
				Debit:       exception.Amount,
				Memo:        memo,
				AuditFields: audit,
			},
			{
				LineID:      uuid.NewString(),
				EntryID:     entryID,
				AccountID:   req.ClearingAccountID,
				Credit:      exception.Amount,
				Memo:        memo,
				AuditFields: audit,
			},
		},
		AuditFields: audit,
	}

	if err := s.exceptionRepo.ResolveWithExpense(ctx, *exception, expense, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to resolve exception with new expense", slog.String("exception_id", exceptionID))
		return nil, err
	}

	exception.Status = domain.ExceptionMatched
	exception.MatchedEntryID = &entryID
	exception.LastUpdatedAt = now
	exception.LastUpdatedBy = userID
	s.LogInfo(ctx, "Exception resolved with new expense entry",
		slog.String("exception_id", exceptionID),
		slog.String("entry_id", entryID))
	return exception, nil
}

// ResolveMatch links an existing posted entry to an open exception.
func (s *reconciliationService) ResolveMatch(ctx context.Context, companyID, exceptionID, entryID, userID string) (*domain.ExceptionRecord, error) {
	exception, err := s.exceptionRepo.FindExceptionByID(ctx, companyID, exceptionID)
	if err != nil {
		return nil, err
	}
	if exception.Status != domain.ExceptionOpen {
		return nil, fmt.Errorf("%w: exception %s is %s", apperrors.ErrCreation, exceptionID, exception.Status)
	}

	entry, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: entry %s not found", apperrors.ErrValidation, entryID)
		}
		return nil, err
	}
	if entry.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is %s, only POSTED entries can match an exception", apperrors.ErrValidation, entryID, entry.Status)
	}

	now := time.Now().UTC()
	if err := s.exceptionRepo.MarkMatched(ctx, companyID, exceptionID, entryID, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to match exception", slog.String("exception_id", exceptionID), slog.String("entry_id", entryID))
		return nil, err
	}

	exception.Status = domain.ExceptionMatched
	exception.MatchedEntryID = &entryID
	exception.LastUpdatedAt = now
	exception.LastUpdatedBy = userID
	s.LogInfo(ctx, "Exception matched to existing entry",
		slog.String("exception_id", exceptionID),
		slog.String("entry_id", entryID))
	return exception, nil
}

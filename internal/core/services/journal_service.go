package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
	"github.com/finbooks/ledger_backend/internal/dto"
	"github.com/finbooks/ledger_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// journalService provides the journal entry lifecycle operations.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepository
	accountSvc  portssvc.AccountService
	companySvc  portssvc.CompanyService
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepository, accountSvc portssvc.AccountService, companySvc portssvc.CompanyService) portssvc.JournalService {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
		companySvc:  companySvc,
	}
}

var _ portssvc.JournalService = (*journalService)(nil)

// CreateEntry validates and persists a new journal entry in DRAFT status.
// The double-entry invariant is enforced at construction time: unbalanced
// lines never enter the store.
func (s *journalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	now := time.Now().UTC()
	entryID := uuid.NewString()

	lines := make([]domain.JournalLine, len(req.Lines))
	accountIDs := make([]string, 0, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.JournalLine{
			LineID:    uuid.NewString(),
			EntryID:   entryID,
			AccountID: lineReq.AccountID,
			Debit:     lineReq.Debit,
			Credit:    lineReq.Credit,
			Memo:      lineReq.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		accountIDs = append(accountIDs, lineReq.AccountID)
	}

	if err := accounting.ValidateEntryLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	// Every referenced account must exist in this company and be active.
	uniqueAccountIDs := uniqueStrings(accountIDs)
	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, uniqueAccountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for entry creation", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range uniqueAccountIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: account %s not found in company %s", apperrors.ErrValidation, id, companyID)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}

	entry := domain.JournalEntry{
		EntryID:      entryID,
		CompanyID:    companyID,
		EntryDate:    req.Date,
		Reference:    req.Reference,
		Memo:         req.Memo,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.Draft,
		Lines:        lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.OpenItem != nil {
		entry.Terms = &domain.CounterpartyTerms{
			Kind:       domain.OpenItemKind(req.OpenItem.Kind),
			EntityID:   req.OpenItem.EntityID,
			EntityName: req.OpenItem.EntityName,
			DueDate:    req.OpenItem.DueDate,
		}
	}

	if err := s.journalRepo.SaveEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	s.LogInfo(ctx, "Journal entry created", slog.String("entry_id", entryID), slog.String("company_id", companyID))
	return &entry, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

// SubmitEntry moves a DRAFT entry into PENDING_APPROVAL.
func (s *journalService) SubmitEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s, expected DRAFT", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.SubmitEntry(ctx, companyID, entryID, userID, now); err != nil {
		return nil, err
	}

	entry.Status = domain.PendingApproval
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	s.LogInfo(ctx, "Journal entry submitted for approval", slog.String("entry_id", entryID))
	return entry, nil
}

// ApproveEntry records the checker's approval on a PENDING_APPROVAL entry.
// Approval only clears the gating flag; posting stays a separate transition
// so maker-checker deployments can separate approval from ledger posting.
func (s *journalService) ApproveEntry(ctx context.Context, companyID, entryID, comment, userID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.PendingApproval {
		return nil, fmt.Errorf("%w: entry %s is %s, expected PENDING_APPROVAL", apperrors.ErrInvalidState, entryID, entry.Status)
	}
	if entry.Approved {
		return nil, fmt.Errorf("%w: entry %s is already approved", apperrors.ErrInvalidState, entryID)
	}

	now := time.Now().UTC()
	if err := s.journalRepo.ApproveEntry(ctx, companyID, entryID, comment, userID, now); err != nil {
		return nil, err
	}

	entry.Approved = true
	entry.ApprovalComment = comment
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	s.LogInfo(ctx, "Journal entry approved", slog.String("entry_id", entryID), slog.String("approved_by", userID))
	return entry, nil
}

// PostEntry transitions an entry to POSTED, making it visible to the ledger
// aggregator. The balance invariant is re-validated from the stored lines:
// stale or corrupted data must not reach the ledger.
func (s *journalService) PostEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}

	switch entry.Status {
	case domain.Draft:
		company, err := s.companySvc.GetCompanyByID(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve company posting policy: %w", err)
		}
		if company.RequiresApproval {
			return nil, fmt.Errorf("%w: company %s requires approval before posting", apperrors.ErrInvalidState, companyID)
		}
	case domain.PendingApproval:
		if !entry.Approved {
			return nil, fmt.Errorf("%w: entry %s is pending approval and not yet approved", apperrors.ErrInvalidState, entryID)
		}
	default:
		return nil, fmt.Errorf("%w: entry %s is %s, expected DRAFT or approved PENDING_APPROVAL", apperrors.ErrInvalidState, entryID, entry.Status)
	}

	// Re-check the double-entry invariant against stored lines.
	debits, credits := accounting.SumLines(entry.Lines)
	if !debits.Equal(credits) {
		s.LogWarn(ctx, "Balance invariant re-check failed at post time",
			slog.String("entry_id", entryID),
			slog.String("debits", debits.String()),
			slog.String("credits", credits.String()))
		return nil, fmt.Errorf("%w: entry %s has debits %s and credits %s", apperrors.ErrUnbalanced, entryID, debits.String(), credits.String())
	}

	now := time.Now().UTC()
	openItems := buildOpenItems(entry, debits, userID, now)

	if err := s.journalRepo.PostEntry(ctx, companyID, entryID, entry.Status, openItems, userID, now); err != nil {
		return nil, err
	}

	entry.Status = domain.Posted
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	s.LogInfo(ctx, "Journal entry posted", slog.String("entry_id", entryID), slog.String("company_id", companyID))
	return entry, nil
}

// ReverseEntry creates a new posted entry negating a POSTED entry and flips
// the original to REVERSED. The pair commits atomically; the original is
// never mutated beyond its status and links.
func (s *journalService) ReverseEntry(ctx context.Context, companyID, entryID, reason, userID string) (*domain.ReversalResult, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	}

	original, err := s.journalRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is %s, expected POSTED", apperrors.ErrInvalidState, entryID, original.Status)
	}
	// A reversal entry is excluded from report aggregation via its link to the
	// original; reversing it again would make the pair vanish from the fold
	// instead of netting out. Correct a bad reversal with a fresh entry.
	if original.OriginalEntryID != nil {
		return nil, fmt.Errorf("%w: entry %s is itself a reversal and cannot be reversed", apperrors.ErrInvalidState, entryID)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()

	reversalLines := accounting.NegateLines(original.Lines)
	for i := range reversalLines {
		reversalLines[i].LineID = uuid.NewString()
		reversalLines[i].EntryID = reversalID
		reversalLines[i].AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
	}

	reversal := domain.JournalEntry{
		EntryID:         reversalID,
		CompanyID:       companyID,
		EntryDate:       now,
		Reference:       original.Reference,
		Memo:            fmt.Sprintf("Reversal of: %s", original.Memo),
		CurrencyCode:    original.CurrencyCode,
		Status:          domain.Posted,
		OriginalEntryID: &original.EntryID,
		Lines:           reversalLines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	movementsReversed, err := s.journalRepo.ReverseEntry(ctx, *original, reversal, reason)
	if err != nil {
		s.LogError(ctx, err, "Failed to reverse journal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry reversed",
		slog.String("entry_id", entryID),
		slog.String("reversing_entry_id", reversalID),
		slog.Int("inventory_movements_reversed", movementsReversed))

	return &domain.ReversalResult{
		ReversingEntry:             &reversal,
		InventoryMovementsReversed: movementsReversed,
		StockRestored:              movementsReversed > 0,
	}, nil
}

// buildOpenItems derives the open receivable/payable emitted by posting an
// entry that carries counterparty terms. The item amount is the entry total
// (the debit side of a balanced entry).
func buildOpenItems(entry *domain.JournalEntry, total decimal.Decimal, userID string, now time.Time) []domain.OpenItem {
	if entry.Terms == nil {
		return nil
	}
	return []domain.OpenItem{{
		ItemID:      uuid.NewString(),
		CompanyID:   entry.CompanyID,
		Kind:        entry.Terms.Kind,
		EntityID:    entry.Terms.EntityID,
		EntityName:  entry.Terms.EntityName,
		EntryID:     entry.EntryID,
		DueDate:     entry.Terms.DueDate,
		Amount:      total,
		Outstanding: total,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}}
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}

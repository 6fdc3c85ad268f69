package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/ledger_backend/internal/core/ports/services"
)

// batchItemOutcome holds the result slot for one batch item. Slots are
// indexed by position so worker goroutines never contend on shared slices.
type batchItemOutcome struct {
	success *domain.BatchItemSuccess
	failure *domain.BatchItemFailure

	movementsReversed int
	stockRestored     bool
}

// batchService fans a lifecycle operation out over a bounded worker pool.
// Per-item independence is the core contract: each entry succeeds or fails on
// its own, and the batch call itself only errors on invalid input.
type batchService struct {
	BaseService
	journalRepo portsrepo.JournalRepository
	journalSvc  portssvc.JournalService
	workers     int
}

// NewBatchService creates a new BatchService with the given worker pool size.
func NewBatchService(journalRepo portsrepo.JournalRepository, journalSvc portssvc.JournalService, workers int) portssvc.BatchService {
	if workers <= 0 {
		workers = 8
	}
	return &batchService{
		journalRepo: journalRepo,
		journalSvc:  journalSvc,
		workers:     workers,
	}
}

var _ portssvc.BatchService = (*batchService)(nil)

// Execute runs the batch operation and reports per-item outcomes. The entry
// list is first classified against current statuses so missing and ineligible
// entries fail fast without occupying workers; eligible entries then
// transition concurrently, each through the same single-entry service path
// used by the non-batch endpoints.
func (s *batchService) Execute(ctx context.Context, companyID string, req portssvc.BatchRequest, userID string) (*domain.BatchResult, error) {
	start := time.Now()

	switch req.Operation {
	case domain.BatchApprove, domain.BatchPost, domain.BatchReverse:
	default:
		return nil, fmt.Errorf("%w: unknown batch operation %q", apperrors.ErrValidation, req.Operation)
	}
	if len(req.EntryIDs) == 0 {
		return nil, fmt.Errorf("%w: entry ID list cannot be empty", apperrors.ErrValidation)
	}
	if req.Operation == domain.BatchReverse && strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("%w: reversal reason is required", apperrors.ErrValidation)
	}

	entryIDs := uniqueStrings(req.EntryIDs)

	headers, err := s.journalRepo.FindEntriesByIDs(ctx, companyID, entryIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entries for batch operation", slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	outcomes := make([]batchItemOutcome, len(entryIDs))
	eligible := make([]int, 0, len(entryIDs))

	for i, entryID := range entryIDs {
		header, found := headers[entryID]
		if !found {
			outcomes[i].failure = &domain.BatchItemFailure{
				EntryID: entryID,
				Error:   fmt.Sprintf("entry %s not found", entryID),
			}
			continue
		}
		if reason := ineligibleReason(req.Operation, header); reason != "" {
			outcomes[i].failure = &domain.BatchItemFailure{EntryID: entryID, Error: reason}
			continue
		}
		eligible = append(eligible, i)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, idx := range eligible {
		idx := idx
		g.Go(func() error {
			s.executeItem(gctx, companyID, req, entryIDs[idx], userID, &outcomes[idx])
			return nil
		})
	}
	// Workers never return errors; failures land in their outcome slot.
	_ = g.Wait()

	result := &domain.BatchResult{
		Operation:  req.Operation,
		Successful: make([]domain.BatchItemSuccess, 0, len(entryIDs)),
		Failed:     make([]domain.BatchItemFailure, 0),
	}
	for i := range outcomes {
		switch {
		case outcomes[i].success != nil:
			result.Successful = append(result.Successful, *outcomes[i].success)
			result.Summary.InventoryMovementsReversed += outcomes[i].movementsReversed
			result.Summary.StockRestored = result.Summary.StockRestored || outcomes[i].stockRestored
		case outcomes[i].failure != nil:
			result.Failed = append(result.Failed, *outcomes[i].failure)
		}
	}
	result.Summary.Total = len(entryIDs)
	result.Summary.Successful = len(result.Successful)
	result.Summary.Failed = len(result.Failed)
	result.Summary.ProcessingTimeMs = time.Since(start).Milliseconds()

	s.LogInfo(ctx, "Batch operation completed",
		slog.String("operation", string(req.Operation)),
		slog.String("company_id", companyID),
		slog.Int("total", result.Summary.Total),
		slog.Int("successful", result.Summary.Successful),
		slog.Int("failed", result.Summary.Failed),
		slog.Int64("processing_time_ms", result.Summary.ProcessingTimeMs))

	return result, nil
}

// executeItem runs one batch item through the single-entry service path and
// records its outcome. Errors are captured, never propagated: entries race
// concurrently with other callers, so a CAS loss here is an item failure, not
// a batch failure.
func (s *batchService) executeItem(ctx context.Context, companyID string, req portssvc.BatchRequest, entryID, userID string, outcome *batchItemOutcome) {
	switch req.Operation {
	case domain.BatchApprove:
		entry, err := s.journalSvc.ApproveEntry(ctx, companyID, entryID, req.Comment, userID)
		if err != nil {
			outcome.failure = &domain.BatchItemFailure{EntryID: entryID, Error: err.Error()}
			return
		}
		outcome.success = &domain.BatchItemSuccess{EntryID: entryID, NewStatus: entry.Status}

	case domain.BatchPost:
		entry, err := s.journalSvc.PostEntry(ctx, companyID, entryID, userID)
		if err != nil {
			outcome.failure = &domain.BatchItemFailure{EntryID: entryID, Error: err.Error()}
			return
		}
		outcome.success = &domain.BatchItemSuccess{EntryID: entryID, NewStatus: entry.Status}

	case domain.BatchReverse:
		reversal, err := s.journalSvc.ReverseEntry(ctx, companyID, entryID, req.Reason, userID)
		if err != nil {
			outcome.failure = &domain.BatchItemFailure{EntryID: entryID, Error: err.Error()}
			return
		}
		outcome.success = &domain.BatchItemSuccess{
			EntryID:          entryID,
			NewStatus:        domain.Reversed,
			ReversingEntryID: reversal.ReversingEntry.EntryID,
		}
		outcome.movementsReversed = reversal.InventoryMovementsReversed
		outcome.stockRestored = reversal.StockRestored
	}
}

// ineligibleReason pre-screens an entry header against the operation's
// required status. Returns an empty string when the entry may proceed. The
// authoritative check is still the CAS inside the repository; this only keeps
// obviously-wrong entries out of the worker pool.
func ineligibleReason(op domain.BatchOperation, header domain.JournalEntry) string {
	switch op {
	case domain.BatchApprove:
		if header.Status != domain.PendingApproval {
			return fmt.Sprintf("entry %s is %s, expected PENDING_APPROVAL", header.EntryID, header.Status)
		}
		if header.Approved {
			return fmt.Sprintf("entry %s is already approved", header.EntryID)
		}
	case domain.BatchPost:
		if header.Status != domain.Draft && !(header.Status == domain.PendingApproval && header.Approved) {
			return fmt.Sprintf("entry %s is %s, expected DRAFT or approved PENDING_APPROVAL", header.EntryID, header.Status)
		}
	case domain.BatchReverse:
		if header.Status != domain.Posted {
			return fmt.Sprintf("entry %s is %s, expected POSTED", header.EntryID, header.Status)
		}
		if header.OriginalEntryID != nil {
			return fmt.Sprintf("entry %s is itself a reversal and cannot be reversed", header.EntryID)
		}
	}
	return ""
}

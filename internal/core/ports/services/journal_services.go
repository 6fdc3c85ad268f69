package services

import (
	"context"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	"github.com/finbooks/ledger_backend/internal/dto"
)

// JournalService owns the journal entry lifecycle: DRAFT ->
// PENDING_APPROVAL -> POSTED -> REVERSED, with direct DRAFT -> POSTED when
// the company does not require approval.
type JournalService interface {
	CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error)
	GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)
	SubmitEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, error)
	ApproveEntry(ctx context.Context, companyID, entryID, comment, userID string) (*domain.JournalEntry, error)
	PostEntry(ctx context.Context, companyID, entryID, userID string) (*domain.JournalEntry, error)
	ReverseEntry(ctx context.Context, companyID, entryID, reason, userID string) (*domain.ReversalResult, error)
}

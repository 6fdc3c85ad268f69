package repositories

import (
	"context"
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
)

// JournalRepository defines persistence operations for journal entries and
// their lifecycle transitions.
//
// Every transition method is a compare-and-swap on the entry's status inside
// a database transaction, so two concurrent batch calls can never double-post
// the same entry: the loser of the race gets ErrInvalidState.
type JournalRepository interface {
	// SaveEntry inserts a new entry header and its lines atomically.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// FindEntryByID returns the entry with its lines populated.
	FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)

	// FindEntriesByIDs returns entry headers (no lines) keyed by ID.
	FindEntriesByIDs(ctx context.Context, companyID string, entryIDs []string) (map[string]domain.JournalEntry, error)

	// FindLinesByEntryID returns the lines of a single entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// SubmitEntry transitions DRAFT -> PENDING_APPROVAL.
	SubmitEntry(ctx context.Context, companyID, entryID, userID string, at time.Time) error

	// ApproveEntry records the approval flag and comment on a
	// PENDING_APPROVAL entry. It does not post.
	ApproveEntry(ctx context.Context, companyID, entryID, comment, userID string, at time.Time) error

	// PostEntry transitions the entry from the expected status to POSTED and
	// emits the given open items in the same transaction.
	PostEntry(ctx context.Context, companyID, entryID string, from domain.EntryStatus, openItems []domain.OpenItem, userID string, at time.Time) error

	// ReverseEntry atomically inserts the posted reversal entry (with lines),
	// flips the original POSTED -> REVERSED with reversal links and reason,
	// reverses any recorded inventory movements, and settles open items
	// emitted by the original entry. Returns the number of inventory
	// movements reversed. Both entries succeed or neither does.
	ReverseEntry(ctx context.Context, original domain.JournalEntry, reversal domain.JournalEntry, reason string) (movementsReversed int, err error)
}

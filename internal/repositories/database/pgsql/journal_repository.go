package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/ledger_backend/internal/apperrors"
	"github.com/finbooks/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, company_id, entry_date, reference, memo, status, currency_code,
	approved, approval_comment, original_entry_id, reversing_entry_id, reversal_reason,
	terms_kind, terms_entity_id, terms_entity_name, terms_due_date,
	created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	var status string
	var originalID, reversingID, termsKind, termsEntityID, termsEntityName sql.NullString
	var termsDueDate sql.NullTime

	err := row.Scan(
		&e.EntryID,
		&e.CompanyID,
		&e.EntryDate,
		&e.Reference,
		&e.Memo,
		&status,
		&e.CurrencyCode,
		&e.Approved,
		&e.ApprovalComment,
		&originalID,
		&reversingID,
		&e.ReversalReason,
		&termsKind,
		&termsEntityID,
		&termsEntityName,
		&termsDueDate,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}

	e.Status = domain.EntryStatus(status)
	if originalID.Valid {
		e.OriginalEntryID = &originalID.String
	}
	if reversingID.Valid {
		e.ReversingEntryID = &reversingID.String
	}
	if termsKind.Valid {
		e.Terms = &domain.CounterpartyTerms{
			Kind:       domain.OpenItemKind(termsKind.String),
			EntityID:   termsEntityID.String,
			EntityName: termsEntityName.String,
			DueDate:    termsDueDate.Time,
		}
	}
	return e, nil
}

// insertEntryTx inserts an entry header and its lines inside an existing
// transaction. Shared by SaveEntry, ReverseEntry and the exception
// repository's resolve-create path.
func insertEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	var termsKind, termsEntityID, termsEntityName sql.NullString
	var termsDueDate sql.NullTime
	if entry.Terms != nil {
		termsKind = sql.NullString{String: string(entry.Terms.Kind), Valid: true}
		termsEntityID = sql.NullString{String: entry.Terms.EntityID, Valid: true}
		termsEntityName = sql.NullString{String: entry.Terms.EntityName, Valid: true}
		termsDueDate = sql.NullTime{Time: entry.Terms.DueDate, Valid: true}
	}

	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err := tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.CompanyID,
		entry.EntryDate,
		entry.Reference,
		entry.Memo,
		string(entry.Status),
		entry.CurrencyCode,
		entry.Approved,
		entry.ApprovalComment,
		entry.OriginalEntryID,
		entry.ReversingEntryID,
		entry.ReversalReason,
		termsKind,
		termsEntityID,
		termsEntityName,
		termsDueDate,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entry "+entry.EntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, debit, credit, memo, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, line := range entry.Lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.EntryID,
			line.AccountID,
			line.Debit,
			line.Credit,
			line.Memo,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert lines for journal entry "+entry.EntryID, err)
	}
	return nil
}

// SaveEntry inserts a new entry and its lines within a DB transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntryTx(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry with its lines populated.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND entry_id = $2;
	`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+entryID, err)
	}

	lines, err := r.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &entry, nil
}

// FindEntriesByIDs retrieves entry headers (without lines) keyed by ID.
func (r *PgxJournalRepository) FindEntriesByIDs(ctx context.Context, companyID string, entryIDs []string) (map[string]domain.JournalEntry, error) {
	if len(entryIDs) == 0 {
		return map[string]domain.JournalEntry{}, nil
	}
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND entry_id = ANY($2);
	`
	rows, err := r.Pool.Query(ctx, query, companyID, entryIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries by IDs", err)
	}
	defer rows.Close()

	entries := make(map[string]domain.JournalEntry, len(entryIDs))
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries[entry.EntryID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}
	return entries, nil
}

// FindLinesByEntryID retrieves all lines of one entry.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit, credit, memo, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		var l domain.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.AccountID,
			&l.Debit,
			&l.Credit,
			&l.Memo,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}
	return lines, nil
}

// casStatus flips an entry's status with a compare-and-swap. When zero rows
// match, the follow-up lookup distinguishes a missing entry from a lost race.
func (r *PgxJournalRepository) casStatus(ctx context.Context, tx pgx.Tx, companyID, entryID string, from, to domain.EntryStatus, userID string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE company_id = $4 AND entry_id = $5 AND status = $6;
	`
	tag, err := tx.Exec(ctx, query, string(to), at, userID, companyID, entryID, string(from))
	if err != nil {
		return apperrors.NewAppError(500, "failed to transition entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.describeStatusMismatch(ctx, tx, companyID, entryID, from)
	}
	return nil
}

func (r *PgxJournalRepository) describeStatusMismatch(ctx context.Context, tx pgx.Tx, companyID, entryID string, expected domain.EntryStatus) error {
	var current string
	err := tx.QueryRow(ctx, `SELECT status FROM journal_entries WHERE company_id = $1 AND entry_id = $2;`, companyID, entryID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to read status of entry "+entryID, err)
	}
	return fmt.Errorf("%w: entry %s is %s, expected %s", apperrors.ErrInvalidState, entryID, current, expected)
}

// SubmitEntry transitions DRAFT -> PENDING_APPROVAL.
func (r *PgxJournalRepository) SubmitEntry(ctx context.Context, companyID, entryID, userID string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.casStatus(ctx, tx, companyID, entryID, domain.Draft, domain.PendingApproval, userID, at); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ApproveEntry sets the approval flag and comment on a PENDING_APPROVAL
// entry. The status does not change; posting is a separate transition.
func (r *PgxJournalRepository) ApproveEntry(ctx context.Context, companyID, entryID, comment, userID string, at time.Time) error {
	query := `
		UPDATE journal_entries
		SET approved = TRUE, approval_comment = $1, last_updated_at = $2, last_updated_by = $3
		WHERE company_id = $4 AND entry_id = $5 AND status = $6 AND approved = FALSE;
	`
	tag, err := r.Pool.Exec(ctx, query, comment, at, userID, companyID, entryID, string(domain.PendingApproval))
	if err != nil {
		return apperrors.NewAppError(500, "failed to approve entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		var current string
		var approved bool
		err := r.Pool.QueryRow(ctx, `SELECT status, approved FROM journal_entries WHERE company_id = $1 AND entry_id = $2;`, companyID, entryID).Scan(&current, &approved)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return apperrors.NewAppError(500, "failed to read status of entry "+entryID, err)
		}
		if approved {
			return fmt.Errorf("%w: entry %s is already approved", apperrors.ErrInvalidState, entryID)
		}
		return fmt.Errorf("%w: entry %s is %s, expected PENDING_APPROVAL", apperrors.ErrInvalidState, entryID, current)
	}
	return nil
}

// PostEntry transitions an entry from the expected status to POSTED and
// emits its open items in the same transaction.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, companyID, entryID string, from domain.EntryStatus, openItems []domain.OpenItem, userID string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.casStatus(ctx, tx, companyID, entryID, from, domain.Posted, userID, at); err != nil {
		return err
	}
	if err := insertOpenItemsTx(ctx, tx, openItems); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func insertOpenItemsTx(ctx context.Context, tx pgx.Tx, items []domain.OpenItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `
		INSERT INTO open_items (item_id, company_id, kind, entity_id, entity_name, entry_id, due_date, amount, outstanding, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ItemID,
			item.CompanyID,
			string(item.Kind),
			item.EntityID,
			item.EntityName,
			item.EntryID,
			item.DueDate,
			item.Amount,
			item.Outstanding,
			item.CreatedAt,
			item.CreatedBy,
			item.LastUpdatedAt,
			item.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert open items", err)
	}
	return nil
}

// ReverseEntry atomically inserts the reversal entry with its lines, flips
// the original POSTED -> REVERSED with links and reason, reverses recorded
// inventory movements, and settles the original's open items. The reversal
// and the status flip commit together or not at all.
func (r *PgxJournalRepository) ReverseEntry(ctx context.Context, original domain.JournalEntry, reversal domain.JournalEntry, reason string) (int, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntryTx(ctx, tx, reversal); err != nil {
		return 0, err
	}

	flipQuery := `
		UPDATE journal_entries
		SET status = $1, reversing_entry_id = $2, reversal_reason = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $6 AND entry_id = $7 AND status = $8;
	`
	tag, err := tx.Exec(ctx, flipQuery,
		string(domain.Reversed),
		reversal.EntryID,
		reason,
		reversal.LastUpdatedAt,
		reversal.LastUpdatedBy,
		original.CompanyID,
		original.EntryID,
		string(domain.Posted),
	)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to mark entry "+original.EntryID+" reversed", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, r.describeStatusMismatch(ctx, tx, original.CompanyID, original.EntryID, domain.Posted)
	}

	movementsQuery := `
		UPDATE inventory_movements
		SET reversed = TRUE
		WHERE entry_id = $1 AND reversed = FALSE;
	`
	movementsTag, err := tx.Exec(ctx, movementsQuery, original.EntryID)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to reverse inventory movements for entry "+original.EntryID, err)
	}

	settleQuery := `
		UPDATE open_items
		SET outstanding = 0, last_updated_at = $1, last_updated_by = $2
		WHERE entry_id = $3;
	`
	if _, err := tx.Exec(ctx, settleQuery, reversal.LastUpdatedAt, reversal.LastUpdatedBy, original.EntryID); err != nil {
		return 0, apperrors.NewAppError(500, "failed to settle open items for entry "+original.EntryID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return 0, err
	}
	return int(movementsTag.RowsAffected()), nil
}

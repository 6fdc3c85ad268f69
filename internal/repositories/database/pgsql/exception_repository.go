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

type PgxExceptionRepository struct {
	BaseRepository
}

// newPgxExceptionRepository creates a new repository for reconciliation
// exception records.
func newPgxExceptionRepository(pool *pgxpool.Pool) portsrepo.ExceptionRepository {
	return &PgxExceptionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExceptionRepository = (*PgxExceptionRepository)(nil)

const exceptionColumns = `exception_id, company_id, description, amount, exception_date, reason, status, matched_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanException(row pgx.Row) (domain.ExceptionRecord, error) {
	var e domain.ExceptionRecord
	var reason, status string
	var matchedEntryID sql.NullString

	err := row.Scan(
		&e.ExceptionID,
		&e.CompanyID,
		&e.Description,
		&e.Amount,
		&e.Date,
		&reason,
		&status,
		&matchedEntryID,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return domain.ExceptionRecord{}, err
	}
	e.Reason = domain.ExceptionReason(reason)
	e.Status = domain.ExceptionStatus(status)
	if matchedEntryID.Valid {
		e.MatchedEntryID = &matchedEntryID.String
	}
	return e, nil
}

// SaveException inserts a new exception record.
func (r *PgxExceptionRepository) SaveException(ctx context.Context, exception domain.ExceptionRecord) error {
	query := `
		INSERT INTO exceptions (` + exceptionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		exception.ExceptionID,
		exception.CompanyID,
		exception.Description,
		exception.Amount,
		exception.Date,
		string(exception.Reason),
		string(exception.Status),
		exception.MatchedEntryID,
		exception.CreatedAt,
		exception.CreatedBy,
		exception.LastUpdatedAt,
		exception.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save exception %s: %w", exception.ExceptionID, err)
	}
	return nil
}

// FindExceptionByID retrieves an exception scoped to a company.
func (r *PgxExceptionRepository) FindExceptionByID(ctx context.Context, companyID, exceptionID string) (*domain.ExceptionRecord, error) {
	query := `
		SELECT ` + exceptionColumns + `
		FROM exceptions
		WHERE company_id = $1 AND exception_id = $2;
	`
	exception, err := scanException(r.Pool.QueryRow(ctx, query, companyID, exceptionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find exception by ID "+exceptionID, err)
	}
	return &exception, nil
}

// ListExceptions returns a company's exceptions, optionally filtered by
// status, newest first.
func (r *PgxExceptionRepository) ListExceptions(ctx context.Context, companyID string, status *domain.ExceptionStatus) ([]domain.ExceptionRecord, error) {
	query := `
		SELECT ` + exceptionColumns + `
		FROM exceptions
		WHERE company_id = $1
	`
	args := []any{companyID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}
	query += ` ORDER BY exception_date DESC, exception_id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query exceptions for company "+companyID, err)
	}
	defer rows.Close()

	exceptions := []domain.ExceptionRecord{}
	for rows.Next() {
		exception, err := scanException(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan exception row", err)
		}
		exceptions = append(exceptions, exception)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating exception rows", err)
	}
	return exceptions, nil
}

// MarkDismissed transitions open -> dismissed with a compare-and-swap.
func (r *PgxExceptionRepository) MarkDismissed(ctx context.Context, companyID, exceptionID, userID string, at time.Time) error {
	query := `
		UPDATE exceptions
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE company_id = $4 AND exception_id = $5 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, string(domain.ExceptionDismissed), at, userID, companyID, exceptionID, string(domain.ExceptionOpen))
	if err != nil {
		return apperrors.NewAppError(500, "failed to dismiss exception "+exceptionID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.describeExceptionMismatch(ctx, companyID, exceptionID)
	}
	return nil
}

// MarkMatched transitions open -> matched and links the resolving entry.
func (r *PgxExceptionRepository) MarkMatched(ctx context.Context, companyID, exceptionID, entryID, userID string, at time.Time) error {
	query := `
		UPDATE exceptions
		SET status = $1, matched_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $5 AND exception_id = $6 AND status = $7;
	`
	tag, err := r.Pool.Exec(ctx, query, string(domain.ExceptionMatched), entryID, at, userID, companyID, exceptionID, string(domain.ExceptionOpen))
	if err != nil {
		return apperrors.NewAppError(500, "failed to match exception "+exceptionID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.describeExceptionMismatch(ctx, companyID, exceptionID)
	}
	return nil
}

// ResolveWithExpense atomically inserts the posted expense entry and marks
// the exception matched against it. The expense insert and the status flip
// succeed or fail together.
func (r *PgxExceptionRepository) ResolveWithExpense(ctx context.Context, exception domain.ExceptionRecord, expense domain.JournalEntry, userID string, at time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntryTx(ctx, tx, expense); err != nil {
		return err
	}

	query := `
		UPDATE exceptions
		SET status = $1, matched_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $5 AND exception_id = $6 AND status = $7;
	`
	tag, err := tx.Exec(ctx, query, string(domain.ExceptionMatched), expense.EntryID, at, userID, exception.CompanyID, exception.ExceptionID, string(domain.ExceptionOpen))
	if err != nil {
		return apperrors.NewAppError(500, "failed to match exception "+exception.ExceptionID, err)
	}
	if tag.RowsAffected() == 0 {
		// Another resolver closed it first; abort so the expense insert
		// rolls back with us.
		return fmt.Errorf("%w: exception %s is no longer open", apperrors.ErrCreation, exception.ExceptionID)
	}
	return r.Commit(ctx, tx)
}

func (r *PgxExceptionRepository) describeExceptionMismatch(ctx context.Context, companyID, exceptionID string) error {
	var current string
	err := r.Pool.QueryRow(ctx, `SELECT status FROM exceptions WHERE company_id = $1 AND exception_id = $2;`, companyID, exceptionID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to read status of exception "+exceptionID, err)
	}
	return fmt.Errorf("%w: exception %s is %s, expected open", apperrors.ErrInvalidState, exceptionID, current)
}

package repositories

import (
	"context"

	"github.com/finbooks/ledger_backend/internal/core/domain"
)

// AccountRepository defines persistence operations for the chart of accounts.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account domain.Account) error
	FindAccountByID(ctx context.Context, companyID, accountID string) (*domain.Account, error)
	// FindAccountsByIDs returns the found accounts keyed by ID; callers are
	// responsible for detecting missing IDs.
	FindAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
	// UpdateAccount persists name/description/active changes. The account
	// type is immutable and never written by this method.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

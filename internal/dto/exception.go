package dto

import (
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExceptionRequest records an external transaction with no ledger
// counterpart.
type CreateExceptionRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	Reason      string          `json:"reason" binding:"required,oneof=unmatched policy_violation"`
}

// ResolveCreateRequest creates a new expense entry from the exception's own
// amount/date/description and links it.
type ResolveCreateRequest struct {
	ExpenseAccountID  string `json:"expenseAccountID" binding:"required"`
	ClearingAccountID string `json:"clearingAccountID" binding:"required"`
	CurrencyCode      string `json:"currencyCode" binding:"omitempty,len=3"`
	Memo              string `json:"memo"`
}

// ResolveMatchRequest links an existing posted expense entry instead of
// creating one.
type ResolveMatchRequest struct {
	EntryID string `json:"entryID" binding:"required"`
}

// ExceptionResponse defines the data returned for an exception record.
type ExceptionResponse struct {
	ExceptionID    string          `json:"exceptionID"`
	CompanyID      string          `json:"companyID"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	Reason         string          `json:"reason"`
	Status         string          `json:"status"`
	MatchedEntryID *string         `json:"matchedEntryID,omitempty"`
}

// ToExceptionResponse converts a domain.ExceptionRecord to its DTO.
func ToExceptionResponse(exception *domain.ExceptionRecord) ExceptionResponse {
	return ExceptionResponse{
		ExceptionID:    exception.ExceptionID,
		CompanyID:      exception.CompanyID,
		Description:    exception.Description,
		Amount:         exception.Amount,
		Date:           exception.Date,
		Reason:         string(exception.Reason),
		Status:         string(exception.Status),
		MatchedEntryID: exception.MatchedEntryID,
	}
}

// ToExceptionResponses converts a slice of exception records to DTOs.
func ToExceptionResponses(exceptions []domain.ExceptionRecord) []ExceptionResponse {
	responses := make([]ExceptionResponse, len(exceptions))
	for i := range exceptions {
		responses[i] = ToExceptionResponse(&exceptions[i])
	}
	return responses
}

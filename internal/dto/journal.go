package dto

import (
	"time"

	"github.com/finbooks/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is one line of a new journal entry. Exactly one of
// debit/credit must be nonzero; the service enforces this beyond binding.
type CreateLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
}

// OpenItemRequest carries optional counterparty terms so posting the entry
// emits an open receivable/payable for aging.
type OpenItemRequest struct {
	Kind       string    `json:"kind" binding:"required,oneof=RECEIVABLE PAYABLE"`
	EntityID   string    `json:"entityID" binding:"required"`
	EntityName string    `json:"entityName" binding:"required"`
	DueDate    time.Time `json:"dueDate" binding:"required"`
}

// CreateEntryRequest defines the payload for creating a journal entry.
type CreateEntryRequest struct {
	Date         time.Time           `json:"date" binding:"required"`
	Reference    string              `json:"reference"`
	Memo         string              `json:"memo" binding:"required"`
	CurrencyCode string              `json:"currencyCode" binding:"required,len=3"`
	Lines        []CreateLineRequest `json:"lines" binding:"required,min=2,dive"`
	OpenItem     *OpenItemRequest    `json:"openItem,omitempty"`
}

// ApproveEntryRequest carries the checker's comment.
type ApproveEntryRequest struct {
	Comment string `json:"comment"`
}

// ReverseEntryRequest carries the mandatory reversal reason.
type ReverseEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID    string          `json:"lineID"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID          string         `json:"entryID"`
	CompanyID        string         `json:"companyID"`
	Date             time.Time      `json:"date"`
	Reference        string         `json:"reference,omitempty"`
	Memo             string         `json:"memo"`
	CurrencyCode     string         `json:"currencyCode"`
	Status           string         `json:"status"`
	Approved         bool           `json:"approved"`
	ApprovalComment  string         `json:"approvalComment,omitempty"`
	OriginalEntryID  *string        `json:"originalEntryID,omitempty"`
	ReversingEntryID *string        `json:"reversingEntryID,omitempty"`
	ReversalReason   string         `json:"reversalReason,omitempty"`
	Lines            []LineResponse `json:"lines,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	CreatedBy        string         `json:"createdBy"`
}

// ToLineResponses converts domain lines to response DTOs.
func ToLineResponses(lines []domain.JournalLine) []LineResponse {
	responses := make([]LineResponse, len(lines))
	for i, line := range lines {
		responses[i] = LineResponse{
			LineID:    line.LineID,
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
			Memo:      line.Memo,
		}
	}
	return responses
}

// ToEntryResponse converts a domain.JournalEntry to an EntryResponse DTO.
func ToEntryResponse(entry *domain.JournalEntry) EntryResponse {
	return EntryResponse{
		EntryID:          entry.EntryID,
		CompanyID:        entry.CompanyID,
		Date:             entry.EntryDate,
		Reference:        entry.Reference,
		Memo:             entry.Memo,
		CurrencyCode:     entry.CurrencyCode,
		Status:           string(entry.Status),
		Approved:         entry.Approved,
		ApprovalComment:  entry.ApprovalComment,
		OriginalEntryID:  entry.OriginalEntryID,
		ReversingEntryID: entry.ReversingEntryID,
		ReversalReason:   entry.ReversalReason,
		Lines:            ToLineResponses(entry.Lines),
		CreatedAt:        entry.CreatedAt,
		CreatedBy:        entry.CreatedBy,
	}
}

// ReversalResponse reports the reversal entry and its side effects.
type ReversalResponse struct {
	ReversingEntry             EntryResponse `json:"reversingEntry"`
	InventoryMovementsReversed int           `json:"inventoryMovementsReversed"`
	StockRestored              bool          `json:"stockRestored"`
}

// ToReversalResponse converts a domain.ReversalResult to its DTO.
func ToReversalResponse(result *domain.ReversalResult) ReversalResponse {
	return ReversalResponse{
		ReversingEntry:             ToEntryResponse(result.ReversingEntry),
		InventoryMovementsReversed: result.InventoryMovementsReversed,
		StockRestored:              result.StockRestored,
	}
}

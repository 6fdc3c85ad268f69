package domain

// Company scopes a chart of accounts and its journal entries.
type Company struct {
	CompanyID string `json:"companyID"` // Primary Key (e.g., UUID)
	Name      string `json:"name"`
	// RequiresApproval enables the maker-checker workflow: entries must go
	// DRAFT -> PENDING_APPROVAL -> (approve) -> POSTED instead of being
	// posted directly from DRAFT.
	RequiresApproval bool `json:"requiresApproval"`
	AuditFields
}

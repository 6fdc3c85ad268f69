package domain

// BatchOperation identifies a bulk lifecycle transition.
type BatchOperation string

const (
	BatchApprove BatchOperation = "approve"
	BatchPost    BatchOperation = "post"
	BatchReverse BatchOperation = "reverse"
)

// BatchItemSuccess reports one entry that transitioned successfully.
type BatchItemSuccess struct {
	EntryID   string      `json:"entryID"`
	NewStatus EntryStatus `json:"newStatus"`
	// ReversingEntryID is set for reverse operations only.
	ReversingEntryID string `json:"reversingEntryID,omitempty"`
}

// BatchItemFailure reports one entry that could not be transitioned. The
// failure never aborts its batch peers.
type BatchItemFailure struct {
	EntryID string `json:"entryID"`
	Error   string `json:"error"`
}

// BatchSummary aggregates counts for a completed batch call.
// Total == Successful + Failed always holds.
type BatchSummary struct {
	Total                      int   `json:"total"`
	Successful                 int   `json:"successful"`
	Failed                     int   `json:"failed"`
	ProcessingTimeMs           int64 `json:"processingTimeMs"`
	InventoryMovementsReversed int   `json:"inventoryMovementsReversed,omitempty"`
	StockRestored              bool  `json:"stockRestored,omitempty"`
}

// BatchResult is the per-item outcome report of a batch operation.
type BatchResult struct {
	Operation  BatchOperation     `json:"operation"`
	Successful []BatchItemSuccess `json:"successful"`
	Failed     []BatchItemFailure `json:"failed"`
	Summary    BatchSummary       `json:"summary"`
}

package dto

// BatchApproveRequest approves many pending entries at once.
type BatchApproveRequest struct {
	EntryIDs []string `json:"entryIds" binding:"required,min=1"`
	Comment  string   `json:"comments"`
}

// BatchPostRequest posts many entries at once.
type BatchPostRequest struct {
	EntryIDs []string `json:"entryIds" binding:"required,min=1"`
}

// BatchReverseRequest reverses many posted entries at once. The reason is
// required; a blank reason fails the whole batch before any entry is touched.
type BatchReverseRequest struct {
	EntryIDs []string `json:"entryIds" binding:"required,min=1"`
	Reason   string   `json:"reason" binding:"required"`
}

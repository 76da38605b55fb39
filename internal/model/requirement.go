package model

// RequirementItem is one line of the requirements checklist.
// Its identity is its position in the collection.
type RequirementItem struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// SaveRequirementsRequest is the full-replace body for POST /requirements.
type SaveRequirementsRequest struct {
	Requirements []RequirementItem `json:"requirements"`
}

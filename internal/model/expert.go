package model

// AskExpertRequest represents a POST /ask_expert body.
type AskExpertRequest struct {
	Question string `json:"question"`
}

// AskExpertResponse carries either the answer or the backend error text.
type AskExpertResponse struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

package model

// LoginRequest represents a POST /login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Message  string `json:"message,omitempty"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

// RegisterRequest represents a POST /register body.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ErrorResponse is the `{error}` body the backend sends on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

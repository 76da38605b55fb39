package fakebackend

import (
	"net/http"

	"github.com/househunt/househunt-go/internal/crypto"
	"github.com/househunt/househunt-go/internal/model"
)

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("Username and password are required"))
		return
	}

	b.mu.Lock()
	u, ok := b.users[req.Username]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Invalid username or password"))
		return
	}

	match, err := crypto.Verify(req.Password, u.hash)
	if err != nil || !match {
		writeJSON(w, http.StatusUnauthorized, errorResponse("Invalid username or password"))
		return
	}

	token, err := crypto.GenerateToken(u.id, u.username, b.opts.Secret, b.opts.TokenExpiry)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, model.LoginResponse{
		Message:  "Login successful",
		Token:    token,
		Username: u.username,
	})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("All fields are required"))
		return
	}
	if req.Password != req.ConfirmPassword {
		writeJSON(w, http.StatusBadRequest, errorResponse("Passwords do not match"))
		return
	}

	hash, err := b.hasher.Hash(req.Password)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse(err.Error()))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, taken := b.users[req.Username]; taken {
		writeJSON(w, http.StatusConflict, errorResponse("Username already exists"))
		return
	}
	b.nextID++
	b.users[req.Username] = &user{id: b.nextID, username: req.Username, email: req.Email, hash: hash}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (b *Backend) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func (b *Backend) handleAskExpert(w http.ResponseWriter, r *http.Request) {
	var req model.AskExpertRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Question == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("No question provided"))
		return
	}
	writeJSON(w, http.StatusOK, model.AskExpertResponse{Answer: "Consider: " + req.Question})
}

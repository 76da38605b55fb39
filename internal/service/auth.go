package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/househunt/househunt-go/internal/api"
	"github.com/househunt/househunt-go/internal/crypto"
	"github.com/househunt/househunt-go/internal/model"
)

// Local storage keys of the session halves.
const (
	TokenKey    = "authToken"
	UsernameKey = "currentUsername"
)

const minPasswordLength = 6

// ValidationError is a failed client-side check. The request is never sent.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

var (
	ErrCredentialsRequired = &ValidationError{"Please enter username and password"}
	ErrFieldsRequired      = &ValidationError{"Please fill all fields"}
	ErrPasswordTooShort    = &ValidationError{"Password must be at least 6 characters"}
	ErrPasswordMismatch    = &ValidationError{"Passwords do not match"}
)

// ErrIncompleteSession means the backend accepted a login without issuing a
// usable session.
var ErrIncompleteSession = errors.New("login response carried no session token")

// AuthClient is the part of the backend the auth flows call.
type AuthClient interface {
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) error
	VerifyToken(ctx context.Context, token string) error
}

// Storage is durable key/value storage for the session.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// AuthService owns the session: it is held in memory and mirrored to
// storage.
type AuthService struct {
	client  AuthClient
	storage Storage
	now     func() time.Time

	mu      sync.RWMutex
	session model.Session
}

// NewAuthService creates a new AuthService.
func NewAuthService(client AuthClient, storage Storage) *AuthService {
	return &AuthService{client: client, storage: storage, now: time.Now}
}

// Login checks credentials with the backend and persists the session.
func (s *AuthService) Login(ctx context.Context, username, password string) (model.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.Session{}, ErrCredentialsRequired
	}

	resp, err := s.client.Login(ctx, model.LoginRequest{Username: username, Password: password})
	if err != nil {
		slog.WarnContext(ctx, "login failed", "username", username, "error", err)
		return model.Session{}, err
	}

	session := model.Session{Token: resp.Token, Username: resp.Username}
	if session.Username == "" {
		session.Username = username
	}
	if !session.Valid() {
		slog.WarnContext(ctx, "login response without token", "username", username)
		return model.Session{}, ErrIncompleteSession
	}
	if err := s.persist(ctx, session); err != nil {
		return model.Session{}, err
	}
	s.set(session)

	slog.InfoContext(ctx, "logged in", "username", session.Username)
	return session, nil
}

// Register creates an account. It does not log in.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return ErrFieldsRequired
	}
	if len(req.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	if err := s.client.Register(ctx, req); err != nil {
		slog.WarnContext(ctx, "registration failed", "username", req.Username, "error", err)
		return err
	}
	return nil
}

// Restore resumes a stored session. A token past its expiry is discarded
// without asking the backend; otherwise the backend decides, and a rejected
// token is removed from storage. A network failure leaves storage intact but
// the service logged out.
func (s *AuthService) Restore(ctx context.Context) (model.Session, bool, error) {
	token, ok, err := s.storage.GetItem(ctx, TokenKey)
	if err != nil || !ok || token == "" {
		return model.Session{}, false, err
	}
	username, ok, err := s.storage.GetItem(ctx, UsernameKey)
	if err != nil || !ok || username == "" {
		return model.Session{}, false, err
	}

	if exp, ok := crypto.TokenExpiry(token); ok && !exp.After(s.now()) {
		slog.InfoContext(ctx, "stored token expired", "username", username, "expired_at", exp)
		return model.Session{}, false, s.clear(ctx)
	}

	if err := s.client.VerifyToken(ctx, token); err != nil {
		var be *api.BackendError
		if errors.As(err, &be) {
			slog.InfoContext(ctx, "stored token rejected", "username", username, "status", be.Status)
			return model.Session{}, false, s.clear(ctx)
		}
		slog.WarnContext(ctx, "token verification failed", "error", err)
		return model.Session{}, false, nil
	}

	session := model.Session{Token: token, Username: username}
	s.set(session)
	return session, true, nil
}

// Logout forgets the session in memory and in storage.
func (s *AuthService) Logout(ctx context.Context) error {
	s.set(model.Session{})
	return s.clear(ctx)
}

// Token returns the session token, or "" when logged out.
func (s *AuthService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *AuthService) Session() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Welcome is the greeting shown once logged in.
func Welcome(username string) string {
	return fmt.Sprintf("Welcome, %s!", username)
}

// FailureMessage renders err from an auth or search flow for the user.
// action names the flow, as in "Login" or "Registration".
func FailureMessage(action string, err error) string {
	var ve *ValidationError
	var be *api.BackendError
	var ne *api.NetworkError

	switch {
	case errors.As(err, &ve):
		return ve.msg
	case errors.As(err, &be) && be.Message != "":
		return be.Message
	case errors.As(err, &ne):
		return fmt.Sprintf("%s failed: %v", action, ne.Err)
	default:
		return action + " failed"
	}
}

func (s *AuthService) set(session model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

func (s *AuthService) persist(ctx context.Context, session model.Session) error {
	if err := s.storage.SetItem(ctx, TokenKey, session.Token); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	if err := s.storage.SetItem(ctx, UsernameKey, session.Username); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

func (s *AuthService) clear(ctx context.Context) error {
	if err := s.storage.RemoveItem(ctx, TokenKey); err != nil {
		return err
	}
	return s.storage.RemoveItem(ctx, UsernameKey)
}

// Package collection loads and saves the backend-held collections.
package collection

import (
	"context"
	"errors"
	"log/slog"

	"github.com/househunt/househunt-go/internal/api"
	"github.com/househunt/househunt-go/internal/model"
)

// TokenSource yields the current session token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// Backend is the subset of the API client a Store needs.
type Backend interface {
	GetCollection(ctx context.Context, token string, kind model.Kind, out any) error
	PostCollection(ctx context.Context, token string, kind model.Kind, items any) error
}

// Store is the remote copy of one collection kind. T is the item type.
type Store[T any] struct {
	kind    model.Kind
	backend Backend
	tokens  TokenSource
}

// NewStore creates a Store for kind.
func NewStore[T any](kind model.Kind, backend Backend, tokens TokenSource) *Store[T] {
	return &Store[T]{kind: kind, backend: backend, tokens: tokens}
}

// NewRequirements creates the requirements store.
func NewRequirements(backend Backend, tokens TokenSource) *Store[model.RequirementItem] {
	return NewStore[model.RequirementItem](model.KindRequirements, backend, tokens)
}

// NewShortlist creates the shortlist store.
func NewShortlist(backend Backend, tokens TokenSource) *Store[model.ShortlistItem] {
	return NewStore[model.ShortlistItem](model.KindShortlist, backend, tokens)
}

// Kind returns the collection kind.
func (s *Store[T]) Kind() model.Kind {
	return s.kind
}

// Load fetches the collection. Backend and network failures degrade to an
// empty collection after being logged; only a missing session is returned.
func (s *Store[T]) Load(ctx context.Context) ([]T, error) {
	token := s.tokens.Token()
	if token == "" {
		return nil, api.ErrAuthRequired
	}

	var items []T
	if err := s.backend.GetCollection(ctx, token, s.kind, &items); err != nil {
		if errors.Is(err, context.Canceled) {
			return []T{}, err
		}
		logFailure(ctx, "failed to load collection", s.kind, err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the whole remote collection with items. Failures are logged
// and returned; callers treat the save as finished either way.
func (s *Store[T]) Save(ctx context.Context, items []T) error {
	token := s.tokens.Token()
	if token == "" {
		return api.ErrAuthRequired
	}

	if items == nil {
		items = []T{}
	}
	if err := s.backend.PostCollection(ctx, token, s.kind, items); err != nil {
		logFailure(ctx, "failed to save collection", s.kind, err)
		return err
	}
	return nil
}

func logFailure(ctx context.Context, msg string, kind model.Kind, err error) {
	var be *api.BackendError
	if errors.As(err, &be) {
		slog.WarnContext(ctx, msg, "kind", kind, "status", be.Status)
		return
	}
	slog.WarnContext(ctx, msg, "kind", kind, "error", err)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/househunt/househunt-go/internal/api"
	"github.com/househunt/househunt-go/internal/model"
)

var ErrURLRequired = &ValidationError{"Please enter a Rightmove URL."}

// NoResultsError is a successful scrape response that carried no count.
type NoResultsError struct {
	Message string
}

func (e *NoResultsError) Error() string {
	if e.Message == "" {
		return "unknown error from backend"
	}
	return e.Message
}

// SearchClient is the part of the backend the search flow calls.
type SearchClient interface {
	Scrape(ctx context.Context, token, searchURL string) (model.ScrapeResponse, error)
	History(ctx context.Context, token string) ([]model.HistoryEntry, error)
}

// TokenSource yields the current session token.
type TokenSource interface {
	Token() string
}

// ScrapeResult is the outcome of a search shown to the user.
type ScrapeResult struct {
	Results model.ResultCount
	History []model.HistoryEntry
}

// SearchService counts listings behind search URLs and keeps their history.
type SearchService struct {
	client SearchClient
	tokens TokenSource
}

// NewSearchService creates a new SearchService.
func NewSearchService(client SearchClient, tokens TokenSource) *SearchService {
	return &SearchService{client: client, tokens: tokens}
}

// Scrape asks the backend for the result count of searchURL. History comes
// inline with the response when the backend sends it, else from a second
// request.
func (s *SearchService) Scrape(ctx context.Context, searchURL string) (ScrapeResult, error) {
	token := s.tokens.Token()
	if token == "" {
		return ScrapeResult{}, api.ErrAuthRequired
	}
	searchURL = strings.TrimSpace(searchURL)
	if searchURL == "" {
		return ScrapeResult{}, ErrURLRequired
	}

	resp, err := s.client.Scrape(ctx, token, searchURL)
	if err != nil {
		slog.ErrorContext(ctx, "scrape failed", "url", searchURL, "error", err)
		return ScrapeResult{}, err
	}
	if resp.Results == "" {
		return ScrapeResult{}, &NoResultsError{Message: resp.Error}
	}

	history := resp.History
	if history == nil {
		history = s.History(ctx)
	}
	return ScrapeResult{Results: resp.Results, History: history}, nil
}

// History returns the scrape history, newest first as the backend orders
// it. Failures are logged and yield an empty history.
func (s *SearchService) History(ctx context.Context) []model.HistoryEntry {
	token := s.tokens.Token()
	if token == "" {
		return []model.HistoryEntry{}
	}

	history, err := s.client.History(ctx, token)
	if err != nil {
		slog.WarnContext(ctx, "history fetch failed", "error", err)
		return []model.HistoryEntry{}
	}
	return history
}

// ScrapeMessage renders a Scrape failure for the user.
func ScrapeMessage(err error) string {
	var ve *ValidationError
	var be *api.BackendError
	var nr *NoResultsError
	var ne *api.NetworkError

	switch {
	case errors.Is(err, api.ErrAuthRequired):
		return "Please log in first."
	case errors.As(err, &ve):
		return ve.msg
	case errors.As(err, &be):
		return fmt.Sprintf("Backend error %d: %s", be.Status, be.Body)
	case errors.As(err, &nr):
		if nr.Message == "" {
			return "Error: Unknown error from backend"
		}
		return "Error: " + nr.Message
	case errors.As(err, &ne):
		return "Failed to connect to backend."
	default:
		return err.Error()
	}
}

// Package geo attaches coordinates to shortlist items.
package geo

import (
	"context"
	"log/slog"
	"sync"

	"github.com/househunt/househunt-go/internal/model"
)

// Geocoder resolves one address. It is satisfied by *api.Client.
type Geocoder interface {
	Geocode(ctx context.Context, token, address string) (model.Coordinates, error)
}

// TokenSource yields the current session token.
type TokenSource interface {
	Token() string
}

// Saver persists the full shortlist.
type Saver interface {
	Save(ctx context.Context, items []model.ShortlistItem) error
}

// Enricher geocodes shortlist items that have an address but no
// coordinates, one at a time, and caches the results server-side.
// Resolved addresses are also remembered in memory, so a batch cut short by
// cancellation is not geocoded again by the next one.
type Enricher struct {
	geocoder Geocoder
	tokens   TokenSource
	store    Saver
	limiter  Limiter

	mu       sync.Mutex
	resolved map[string]model.Coordinates
}

func NewEnricher(geocoder Geocoder, tokens TokenSource, store Saver, limiter Limiter) *Enricher {
	return &Enricher{
		geocoder: geocoder,
		tokens:   tokens,
		store:    store,
		limiter:  limiter,
		resolved: make(map[string]model.Coordinates),
	}
}

// Forget drops every remembered address.
func (e *Enricher) Forget() {
	e.mu.Lock()
	defer e.mu.Unlock()
	clear(e.resolved)
}

func (e *Enricher) lookup(address string) (model.Coordinates, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.resolved[address]
	return c, ok
}

func (e *Enricher) remember(address string, c model.Coordinates) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resolved[address] = c
}

// Enrich returns a copy of items with coordinates attached where geocoding
// succeeded, and the number of items enriched. Failed or skipped items are
// left as they were; only context cancellation stops the batch early. The
// updated list is saved when at least one item was enriched.
func (e *Enricher) Enrich(ctx context.Context, items []model.ShortlistItem) ([]model.ShortlistItem, int, error) {
	out := make([]model.ShortlistItem, len(items))
	copy(out, items)

	token := e.tokens.Token()
	if token == "" {
		return out, 0, nil
	}

	enriched := 0
	for i := range out {
		if out[i].Address == "" || out[i].Geocoded() {
			continue
		}

		if c, ok := e.lookup(out[i].Address); ok {
			out[i].Coordinates = &c
			enriched++
			continue
		}

		if err := e.limiter.Wait(ctx); err != nil {
			return out, enriched, err
		}

		c, err := e.geocoder.Geocode(ctx, token, out[i].Address)
		if err != nil {
			if ctx.Err() != nil {
				return out, enriched, ctx.Err()
			}
			slog.WarnContext(ctx, "geocoding failed", "address", out[i].Address, "error", err)
			continue
		}

		e.remember(out[i].Address, c)
		out[i].Coordinates = &c
		enriched++
		slog.DebugContext(ctx, "geocoded", "address", out[i].Address, "lat", c.Lat, "lon", c.Lon)
	}

	if enriched > 0 {
		if err := e.store.Save(ctx, out); err != nil {
			slog.WarnContext(ctx, "failed to cache coordinates", "enriched", enriched, "error", err)
		}
	}

	return out, enriched, nil
}

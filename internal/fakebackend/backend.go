// Package fakebackend is an in-memory implementation of the property-search
// backend contract, served over httptest for client tests.
package fakebackend

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/househunt/househunt-go/internal/crypto"
	"github.com/househunt/househunt-go/internal/model"
)

// Options tunes the fake.
type Options struct {
	// Secret signs issued tokens. Defaults to a fixed test secret.
	Secret string
	// TokenExpiry defaults to 24h, matching the real backend.
	TokenExpiry time.Duration
	// GeocodeRPS limits POST /geocode per client IP. Zero disables the limit.
	GeocodeRPS float64
	// OmitScrapeHistory makes /scrape answer without the inline history.
	OmitScrapeHistory bool
	// Latency, when set, delays every request by the returned duration.
	Latency func(r *http.Request) time.Duration
	// Today overrides the date stamped on history entries.
	Today func() string
}

type user struct {
	id       int64
	username string
	email    string
	hash     string
}

// Backend holds all state of the fake.
type Backend struct {
	opts   Options
	hasher crypto.Hasher

	mu           sync.Mutex
	nextID       int64
	users        map[string]*user
	requirements map[int64][]model.RequirementItem
	shortlists   map[int64][]model.ShortlistItem
	history      map[int64][]model.HistoryEntry
	places       map[string]model.Coordinates
	scrapes      map[string]string
	geocodeCalls map[string]int
	saves        map[model.Kind]int
	rejected     int
	failures     map[string]int
}

// New creates a Backend with no users.
func New(opts Options) *Backend {
	if opts.Secret == "" {
		opts.Secret = "fake-backend-secret"
	}
	if opts.TokenExpiry == 0 {
		opts.TokenExpiry = 24 * time.Hour
	}
	if opts.Today == nil {
		opts.Today = func() string { return time.Now().Format(time.DateOnly) }
	}

	return &Backend{
		opts:         opts,
		hasher:       crypto.LightHasher(),
		users:        make(map[string]*user),
		requirements: make(map[int64][]model.RequirementItem),
		shortlists:   make(map[int64][]model.ShortlistItem),
		history:      make(map[int64][]model.HistoryEntry),
		places:       make(map[string]model.Coordinates),
		scrapes:      make(map[string]string),
		geocodeCalls: make(map[string]int),
		saves:        make(map[model.Kind]int),
		failures:     make(map[string]int),
	}
}

// NewServer starts b on a local httptest server. Close the server when done.
func NewServer(opts Options) (*Backend, *httptest.Server) {
	b := New(opts)
	return b, httptest.NewServer(b.Handler())
}

// AddUser registers a user directly and returns a valid token for it.
func (b *Backend) AddUser(username, password string) string {
	hash, err := b.hasher.Hash(password)
	if err != nil {
		panic(err)
	}

	b.mu.Lock()
	b.nextID++
	u := &user{id: b.nextID, username: username, hash: hash}
	b.users[username] = u
	b.mu.Unlock()

	token, err := crypto.GenerateToken(u.id, username, b.opts.Secret, b.opts.TokenExpiry)
	if err != nil {
		panic(err)
	}
	return token
}

// SetPlace makes address geocodable.
func (b *Backend) SetPlace(address string, c model.Coordinates) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.places[address] = c
}

// SetScrapeResult fixes the results text reported for a search URL.
func (b *Backend) SetScrapeResult(url, results string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scrapes[url] = results
}

// FailNext makes the next request to "METHOD /path" answer status.
func (b *Backend) FailNext(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = status
}

// SeedShortlist replaces the stored shortlist of username.
func (b *Backend) SeedShortlist(username string, items []model.ShortlistItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shortlists[b.users[username].id] = cloneShortlist(items)
}

// SeedRequirements replaces the stored requirements of username.
func (b *Backend) SeedRequirements(username string, items []model.RequirementItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requirements[b.users[username].id] = append([]model.RequirementItem{}, items...)
}

// Shortlist returns a copy of the stored shortlist of username.
func (b *Backend) Shortlist(username string) []model.ShortlistItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneShortlist(b.shortlists[b.users[username].id])
}

// Requirements returns a copy of the stored requirements of username.
func (b *Backend) Requirements(username string) []model.RequirementItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.RequirementItem{}, b.requirements[b.users[username].id]...)
}

// GeocodeCalls counts geocode requests that reached the handler for address.
func (b *Backend) GeocodeCalls(address string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.geocodeCalls[address]
}

// TotalGeocodeCalls counts all geocode requests that reached the handler.
func (b *Backend) TotalGeocodeCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.geocodeCalls {
		n += c
	}
	return n
}

// Saves counts POSTs to the collection of kind.
func (b *Backend) Saves(kind model.Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves[kind]
}

// RateLimited counts requests rejected with 429.
func (b *Backend) RateLimited() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rejected
}

func cloneShortlist(items []model.ShortlistItem) []model.ShortlistItem {
	out := make([]model.ShortlistItem, len(items))
	for i, it := range items {
		out[i] = it
		if it.Coordinates != nil {
			c := *it.Coordinates
			out[i].Coordinates = &c
		}
	}
	return out
}

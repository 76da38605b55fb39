package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/househunt/househunt-go/internal/config"
	"github.com/househunt/househunt-go/internal/fakebackend"
	"github.com/househunt/househunt-go/internal/model"
	"github.com/stretchr/testify/require"
)

type env struct {
	backend *fakebackend.Backend
	cfg     config.Config
}

func newEnv(t *testing.T) env {
	t.Helper()
	b, srv := fakebackend.NewServer(fakebackend.Options{Today: func() string { return "2025-03-01" }})
	t.Cleanup(srv.Close)
	b.AddUser("alice", "secret1")

	return env{
		backend: b,
		cfg: config.Config{
			APIBaseURL:  srv.URL,
			StoragePath: filepath.Join(t.TempDir(), "storage.db"),
			HTTPTimeout: 5 * time.Second,
		},
	}
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(e.cfg)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, out)
	return out
}

func TestLoginPersistsAcrossInvocations(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "login", "alice", "-p", "secret1")
	require.Contains(t, out, "Login successful!")
	require.Contains(t, out, "Welcome, alice!")

	require.Contains(t, e.mustRun(t, "whoami"), "Welcome, alice!")

	e.mustRun(t, "logout")
	_, err := e.run(t, "whoami")
	require.ErrorIs(t, err, errNotLoggedIn)
}

func TestLoginValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "login", "alice")
	require.EqualError(t, err, "Please enter username and password")

	_, err = e.run(t, "login", "alice", "-p", "wrong1")
	require.EqualError(t, err, "Invalid username or password")
}

func TestRegister(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, "register", "bob", "-e", "bob@example.com", "-p", "abc", "--confirm", "abc")
	require.EqualError(t, err, "Password must be at least 6 characters")

	out := e.mustRun(t, "register", "bob", "-e", "bob@example.com", "-p", "hunter22", "--confirm", "hunter22")
	require.Contains(t, out, "Registration successful! Please log in.")
	require.Contains(t, e.mustRun(t, "login", "bob", "-p", "hunter22"), "Welcome, bob!")
}

func TestRequirementCommands(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "login", "alice", "-p", "secret1")

	e.mustRun(t, "req", "add", "big", "garden")
	e.mustRun(t, "req", "add")
	e.mustRun(t, "req", "set", "2", "off-street parking")
	e.mustRun(t, "req", "check", "1")

	require.Equal(t, []model.RequirementItem{
		{Text: "big garden", Checked: true},
		{Text: "off-street parking"},
	}, e.backend.Requirements("alice"))

	out := e.mustRun(t, "req", "rm", "1")
	require.NotContains(t, out, "big garden")
	require.Contains(t, out, "off-street parking")
	require.Equal(t, []model.RequirementItem{{Text: "off-street parking"}}, e.backend.Requirements("alice"))

	_, err := e.run(t, "req", "check", "7")
	require.Error(t, err)
}

func TestCollectionCommandsNeedSession(t *testing.T) {
	e := newEnv(t)

	for _, args := range [][]string{{"req", "list"}, {"short", "list"}, {"map"}, {"history"}} {
		_, err := e.run(t, args...)
		require.ErrorIs(t, err, errNotLoggedIn, args)
	}
}

func TestShortlistAndMap(t *testing.T) {
	e := newEnv(t)
	e.backend.SetPlace("1 High St", model.Coordinates{Lat: 51.5, Lon: -0.1})
	e.mustRun(t, "login", "alice", "-p", "secret1")

	e.mustRun(t, "short", "add", "--address", "1 High St", "--price", "£300,000", "--bedrooms", "2")
	e.mustRun(t, "short", "add", "--price", "£280,000")
	require.Len(t, e.backend.Shortlist("alice"), 2)

	out := e.mustRun(t, "map")
	require.Contains(t, out, "Showing 1 properties on map")
	require.Contains(t, out, "1 High St")
	require.NotNil(t, e.backend.Shortlist("alice")[0].Coordinates)

	out = e.mustRun(t, "map", "--full")
	require.Contains(t, out, "(1600x900 px)")

	e.mustRun(t, "short", "set", "1", "address", "3 Park Ln")
	require.Nil(t, e.backend.Shortlist("alice")[0].Coordinates, "a new address needs a new pin")

	e.mustRun(t, "short", "rm", "2")
	require.Len(t, e.backend.Shortlist("alice"), 1)
}

func TestScrapeAndHistory(t *testing.T) {
	e := newEnv(t)
	e.backend.SetScrapeResult("https://example.com/search", "42")
	e.mustRun(t, "login", "alice", "-p", "secret1")

	out := e.mustRun(t, "scrape", "https://example.com/search")
	require.Contains(t, out, "Number of results: 42")
	require.Contains(t, out, "2025-03-01")

	require.Contains(t, e.mustRun(t, "history"), "https://example.com/search")
}

func TestAskNeedsNoLogin(t *testing.T) {
	e := newEnv(t)

	out := e.mustRun(t, "ask", "Is", "leasehold", "risky?")
	require.Contains(t, out, "Consider: Is leasehold risky?")

	_, err := e.run(t, "ask")
	require.EqualError(t, err, "Please enter a question.")
}

package app

import (
	"context"
	"testing"
	"time"

	"github.com/househunt/househunt-go/internal/api"
	"github.com/househunt/househunt-go/internal/config"
	"github.com/househunt/househunt-go/internal/fakebackend"
	"github.com/househunt/househunt-go/internal/model"
	"github.com/househunt/househunt-go/internal/repository"
	"github.com/househunt/househunt-go/internal/service"
	"github.com/househunt/househunt-go/internal/surface"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	backend *fakebackend.Backend
	storage *repository.LocalStorage
	app     *App
	url     string
	cfg     config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, config.Config{})
}

func newFixtureWith(t *testing.T, cfg config.Config) *fixture {
	t.Helper()
	b, srv := fakebackend.NewServer(fakebackend.Options{})
	t.Cleanup(srv.Close)

	db, err := repository.NewDB(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{backend: b, storage: repository.NewLocalStorage(db), url: srv.URL, cfg: cfg}
	f.app = f.newApp(t)
	return f
}

func (f *fixture) newApp(t *testing.T) *App {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, f.cfg, api.NewClient(f.url, 5*time.Second), f.storage)
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.backend.AddUser("alice", "secret1")
	session, err := f.app.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	require.Equal(t, "Welcome, alice!", service.Welcome(session.Username))
	f.wait(t)
}

func (f *fixture) wait(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, f.app.Wait(ctx))
}

func TestLoginLoadsEverySurface(t *testing.T) {
	f := newFixture(t)
	f.backend.AddUser("alice", "secret1")
	f.backend.SeedRequirements("alice", []model.RequirementItem{{Text: "garden", Checked: true}})
	f.backend.SeedShortlist("alice", []model.ShortlistItem{{Address: "1 High St"}})

	session, err := f.app.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	require.Equal(t, "alice", session.Username)
	f.wait(t)

	require.Equal(t, []model.RequirementItem{{Text: "garden", Checked: true}}, f.app.Requirements.Main.Capture())
	require.Equal(t, []model.RequirementItem{{Text: "garden", Checked: true}}, f.app.Requirements.Side.Capture())
	require.Equal(t, []model.ShortlistItem{{Address: "1 High St"}}, f.app.Shortlist.Main.Capture())
	require.Zero(t, f.backend.TotalGeocodeCalls(), "no map visible, nothing geocoded")
}

func TestStartRestoresStoredSession(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.SeedRequirements("alice", []model.RequirementItem{{Text: "parking"}})

	restarted := f.newApp(t)
	session, ok, err := restarted.Start(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alice", session.Username)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, restarted.Wait(ctx))
	require.Equal(t, []model.RequirementItem{{Text: "parking"}}, restarted.Requirements.Main.Capture())
}

func TestStartWithoutSession(t *testing.T) {
	f := newFixture(t)

	_, ok, err := f.app.Start(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEmptyRequirementRoundTrips(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	require.True(t, f.app.AddRequirement(surface.Main))
	f.wait(t)

	require.Equal(t, []model.RequirementItem{{Text: "", Checked: false}}, f.backend.Requirements("alice"))
	require.Equal(t, 1, f.app.Requirements.Main.Size())
	require.Equal(t, [][]surface.Value{{{Checked: false}, {Text: ""}}}, f.app.Requirements.Main.Rows())
}

func TestRequirementCapacity(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	items := make([]model.RequirementItem, model.Capacity-1)
	f.backend.SeedRequirements("alice", items)
	f.app.Refresh()
	f.wait(t)

	require.True(t, f.app.Requirements.Main.AddEnabled())
	require.True(t, f.app.AddRequirement(surface.Main))
	f.wait(t)

	require.Equal(t, model.Capacity, f.app.Requirements.Main.Size())
	require.False(t, f.app.Requirements.Main.AddEnabled())
	require.False(t, f.app.Requirements.Side.AddEnabled())
	require.False(t, f.app.AddRequirement(surface.Main))
	require.Len(t, f.backend.Requirements("alice"), model.Capacity)

	require.NoError(t, f.app.Requirements.Main.Delete(0))
	f.wait(t)
	require.True(t, f.app.Requirements.Main.AddEnabled())
}

func TestDeleteShortlistRow(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.SeedShortlist("alice", []model.ShortlistItem{{Address: "a"}, {Address: "b"}, {Address: "c"}})
	f.app.Refresh()
	f.wait(t)

	require.NoError(t, f.app.Shortlist.Main.Delete(0))
	f.wait(t)

	want := []model.ShortlistItem{{Address: "b"}, {Address: "c"}}
	require.Equal(t, want, f.backend.Shortlist("alice"))
	require.Equal(t, want, f.app.Shortlist.Side.Capture())
}

func TestShowingMapGeocodesAndProjects(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.SetPlace("1 High St", model.Coordinates{Lat: 51.50, Lon: -0.10})
	f.backend.SetPlace("3 Park Ln", model.Coordinates{Lat: 51.51, Lon: -0.15})
	f.backend.SeedShortlist("alice", []model.ShortlistItem{
		{Address: "1 High St", Price: "£300,000"},
		{Price: "£280,000"},
		{Address: "3 Park Ln", Price: "£900,000"},
	})

	require.True(t, f.app.ToggleMap())
	f.wait(t)

	stored := f.backend.Shortlist("alice")
	require.NotNil(t, stored[0].Coordinates)
	require.Nil(t, stored[1].Coordinates)
	require.NotNil(t, stored[2].Coordinates)

	require.Len(t, f.app.MapCanvas().Markers(), 2)
	require.Equal(t, "Showing 2 properties on map", f.app.MapStatus().Message)
	require.NotNil(t, f.app.Shortlist.Main.Capture()[0].Coordinates, "surfaces show the enriched copy")

	// Coordinates are cached: a second projection geocodes nothing new.
	calls := f.backend.TotalGeocodeCalls()
	f.app.Refresh()
	f.wait(t)
	require.Equal(t, calls, f.backend.TotalGeocodeCalls())

	require.False(t, f.app.ToggleMap())
	w, h := f.app.MapCanvas().Size()
	require.Zero(t, w)
	require.Zero(t, h)
}

func TestEditWhileGeocodingKeepsResolvedAddresses(t *testing.T) {
	f := newFixtureWith(t, config.Config{GeocodeInterval: 100 * time.Millisecond})
	f.login(t)
	for i, addr := range []string{"1 High St", "2 Low Rd", "3 Park Ln", "4 New Rd"} {
		f.backend.SetPlace(addr, model.Coordinates{Lat: 51.5 + float64(i)/100, Lon: -0.1})
	}
	f.backend.SeedShortlist("alice", []model.ShortlistItem{{Address: "1 High St"}, {Address: "2 Low Rd"}, {Address: "3 Park Ln"}})

	require.True(t, f.app.ToggleMap())
	require.Eventually(t, func() bool { return f.backend.TotalGeocodeCalls() == 2 }, 2*time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 3, f.app.Shortlist.Main.Size(), "rows are drawn before geocoding finishes")

	require.NoError(t, f.app.Shortlist.Main.SetText(2, surface.FieldAddress, "4 New Rd"))
	f.wait(t)

	require.Equal(t, 1, f.backend.GeocodeCalls("1 High St"))
	require.Equal(t, 1, f.backend.GeocodeCalls("2 Low Rd"))
	require.Zero(t, f.backend.GeocodeCalls("3 Park Ln"))
	require.Equal(t, 1, f.backend.GeocodeCalls("4 New Rd"))

	stored := f.backend.Shortlist("alice")
	require.Len(t, stored, 3)
	for _, it := range stored {
		require.NotNil(t, it.Coordinates, it.Address)
	}
	require.Len(t, f.app.MapCanvas().Markers(), 3)
}

func TestEmptyShortlistMapStatus(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.app.ToggleMap()
	f.wait(t)

	require.Equal(t, "No properties in shortlist", f.app.MapStatus().Message)
	center, zoom := f.app.MapCanvas().View()
	require.Equal(t, config.DefaultZoom, zoom)
	require.InDelta(t, config.DefaultCenterLat, center.Lat, 1e-9)
}

func TestFullScreenOverlay(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.SetPlace("1 High St", model.Coordinates{Lat: 51.50, Lon: -0.10})
	f.backend.SeedShortlist("alice", []model.ShortlistItem{{Address: "1 High St"}})
	f.backend.SeedRequirements("alice", []model.RequirementItem{{Text: "garden"}})

	require.Nil(t, f.app.FullScreenCanvas())
	require.False(t, f.app.FitToMarkers())
	require.Equal(t, surface.Main, f.app.ActiveSurface())

	require.True(t, f.app.ToggleExpand())
	f.wait(t)

	require.Equal(t, surface.SideMenu, f.app.ActiveSurface())
	w, h := f.app.FullScreenCanvas().Size()
	require.Equal(t, config.FullScreenWidth, w)
	require.Equal(t, config.FullScreenHeight, h)
	require.Equal(t, []model.RequirementItem{{Text: "garden"}}, f.app.Requirements.Side.Capture())
	require.Len(t, f.app.FullScreenCanvas().Markers(), 1)
	require.True(t, f.app.FitToMarkers())

	require.True(t, f.app.AddShortlistItem(surface.SideMenu))
	f.wait(t)
	require.Len(t, f.backend.Shortlist("alice"), 2)
	require.Equal(t, 2, f.app.Shortlist.Main.Size(), "main panel mirrors side-menu edits")

	require.False(t, f.app.ToggleExpand())
	require.Equal(t, surface.Main, f.app.ActiveSurface())
	require.False(t, f.app.FitToMarkers(), "closed overlay has nothing to fit")
	w, _ = f.app.FullScreenCanvas().Size()
	require.Zero(t, w)
}

func TestLogoutBlanksSurfaces(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.backend.SeedRequirements("alice", []model.RequirementItem{{Text: "garden"}})
	f.app.Refresh()
	f.wait(t)

	require.NoError(t, f.app.Logout(context.Background()))

	require.Zero(t, f.app.Requirements.Main.Size())
	require.Empty(t, f.app.Auth.Token())
	_, ok, err := f.storage.GetItem(context.Background(), service.TokenKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUnknownSurface(t *testing.T) {
	f := newFixture(t)
	require.False(t, f.app.AddRequirement("nowhere"))
	require.False(t, f.app.AddShortlistItem("nowhere"))
}

// Package app wires the session, the collection surfaces and the maps into
// one headless application.
package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/househunt/househunt-go/internal/api"
	"github.com/househunt/househunt-go/internal/collection"
	"github.com/househunt/househunt-go/internal/config"
	"github.com/househunt/househunt-go/internal/coordinator"
	"github.com/househunt/househunt-go/internal/geo"
	"github.com/househunt/househunt-go/internal/mapview"
	"github.com/househunt/househunt-go/internal/model"
	"github.com/househunt/househunt-go/internal/service"
	"github.com/househunt/househunt-go/internal/surface"
)

// Pair is the main panel and side-menu surfaces of one collection.
type Pair[T any] struct {
	Main *surface.Renderer[T]
	Side *surface.Renderer[T]
}

// Get returns the surface called name, or nil.
func (p Pair[T]) Get(name string) *surface.Renderer[T] {
	switch name {
	case surface.Main:
		return p.Main
	case surface.SideMenu:
		return p.Side
	}
	return nil
}

type App struct {
	Auth   *service.AuthService
	Search *service.SearchService
	Expert *service.ExpertService

	Requirements Pair[model.RequirementItem]
	Shortlist    Pair[model.ShortlistItem]

	coord    *coordinator.Coordinator
	enricher *geo.Enricher

	mu          sync.Mutex
	mapVisible  bool
	overlayOpen bool
	mapCanvas   *mapview.Canvas
	mapProj     *mapview.Projector
	fullCanvas  *mapview.Canvas
	fullProj    *mapview.Projector
	status      mapview.Status
}

// New wires an App talking to client and keeping its session in storage.
// Background cycles run under ctx.
func New(ctx context.Context, cfg config.Config, client *api.Client, storage service.Storage) *App {
	auth := service.NewAuthService(client, storage)
	reqStore := collection.NewRequirements(client, auth)
	shortStore := collection.NewShortlist(client, auth)

	a := &App{
		Auth:   auth,
		Search: service.NewSearchService(client, auth),
		Expert: service.NewExpertService(client),
		Requirements: Pair[model.RequirementItem]{
			Main: surface.NewRequirements(surface.Main),
			Side: surface.NewRequirements(surface.SideMenu),
		},
		Shortlist: Pair[model.ShortlistItem]{
			Main: surface.NewShortlist(surface.Main),
			Side: surface.NewShortlist(surface.SideMenu),
		},
		enricher: geo.NewEnricher(client, auth, shortStore, geo.NewLimiter(cfg.GeocodeInterval)),
	}

	a.coord = coordinator.New(ctx, reqStore, shortStore, a.ActiveSurface)
	a.coord.Requirements.Attach(a.Requirements.Main)
	a.coord.Requirements.Attach(a.Requirements.Side)
	a.coord.Shortlist.Attach(a.Shortlist.Main)
	a.coord.Shortlist.Attach(a.Shortlist.Side)
	a.coord.Shortlist.SetTransform(a.enrich)
	a.coord.Shortlist.Subscribe(a.project)

	return a
}

// ActiveSurface names the surface whose contents are saved on a mutation:
// the side menu while the full-screen overlay is open, else the main panel.
func (a *App) ActiveSurface() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.overlayOpen {
		return surface.SideMenu
	}
	return surface.Main
}

// Start resumes a stored session and, if there is one, loads every surface.
func (a *App) Start(ctx context.Context) (model.Session, bool, error) {
	session, ok, err := a.Auth.Restore(ctx)
	if err != nil || !ok {
		return session, ok, err
	}
	a.coord.Refresh()
	return session, true, nil
}

// Login logs in and loads every surface.
func (a *App) Login(ctx context.Context, username, password string) (model.Session, error) {
	session, err := a.Auth.Login(ctx, username, password)
	if err != nil {
		return model.Session{}, err
	}
	a.coord.Refresh()
	return session, nil
}

// Logout forgets the session and blanks every surface.
func (a *App) Logout(ctx context.Context) error {
	a.coord.Close()
	a.enricher.Forget()
	err := a.Auth.Logout(ctx)

	a.Requirements.Main.Render(nil)
	a.Requirements.Side.Render(nil)
	a.Shortlist.Main.Render(nil)
	a.Shortlist.Side.Render(nil)
	a.project(nil)
	return err
}

// Refresh reloads every collection.
func (a *App) Refresh() {
	a.coord.Refresh()
}

// Wait blocks until all save and reload cycles have finished.
func (a *App) Wait(ctx context.Context) error {
	return a.coord.Wait(ctx)
}

// AddRequirement appends a blank requirement on the named surface.
func (a *App) AddRequirement(name string) bool {
	s := a.Requirements.Get(name)
	return s != nil && s.AddEmpty()
}

// AddShortlistItem appends a blank property on the named surface.
func (a *App) AddShortlistItem(name string) bool {
	s := a.Shortlist.Get(name)
	return s != nil && s.AddEmpty()
}

// ToggleMap shows or hides the standard map and reports whether it is now
// visible. Showing it reloads the shortlist, which geocodes and projects.
func (a *App) ToggleMap() bool {
	a.mu.Lock()
	a.mapVisible = !a.mapVisible
	visible := a.mapVisible
	a.mu.Unlock()

	proj := a.ensureMap(&a.mapCanvas, &a.mapProj, "map", a.mapSize, visible)

	if proj != nil {
		proj.Invalidate()
	}
	if visible {
		a.coord.Shortlist.Refresh()
	}
	return visible
}

// ToggleExpand opens or closes the full-screen overlay and reports whether
// it is now open. Opening populates the side menu and the full-screen map.
func (a *App) ToggleExpand() bool {
	a.mu.Lock()
	a.overlayOpen = !a.overlayOpen
	open := a.overlayOpen
	a.mu.Unlock()

	full := a.ensureMap(&a.fullCanvas, &a.fullProj, "full-screen map", a.fullSize, open)
	a.mu.Lock()
	std := a.mapProj
	a.mu.Unlock()

	// Map widgets cache their size; both maps changed layout.
	if full != nil {
		full.Invalidate()
	}
	if std != nil {
		std.Invalidate()
	}

	if open {
		a.coord.Refresh()
	}
	return open
}

// FitToMarkers refits the full-screen map to its markers.
func (a *App) FitToMarkers() bool {
	a.mu.Lock()
	proj := a.fullProj
	open := a.overlayOpen
	a.mu.Unlock()
	return open && proj != nil && proj.Fit()
}

// MapStatus returns the status of the last projection.
func (a *App) MapStatus() mapview.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// MapCanvas returns the standard map, or nil before it was first shown.
func (a *App) MapCanvas() *mapview.Canvas {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mapCanvas
}

// FullScreenCanvas returns the full-screen map, or nil before it was first
// opened.
func (a *App) FullScreenCanvas() *mapview.Canvas {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fullCanvas
}

// ensureMap returns the projector in *proj, first creating the map when
// create is set and it does not exist yet. A new canvas measures its host
// element, so it is built without holding a.mu.
func (a *App) ensureMap(canvas **mapview.Canvas, proj **mapview.Projector, name string, size mapview.SizeFunc, create bool) *mapview.Projector {
	a.mu.Lock()
	p := *proj
	a.mu.Unlock()
	if p != nil || !create {
		return p
	}

	c := mapview.NewCanvas(name, size, config.MaxZoom)

	a.mu.Lock()
	defer a.mu.Unlock()
	if *proj == nil {
		*canvas = c
		*proj = mapview.NewProjector(c)
	}
	return *proj
}

func (a *App) mapSize() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.mapVisible {
		return 0, 0
	}
	return config.MapWidth, config.MapHeight
}

func (a *App) fullSize() (int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.overlayOpen {
		return 0, 0
	}
	return config.FullScreenWidth, config.FullScreenHeight
}

// visibleProjectors returns the projectors of the maps currently shown.
func (a *App) visibleProjectors() []*mapview.Projector {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []*mapview.Projector
	if a.mapVisible && a.mapProj != nil {
		out = append(out, a.mapProj)
	}
	if a.overlayOpen && a.fullProj != nil {
		out = append(out, a.fullProj)
	}
	return out
}

func (a *App) enrich(ctx context.Context, items []model.ShortlistItem) []model.ShortlistItem {
	if len(a.visibleProjectors()) == 0 {
		return items
	}

	enriched, n, err := a.enricher.Enrich(ctx, items)
	if err != nil {
		slog.DebugContext(ctx, "geocoding interrupted", "enriched", n, "error", err)
	}
	return enriched
}

func (a *App) project(items []model.ShortlistItem) {
	for _, p := range a.visibleProjectors() {
		st := p.Project(items)

		a.mu.Lock()
		a.status = st
		a.mu.Unlock()
	}
}

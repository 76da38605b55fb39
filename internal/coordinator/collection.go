// Package coordinator keeps every surface of a collection consistent with
// the backend. Each mutation runs one save, reload and publish cycle. A newer
// mutation for the same kind cancels the older cycle and starts once it has
// exited; the older cycle never publishes. A refresh never cancels a pending
// save.
package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/househunt/househunt-go/internal/api"
	"github.com/househunt/househunt-go/internal/model"
	"github.com/househunt/househunt-go/internal/surface"
)

type State int

const (
	Idle State = iota
	Saving
	Reloading
)

func (s State) String() string {
	switch s {
	case Saving:
		return "saving"
	case Reloading:
		return "reloading"
	default:
		return "idle"
	}
}

// Store is the remote copy of a collection.
type Store[T any] interface {
	Kind() model.Kind
	Load(ctx context.Context) ([]T, error)
	Save(ctx context.Context, items []T) error
}

// Surface is a renderer of the collection.
type Surface[T any] interface {
	Name() string
	Render(items []T)
	Capture() []T
	OnMutate(fn surface.MutationFunc[T])
}

// ActiveFunc names the surface whose contents a mutation saves.
type ActiveFunc func() string

// TransformFunc may rewrite a freshly loaded collection before it is
// published.
type TransformFunc[T any] func(ctx context.Context, items []T) []T

// SubscriberFunc observes every published collection.
type SubscriberFunc[T any] func(items []T)

// Collection coordinates one collection kind.
type Collection[T any] struct {
	store  Store[T]
	active ActiveFunc
	base   context.Context

	mu        sync.Mutex
	surfaces  []Surface[T]
	transform TransformFunc[T]
	subs      []SubscriberFunc[T]
	state     State
	gen       uint64
	cancel    context.CancelFunc
	done      chan struct{}
	items     []T

	// publishMu orders publishes so a superseded cycle cannot render after
	// the cycle that replaced it.
	publishMu sync.Mutex
}

// NewCollection creates a coordinator for store. Cycles run under ctx.
func NewCollection[T any](ctx context.Context, store Store[T], active ActiveFunc) *Collection[T] {
	return &Collection[T]{store: store, active: active, base: ctx}
}

// Attach subscribes s to published collections and routes its mutations
// into save cycles.
func (c *Collection[T]) Attach(s Surface[T]) {
	c.mu.Lock()
	c.surfaces = append(c.surfaces, s)
	c.mu.Unlock()

	s.OnMutate(c.onMutate)
}

// SetTransform installs fn to run on a reloaded collection after surfaces
// have been redrawn from it. Its result is published again.
func (c *Collection[T]) SetTransform(fn TransformFunc[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transform = fn
}

// Subscribe registers fn to observe the final collection of every cycle,
// after surfaces have been redrawn.
func (c *Collection[T]) Subscribe(fn SubscriberFunc[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Kind returns the collection kind.
func (c *Collection[T]) Kind() model.Kind {
	return c.store.Kind()
}

// State returns the state of the current cycle.
func (c *Collection[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns the last published collection.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

// Mutate saves the contents of the active surface and republishes.
func (c *Collection[T]) Mutate() {
	s := c.activeSurface()
	if s == nil {
		return
	}
	c.start(s.Capture(), true)
}

// Refresh reloads and republishes without saving. While a save is pending
// it does nothing; that cycle reloads once the save has landed.
func (c *Collection[T]) Refresh() {
	c.start(nil, false)
}

// Wait blocks until no cycle is running.
func (c *Collection[T]) Wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		done, gen := c.done, c.gen
		c.mu.Unlock()

		if done == nil {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}

		c.mu.Lock()
		settled := c.gen == gen
		c.mu.Unlock()
		if settled {
			return nil
		}
	}
}

// Close cancels any running cycle.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Collection[T]) onMutate(source string, snapshot []T) {
	if name := c.active(); name != source {
		if s := c.surface(name); s != nil {
			snapshot = s.Capture()
		}
	}
	c.start(snapshot, true)
}

func (c *Collection[T]) activeSurface() Surface[T] {
	return c.surface(c.active())
}

func (c *Collection[T]) surface(name string) Surface[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.surfaces {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func (c *Collection[T]) start(snapshot []T, save bool) {
	c.mu.Lock()
	if !save && c.state == Saving {
		c.mu.Unlock()
		slog.Debug("refresh folded into pending save", "kind", c.store.Kind())
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	prev := c.done
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(c.base)
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	if save {
		c.state = Saving
	} else {
		c.state = Reloading
	}
	c.mu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		if prev != nil {
			<-prev
		}
		c.run(ctx, gen, snapshot, save)
		// A cycle that stopped early, as on Close, must not leave its
		// state behind.
		c.advance(gen, Idle)
	}()
}

func (c *Collection[T]) run(ctx context.Context, gen uint64, snapshot []T, save bool) {
	kind := c.store.Kind()

	if save {
		// Failures were logged by the store; the cycle carries on to reload.
		if err := c.store.Save(ctx, snapshot); errors.Is(err, api.ErrAuthRequired) {
			slog.DebugContext(ctx, "save skipped, not logged in", "kind", kind)
		}
		if !c.advance(gen, Reloading) {
			slog.DebugContext(ctx, "sync cycle superseded", "kind", kind, "stage", "save")
			return
		}
	}

	items, err := c.store.Load(ctx)
	if err != nil {
		if errors.Is(err, api.ErrAuthRequired) {
			slog.DebugContext(ctx, "reload skipped, not logged in", "kind", kind)
		}
		c.advance(gen, Idle)
		return
	}

	c.mu.Lock()
	transform := c.transform
	c.mu.Unlock()
	if transform == nil {
		c.publish(ctx, gen, items, true)
		return
	}

	if !c.publish(ctx, gen, items, false) {
		return
	}
	c.publish(ctx, gen, transform(ctx, items), true)
}

// advance moves the cycle gen to state and reports whether gen is still the
// current cycle.
func (c *Collection[T]) advance(gen uint64, state State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.state = state
	return true
}

// publish redraws every surface from items unless gen was superseded. The
// final publish of a cycle also notifies subscribers and ends the cycle.
func (c *Collection[T]) publish(ctx context.Context, gen uint64, items []T, final bool) bool {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mu.Lock()
	if c.gen != gen || ctx.Err() != nil {
		c.mu.Unlock()
		slog.DebugContext(ctx, "sync cycle superseded", "kind", c.store.Kind(), "stage", "publish")
		return false
	}
	c.items = items
	surfaces := append([]Surface[T](nil), c.surfaces...)
	var subs []SubscriberFunc[T]
	if final {
		subs = append(subs, c.subs...)
	}
	c.mu.Unlock()

	for _, s := range surfaces {
		s.Render(items)
	}
	for _, fn := range subs {
		fn(items)
	}

	if final {
		c.advance(gen, Idle)
	}
	return true
}

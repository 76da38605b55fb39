// Package surface renders collections as rows of editable inputs. A surface
// is a headless stand-in for a DOM container: it holds rows, accepts field
// edits and deletes, and reports every mutation with a read-back of all rows.
package surface

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrRowOutOfRange = errors.New("row out of range")
	ErrUnknownField  = errors.New("unknown field")
	ErrFieldKind     = errors.New("wrong input kind for field")
)

// FieldKind is the type of input a field renders as.
type FieldKind int

const (
	Text FieldKind = iota
	Checkbox
)

// FieldSpec describes one input of a row.
type FieldSpec struct {
	Name        string
	Kind        FieldKind
	Placeholder string
}

// Value is the live state of one input.
type Value struct {
	Text    string
	Checked bool
}

// Schema maps items of type T onto a row of inputs and back.
type Schema[T any] struct {
	Fields []FieldSpec
	// Values lays item out in Fields order.
	Values func(item T) []Value
	// Item rebuilds an item from the row's current values. origin is the
	// item the row was last rendered from, so fields without an input can
	// be carried over.
	Item func(origin T, values []Value) T
}

func (s Schema[T]) field(name string) (int, FieldSpec, error) {
	for i, f := range s.Fields {
		if f.Name == name {
			return i, f, nil
		}
	}
	return 0, FieldSpec{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
}

type row[T any] struct {
	origin T
	values []Value
}

// MutationFunc receives the name of the surface that changed and a read-back
// of all its rows taken atomically with the change.
type MutationFunc[T any] func(source string, snapshot []T)

// Renderer is one surface showing a collection of T.
type Renderer[T any] struct {
	name     string
	schema   Schema[T]
	capacity int

	mu       sync.Mutex
	rows     []*row[T]
	onMutate MutationFunc[T]
}

// New creates an empty Renderer named name holding at most capacity rows.
func New[T any](name string, schema Schema[T], capacity int) *Renderer[T] {
	return &Renderer[T]{name: name, schema: schema, capacity: capacity}
}

// Name identifies the surface.
func (r *Renderer[T]) Name() string {
	return r.name
}

// Fields returns the input layout of every row.
func (r *Renderer[T]) Fields() []FieldSpec {
	return r.schema.Fields
}

// OnMutate registers the handler for edits, adds and deletes.
func (r *Renderer[T]) OnMutate(fn MutationFunc[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onMutate = fn
}

// Render clears the surface and rebuilds one row per item, up to capacity.
// It never reports a mutation.
func (r *Renderer[T]) Render(items []T) {
	if len(items) > r.capacity {
		items = items[:r.capacity]
	}

	rows := make([]*row[T], len(items))
	for i, it := range items {
		rows[i] = &row[T]{origin: it, values: r.schema.Values(it)}
	}

	r.mu.Lock()
	r.rows = rows
	r.mu.Unlock()
}

// AddEmpty appends a blank row and reports the mutation. It is a no-op
// returning false when the surface is full.
func (r *Renderer[T]) AddEmpty() bool {
	var blank T
	return r.mutate(func() error {
		if len(r.rows) >= r.capacity {
			return errFull
		}
		r.rows = append(r.rows, &row[T]{origin: blank, values: r.schema.Values(blank)})
		return nil
	}) == nil
}

var errFull = errors.New("surface full")

// SetText is a text input event on field of row i.
func (r *Renderer[T]) SetText(i int, field, text string) error {
	idx, fs, err := r.schema.field(field)
	if err != nil {
		return err
	}
	if fs.Kind != Text {
		return fmt.Errorf("%w: %q is not a text input", ErrFieldKind, field)
	}
	return r.mutate(func() error {
		if i < 0 || i >= len(r.rows) {
			return fmt.Errorf("%w: %d", ErrRowOutOfRange, i)
		}
		r.rows[i].values[idx].Text = text
		return nil
	})
}

// SetChecked is a checkbox change event on field of row i.
func (r *Renderer[T]) SetChecked(i int, field string, checked bool) error {
	idx, fs, err := r.schema.field(field)
	if err != nil {
		return err
	}
	if fs.Kind != Checkbox {
		return fmt.Errorf("%w: %q is not a checkbox", ErrFieldKind, field)
	}
	return r.mutate(func() error {
		if i < 0 || i >= len(r.rows) {
			return fmt.Errorf("%w: %d", ErrRowOutOfRange, i)
		}
		r.rows[i].values[idx].Checked = checked
		return nil
	})
}

// Delete removes row i, then reports the mutation without it.
func (r *Renderer[T]) Delete(i int) error {
	return r.mutate(func() error {
		if i < 0 || i >= len(r.rows) {
			return fmt.Errorf("%w: %d", ErrRowOutOfRange, i)
		}
		r.rows = append(r.rows[:i], r.rows[i+1:]...)
		return nil
	})
}

// Capture reads every row back into an ordered item list.
func (r *Renderer[T]) Capture() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.captureLocked()
}

// Size is the number of rows currently shown.
func (r *Renderer[T]) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// AddEnabled reports whether the add affordance is usable.
func (r *Renderer[T]) AddEnabled() bool {
	return r.Size() < r.capacity
}

// Rows returns a copy of the live input values of every row.
func (r *Renderer[T]) Rows() [][]Value {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][]Value, len(r.rows))
	for i, rw := range r.rows {
		out[i] = append([]Value(nil), rw.values...)
	}
	return out
}

func (r *Renderer[T]) captureLocked() []T {
	items := make([]T, len(r.rows))
	for i, rw := range r.rows {
		items[i] = r.schema.Item(rw.origin, append([]Value(nil), rw.values...))
	}
	return items
}

func (r *Renderer[T]) mutate(change func() error) error {
	r.mu.Lock()
	if err := change(); err != nil {
		r.mu.Unlock()
		return err
	}
	snapshot := r.captureLocked()
	fn := r.onMutate
	r.mu.Unlock()

	if fn != nil {
		fn(r.name, snapshot)
	}
	return nil
}

package surface

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/househunt/househunt-go/internal/model"
	"github.com/stretchr/testify/require"
)

type recorder[T any] struct {
	sources   []string
	snapshots [][]T
}

func (r *recorder[T]) fn(source string, snapshot []T) {
	r.sources = append(r.sources, source)
	r.snapshots = append(r.snapshots, snapshot)
}

func (r *recorder[T]) last() []T {
	return r.snapshots[len(r.snapshots)-1]
}

func TestRenderThenCaptureRoundTrips(t *testing.T) {
	s := NewShortlist(Main)
	items := []model.ShortlistItem{
		{Address: "1 High St", Price: "£300,000", Bedrooms: "2", Type: "Flat", Link: "https://example.com/1",
			Coordinates: &model.Coordinates{Lat: 51.5, Lon: -0.1}},
		{Address: "2 Low Rd"},
	}

	s.Render(items)

	require.Equal(t, 2, s.Size())
	if diff := cmp.Diff(items, s.Capture()); diff != "" {
		t.Errorf("Capture() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDoesNotReportMutation(t *testing.T) {
	s := NewRequirements(Main)
	rec := &recorder[model.RequirementItem]{}
	s.OnMutate(rec.fn)

	s.Render([]model.RequirementItem{{Text: "garden"}})

	require.Empty(t, rec.snapshots)
}

func TestRenderReplacesRows(t *testing.T) {
	s := NewRequirements(Main)
	s.Render([]model.RequirementItem{{Text: "a"}, {Text: "b"}, {Text: "c"}})
	s.Render([]model.RequirementItem{{Text: "z"}})

	require.Equal(t, []model.RequirementItem{{Text: "z"}}, s.Capture())
}

func TestSizeFollowsRows(t *testing.T) {
	s := NewRequirements(Main)
	require.Equal(t, 0, s.Size())

	require.True(t, s.AddEmpty())
	require.True(t, s.AddEmpty())
	require.Equal(t, 2, s.Size())

	require.NoError(t, s.Delete(0))
	require.Equal(t, 1, s.Size())

	s.Render(nil)
	require.Equal(t, 0, s.Size())
}

func TestAddEmptyStopsAtCapacity(t *testing.T) {
	s := NewRequirements(Main)
	rec := &recorder[model.RequirementItem]{}
	s.OnMutate(rec.fn)

	for i := 0; i < model.Capacity; i++ {
		require.True(t, s.AddEmpty(), "add %d", i)
	}
	require.False(t, s.AddEnabled())
	require.False(t, s.AddEmpty())
	require.Equal(t, model.Capacity, s.Size())
	require.Len(t, rec.snapshots, model.Capacity)

	require.NoError(t, s.Delete(3))
	require.True(t, s.AddEnabled())
}

func TestRenderTruncatesToCapacity(t *testing.T) {
	s := NewRequirements(Main)
	items := make([]model.RequirementItem, model.Capacity+5)
	for i := range items {
		items[i].Text = fmt.Sprint(i)
	}

	s.Render(items)

	require.Equal(t, model.Capacity, s.Size())
}

func TestDeleteReportsRemainingRows(t *testing.T) {
	s := NewRequirements(Main)
	s.Render([]model.RequirementItem{{Text: "a"}, {Text: "b", Checked: true}, {Text: "c"}})
	rec := &recorder[model.RequirementItem]{}
	s.OnMutate(rec.fn)

	require.NoError(t, s.Delete(1))

	require.Equal(t, []string{Main}, rec.sources)
	require.Equal(t, []model.RequirementItem{{Text: "a"}, {Text: "c"}}, rec.last())
}

func TestEditsReportSnapshot(t *testing.T) {
	s := NewRequirements(SideMenu)
	s.Render([]model.RequirementItem{{Text: "garden"}})
	rec := &recorder[model.RequirementItem]{}
	s.OnMutate(rec.fn)

	require.NoError(t, s.SetChecked(0, FieldChecked, true))
	require.NoError(t, s.SetText(0, FieldText, "big garden"))

	require.Equal(t, []string{SideMenu, SideMenu}, rec.sources)
	require.Equal(t, []model.RequirementItem{{Text: "garden", Checked: true}}, rec.snapshots[0])
	require.Equal(t, []model.RequirementItem{{Text: "big garden", Checked: true}}, rec.last())
}

func TestEditErrors(t *testing.T) {
	s := NewRequirements(Main)
	s.Render([]model.RequirementItem{{Text: "a"}})

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"row out of range", s.SetText(4, FieldText, "x"), ErrRowOutOfRange},
		{"negative row", s.Delete(-1), ErrRowOutOfRange},
		{"unknown field", s.SetText(0, "colour", "x"), ErrUnknownField},
		{"text on checkbox", s.SetText(0, FieldChecked, "x"), ErrFieldKind},
		{"check on text", s.SetChecked(0, FieldText, true), ErrFieldKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.want)
		})
	}
	require.Equal(t, []model.RequirementItem{{Text: "a"}}, s.Capture())
}

func TestAddressEditDropsCoordinates(t *testing.T) {
	s := NewShortlist(Main)
	s.Render([]model.ShortlistItem{{
		Address:     "1 High St",
		Coordinates: &model.Coordinates{Lat: 51.5, Lon: -0.1},
	}})

	require.NoError(t, s.SetText(0, FieldPrice, "£310,000"))
	require.NotNil(t, s.Capture()[0].Coordinates, "price edit should keep coordinates")

	require.NoError(t, s.SetText(0, FieldAddress, "3 New St"))
	require.Nil(t, s.Capture()[0].Coordinates, "address edit should drop coordinates")
}

func TestCaptureDoesNotAliasOrigin(t *testing.T) {
	s := NewShortlist(Main)
	c := &model.Coordinates{Lat: 1, Lon: 2}
	s.Render([]model.ShortlistItem{{Address: "x", Coordinates: c}})

	got := s.Capture()
	got[0].Coordinates.Lat = 99

	require.Equal(t, 1.0, s.Capture()[0].Coordinates.Lat)
}

func TestBlankRowCapturesEmptyItem(t *testing.T) {
	s := NewShortlist(Main)
	require.True(t, s.AddEmpty())

	require.Equal(t, []model.ShortlistItem{{}}, s.Capture())
	require.Equal(t, [][]Value{{{}, {}, {}, {}, {}}}, s.Rows())
}

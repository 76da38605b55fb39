package mapview

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"github.com/househunt/househunt-go/internal/config"
	"github.com/househunt/househunt-go/internal/model"
)

var popupTmpl = template.Must(template.New("popup").Parse(
	`<b>{{.Price}}</b><br>{{.Address}}<br>{{.Bedrooms}} bed • {{.Type}}` +
		`{{if .Link}}<br><a href="{{.Link}}" target="_blank">View Listing →</a>{{end}}`))

// Status summarizes the last projection.
type Status struct {
	Markers int
	Message string
}

// Projector draws shortlists onto one Surface.
type Projector struct {
	surface Surface
	center  LatLng
	zoom    int

	mu          sync.Mutex
	initialized bool
	bounds      Bounds
	markers     int
}

// NewProjector creates a Projector for surface using the default London view.
func NewProjector(surface Surface) *Projector {
	return &Projector{
		surface: surface,
		center:  LatLng{Lat: config.DefaultCenterLat, Lon: config.DefaultCenterLon},
		zoom:    config.DefaultZoom,
	}
}

// Project replaces all markers with one per geocoded item and fits the view
// to them. Items without coordinates are skipped.
func (p *Projector) Project(items []model.ShortlistItem) Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		p.surface.SetView(p.center, p.zoom)
		p.initialized = true
	}

	p.surface.ClearMarkers()
	p.markers = 0
	for _, it := range items {
		if !it.Geocoded() {
			continue
		}
		pos := LatLng{Lat: it.Coordinates.Lat, Lon: it.Coordinates.Lon}
		p.surface.AddMarker(Marker{Position: pos, Popup: Popup(it)})
		p.bounds = p.bounds.extend(pos, p.markers == 0)
		p.markers++
	}

	if p.markers == 0 {
		p.surface.SetView(p.center, p.zoom)
		if len(items) == 0 {
			return Status{Message: "No properties in shortlist"}
		}
		return Status{Message: "No properties could be geocoded"}
	}

	p.surface.FitBounds(p.bounds, config.FitPadding)
	return Status{Markers: p.markers, Message: fmt.Sprintf("Showing %d properties on map", p.markers)}
}

// Fit refits the view to the markers of the last projection. It reports
// false when there are none.
func (p *Projector) Fit() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.markers == 0 {
		return false
	}
	p.surface.FitBounds(p.bounds, config.FitPadding)
	return true
}

// Invalidate makes the surface re-measure its host element.
func (p *Projector) Invalidate() {
	p.surface.InvalidateSize()
}

// Popup renders the marker popup for it with every field HTML-escaped.
func Popup(it model.ShortlistItem) string {
	data := struct {
		Price, Address, Bedrooms, Type, Link string
	}{
		Price:    orDefault(it.Price, "Price not set"),
		Address:  it.Address,
		Bedrooms: orDefault(it.Bedrooms, "?"),
		Type:     orDefault(it.Type, "Type not set"),
		Link:     it.Link,
	}

	var buf bytes.Buffer
	if err := popupTmpl.Execute(&buf, data); err != nil {
		return template.HTMLEscapeString(it.Address)
	}
	return buf.String()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Package mapview projects the shortlist onto map surfaces.
package mapview

import (
	"math"
	"sync"
)

const tileSize = 256

type LatLng struct {
	Lat float64
	Lon float64
}

// Bounds is the smallest box containing a set of points.
type Bounds struct {
	SouthWest LatLng
	NorthEast LatLng
}

// extend grows b to contain p. With first set it starts a new box at p.
func (b Bounds) extend(p LatLng, first bool) Bounds {
	if first {
		return Bounds{SouthWest: p, NorthEast: p}
	}
	b.SouthWest.Lat = math.Min(b.SouthWest.Lat, p.Lat)
	b.SouthWest.Lon = math.Min(b.SouthWest.Lon, p.Lon)
	b.NorthEast.Lat = math.Max(b.NorthEast.Lat, p.Lat)
	b.NorthEast.Lon = math.Max(b.NorthEast.Lon, p.Lon)
	return b
}

type Marker struct {
	Position LatLng
	Popup    string
}

// Surface is a map widget.
type Surface interface {
	SetView(center LatLng, zoom int)
	ClearMarkers()
	AddMarker(m Marker)
	FitBounds(b Bounds, padding int)
	InvalidateSize()
}

// SizeFunc reports the current pixel size of the element hosting a map.
type SizeFunc func() (width, height int)

// Canvas is a headless Surface. Like a browser map widget it measures its
// host element once, at creation, and only measures again on
// InvalidateSize.
type Canvas struct {
	name    string
	measure SizeFunc
	maxZoom int

	mu      sync.Mutex
	width   int
	height  int
	center  LatLng
	zoom    int
	markers []Marker
}

func NewCanvas(name string, measure SizeFunc, maxZoom int) *Canvas {
	w, h := measure()
	return &Canvas{name: name, measure: measure, maxZoom: maxZoom, width: w, height: h}
}

func (c *Canvas) Name() string { return c.name }

func (c *Canvas) SetView(center LatLng, zoom int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.center = center
	c.zoom = min(max(zoom, 0), c.maxZoom)
}

func (c *Canvas) ClearMarkers() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers = nil
}

func (c *Canvas) AddMarker(m Marker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers = append(c.markers, m)
}

// FitBounds centers the view on b at the highest zoom at which b fits inside
// the cached size less padding on every side.
func (c *Canvas) FitBounds(b Bounds, padding int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sw, ne := project(b.SouthWest), project(b.NorthEast)
	c.center = unproject((sw.x+ne.x)/2, (sw.y+ne.y)/2)
	c.zoom = boundsZoom(math.Abs(ne.x-sw.x), math.Abs(sw.y-ne.y),
		float64(c.width-2*padding), float64(c.height-2*padding), c.maxZoom)
}

func (c *Canvas) InvalidateSize() {
	w, h := c.measure()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.width, c.height = w, h
}

// View returns the current center and zoom.
func (c *Canvas) View() (LatLng, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.center, c.zoom
}

func (c *Canvas) Markers() []Marker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Marker(nil), c.markers...)
}

// Size returns the cached pixel size.
func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

type point struct{ x, y float64 }

// project maps p to Web Mercator pixels at zoom 0.
func project(p LatLng) point {
	lat := math.Max(math.Min(p.Lat, 85.0511287798), -85.0511287798) * math.Pi / 180
	return point{
		x: tileSize * (p.Lon + 180) / 360,
		y: tileSize * (0.5 - math.Log(math.Tan(math.Pi/4+lat/2))/(2*math.Pi)),
	}
}

func unproject(x, y float64) LatLng {
	n := math.Pi - 2*math.Pi*y/tileSize
	return LatLng{
		Lat: 180 / math.Pi * math.Atan(math.Sinh(n)),
		Lon: x/tileSize*360 - 180,
	}
}

func boundsZoom(dx, dy, availW, availH float64, maxZoom int) int {
	if availW <= 0 || availH <= 0 {
		return 0
	}
	zoom := float64(maxZoom)
	if dx > 0 {
		zoom = math.Min(zoom, math.Log2(availW/dx))
	}
	if dy > 0 {
		zoom = math.Min(zoom, math.Log2(availH/dy))
	}
	return min(max(int(math.Floor(zoom)), 0), maxZoom)
}

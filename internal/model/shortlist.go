package model

// Coordinates is a geocoded WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ShortlistItem is a candidate property. Coordinates stay nil until the
// address has been geocoded once; after that they are cached server-side.
type ShortlistItem struct {
	Address     string       `json:"address"`
	Price       string       `json:"price"`
	Bedrooms    string       `json:"bedrooms"`
	Type        string       `json:"type"`
	Link        string       `json:"link"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Geocoded reports whether the item can be placed on a map.
func (s ShortlistItem) Geocoded() bool {
	return s.Coordinates != nil
}

// SaveShortlistRequest is the full-replace body for POST /shortlist.
type SaveShortlistRequest struct {
	Shortlist []ShortlistItem `json:"shortlist"`
}

// GeocodeRequest is the body for POST /geocode.
type GeocodeRequest struct {
	Address string `json:"address"`
}

// GeocodeResponse is a successful /geocode answer.
type GeocodeResponse struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name,omitempty"`
}

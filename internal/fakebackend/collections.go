package fakebackend

import (
	"net/http"

	"github.com/househunt/househunt-go/internal/model"
)

func (b *Backend) handleGetRequirements(w http.ResponseWriter, r *http.Request) {
	id := userIDFromContext(r.Context())

	b.mu.Lock()
	items := append([]model.RequirementItem{}, b.requirements[id]...)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, items)
}

func (b *Backend) handleSaveRequirements(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Requirements *[]model.RequirementItem `json:"requirements"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Requirements == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("Missing requirements data"))
		return
	}

	id := userIDFromContext(r.Context())
	b.mu.Lock()
	b.requirements[id] = append([]model.RequirementItem{}, (*req.Requirements)...)
	b.saves[model.KindRequirements]++
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (b *Backend) handleGetShortlist(w http.ResponseWriter, r *http.Request) {
	id := userIDFromContext(r.Context())

	b.mu.Lock()
	items := cloneShortlist(b.shortlists[id])
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, items)
}

func (b *Backend) handleSaveShortlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Shortlist *[]model.ShortlistItem `json:"shortlist"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Shortlist == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("Missing shortlist data"))
		return
	}

	id := userIDFromContext(r.Context())
	b.mu.Lock()
	b.shortlists[id] = cloneShortlist(*req.Shortlist)
	b.saves[model.KindShortlist]++
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (b *Backend) handleGeocode(w http.ResponseWriter, r *http.Request) {
	var req model.GeocodeRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Address == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("Address is required"))
		return
	}

	b.mu.Lock()
	b.geocodeCalls[req.Address]++
	c, ok := b.places[req.Address]
	b.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse("Address not found"))
		return
	}
	writeJSON(w, http.StatusOK, model.GeocodeResponse{Lat: c.Lat, Lon: c.Lon, DisplayName: req.Address})
}

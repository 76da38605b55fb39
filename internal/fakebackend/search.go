package fakebackend

import (
	"net/http"

	"github.com/househunt/househunt-go/internal/model"
)

func (b *Backend) handleScrape(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("No URL provided"))
		return
	}

	id := userIDFromContext(r.Context())
	today := b.opts.Today()

	b.mu.Lock()
	results, ok := b.scrapes[url]
	if !ok {
		results = "0"
	}

	entries := b.history[id]
	updated := false
	for i := range entries {
		if entries[i].Date == today && entries[i].URL == url {
			entries[i].Results = model.ResultCount(results)
			updated = true
		}
	}
	if !updated {
		entries = append([]model.HistoryEntry{{Date: today, URL: url, Results: model.ResultCount(results)}}, entries...)
	}
	b.history[id] = entries
	history := append([]model.HistoryEntry{}, entries...)
	b.mu.Unlock()

	resp := model.ScrapeResponse{Results: model.ResultCount(results)}
	if !b.opts.OmitScrapeHistory {
		resp.History = history
	}
	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := userIDFromContext(r.Context())

	b.mu.Lock()
	history := append([]model.HistoryEntry{}, b.history[id]...)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, history)
}

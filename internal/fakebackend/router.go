package fakebackend

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler returns the backend's routes.
func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger())
	r.Use(b.injectFailures)

	r.Post("/login", b.handleLogin)
	r.Post("/register", b.handleRegister)
	r.Post("/ask_expert", b.handleAskExpert)

	r.Group(func(r chi.Router) {
		r.Use(b.bearerAuth)

		r.Get("/verify_token", b.handleVerifyToken)
		r.Get("/scrape", b.handleScrape)
		r.Get("/history", b.handleHistory)
		r.Get("/requirements", b.handleGetRequirements)
		r.Post("/requirements", b.handleSaveRequirements)
		r.Get("/shortlist", b.handleGetShortlist)
		r.Post("/shortlist", b.handleSaveShortlist)

		r.Group(func(r chi.Router) {
			if b.opts.GeocodeRPS > 0 {
				r.Use(b.rateLimit(b.opts.GeocodeRPS))
			}
			r.Post("/geocode", b.handleGeocode)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

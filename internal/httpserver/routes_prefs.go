// internal/httpserver/routes_prefs.go
//
// HTTP routes for client preferences (music volume, mute flag, color theme).
// The browser reads these at startup and writes them on change; the game
// engine never sees them. Guests keep settings via the anonymous cookie.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mkay81/numquest/internal/prefs"
)

// mountPrefs registers GET/PUT /prefs.
func (s *Server) mountPrefs(r chi.Router) {
	r.Route("/prefs", func(r chi.Router) {
		r.Get("/", s.handleGetPrefs)
		r.Put("/", s.handlePutPrefs)
	})
}

// handleGetPrefs returns the owner's saved preferences, or defaults.
func (s *Server) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	p, err := s.prefs.Get(r.Context(), owner)
	if err != nil {
		// Storage trouble never breaks the client: fall back to defaults.
		log.Warn().Err(err).Msg("load prefs")
		p = prefs.Default()
	}
	_ = json.NewEncoder(w).Encode(p)
}

// handlePutPrefs validates and saves the owner's preferences.
func (s *Server) handlePutPrefs(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	var p prefs.Prefs
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if err := p.Validate(); err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	if err := s.prefs.Put(r.Context(), owner, p); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(p)
}

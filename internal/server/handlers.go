package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// stockReport serves GET /api/stock/{code}?date=YYYY-MM-DD. Report failures
// are answered with 200 and ok=false; the body carries the reason.
func (s *Server) stockReport(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	resp := s.assembler.Generate(r.Context(), code, r.URL.Query().Get("date"))
	writeJSON(w, http.StatusOK, resp)
}

// releaseSchedule serves GET /api/release/{code}?designation_date=YYYY-MM-DD.
func (s *Server) releaseSchedule(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	resp := s.assembler.ReleaseSchedule(r.Context(), code, r.URL.Query().Get("designation_date"))
	writeJSON(w, http.StatusOK, resp)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"ok":    false,
		"error": map[string]string{"message": "not found: " + r.URL.Path},
	})
}

package web

import (
	"encoding/json"
	"net/http"
)

type galleryStats struct {
	Entries int      `json:"entries"`
	People  []string `json:"people"`
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/attendance", s.handleAttendance)
	s.router.Get("/api/gallery", s.handleGallery)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request) {
	rows, err := s.ledger.Rows()
	if err != nil {
		http.Error(w, "cannot read attendance file", http.StatusInternalServerError)
		return
	}
	writeJSON(w, rows)
}

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	stats := galleryStats{
		Entries: s.gallery.Len(),
		People:  s.gallery.People(),
	}
	writeJSON(w, stats)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encoding response", http.StatusInternalServerError)
	}
}

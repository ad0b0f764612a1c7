package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/inkshelf/inkshelf-server/internal/http/response"
)

func (s *Server) registerCoverRoutes() {
	// Covers stream through chi directly; huma buffers response bodies and
	// images don't need the typed layer.
	s.router.Get("/covers/{key}", s.handleServeCover)
}

func (s *Server) handleServeCover(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		response.BadRequest(w, "cover key required", s.logger.Logger)
		return
	}

	cover, data, err := s.services.Covers.Get(r.Context(), key)
	if err != nil {
		response.HandleError(w, err, s.logger.Logger)
		return
	}

	w.Header().Set("Content-Type", cover.MimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Write(data)
}

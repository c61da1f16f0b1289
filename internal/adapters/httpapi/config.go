package httpapi

import (
	"net/http"

	"menu-highlights/internal/domain"
)

func (s *Server) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, http.StatusOK, s.session.Config())
}

func (s *Server) handlePatchConfig(w http.ResponseWriter, r *http.Request) {
	var patch domain.ConfigPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	cfg, err := s.session.UpdateConfig(patch)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.persist(r.Context())
	writeOK(w, http.StatusOK, cfg)
}

func (s *Server) handleToggleConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.session.ToggleConfigActive()
	s.persist(r.Context())
	writeOK(w, http.StatusOK, cfg)
}

func (s *Server) handleResetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.session.ResetConfig()
	s.persist(r.Context())
	writeOK(w, http.StatusOK, cfg)
}

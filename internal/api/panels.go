package api

import "net/http"

// handlePanelInfo returns the Info panel's complete view model: header,
// version block, link pages, supervisor data (when loaded), legacy
// extensions and the disclaimer.
func (s *Server) handlePanelInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.panel.View())
}

// handlePanelExtensions returns just the legacy extension list. The
// list is a fresh registry snapshot, not the one from the last render.
func (s *Server) handlePanelExtensions(w http.ResponseWriter, _ *http.Request) {
	entries := s.panel.View().Extensions
	writeJSON(w, http.StatusOK, map[string]any{
		"extensions": entries,
		"count":      len(entries),
	})
}

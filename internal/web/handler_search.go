package web

import "net/http"

func (s *Server) handleUnifiedSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mrowan/craglog/internal/domain"
	"github.com/mrowan/craglog/internal/service"
)

func (s *Server) handleListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := s.catalog.TopLevelAreas(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, areas)
}

type createAreaRequest struct {
	Name         string   `json:"name"`
	State        *string  `json:"state"`
	Lat          *float64 `json:"lat"`
	Lng          *float64 `json:"lng"`
	ParentAreaID *int64   `json:"parentAreaId"`
}

func (s *Server) handleCreateArea(w http.ResponseWriter, r *http.Request) {
	var req createAreaRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	area, err := s.catalog.CreateArea(r.Context(), &domain.Area{
		Name:         req.Name,
		State:        req.State,
		Lat:          req.Lat,
		Lng:          req.Lng,
		ParentAreaID: req.ParentAreaID,
	})
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, area)
}

func (s *Server) handleGetArea(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid area id"})
		return
	}

	detail, err := s.catalog.GetArea(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleSearchAreas(w http.ResponseWriter, r *http.Request) {
	results, err := s.catalog.SearchAreas(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleStateSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.catalog.StateSummaries(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleAreasInState(w http.ResponseWriter, r *http.Request) {
	areas, err := s.catalog.AreasInState(r.Context(), chi.URLParam(r, "state"))
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, areas)
}

func (s *Server) handleNearbyAreas(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "lat and lng are required"})
		return
	}

	radius := service.DefaultNearbyRadiusMiles
	if v := q.Get("radius"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 {
			respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid radius"})
			return
		}
		radius = parsed
	}

	areas, err := s.catalog.Nearby(r.Context(), lat, lng, radius)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, areas)
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

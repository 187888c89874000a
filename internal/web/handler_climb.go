package web

import (
	"net/http"

	"github.com/mrowan/craglog/internal/domain"
	"github.com/mrowan/craglog/internal/service"
)

func (s *Server) handleListClimbs(w http.ResponseWriter, r *http.Request) {
	climbs, err := s.climbs.ListClimbs(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, climbs)
}

type createClimbRequest struct {
	AreaID      int64    `json:"areaId"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Yds         *string  `json:"yds"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Description *string  `json:"description"`
}

func (s *Server) handleCreateClimb(w http.ResponseWriter, r *http.Request) {
	var req createClimbRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	climb, err := s.climbs.CreateClimb(r.Context(), &domain.Climb{
		AreaID:      req.AreaID,
		Name:        req.Name,
		Type:        req.Type,
		Yds:         req.Yds,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, climb)
}

func (s *Server) handleGetClimb(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid climb id"})
		return
	}

	detail, err := s.climbs.GetClimb(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

type addNoteRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid climb id"})
		return
	}

	var req addNoteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}

	userID := UserID(r.Context())
	note, err := s.climbs.AddNote(r.Context(), id, &userID, req.Body)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, note)
}

// maxUploadMemory bounds in-memory multipart parsing; larger files spill to
// temp storage.
const maxUploadMemory = 32 << 20

func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid climb id"})
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "expected multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "file field is required"})
		return
	}
	defer file.Close()

	up := service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	if caption := r.FormValue("caption"); caption != "" {
		up.Caption = &caption
	}

	userID := UserID(r.Context())
	media, err := s.climbs.UploadMedia(r.Context(), id, &userID, up)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, media)
}

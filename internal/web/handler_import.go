package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mrowan/craglog/internal/openbeta"
)

type importByNameRequest struct {
	AreaName string `json:"areaName"`
}

func (s *Server) handleImportByName(w http.ResponseWriter, r *http.Request) {
	var req importByNameRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	if strings.TrimSpace(req.AreaName) == "" {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "area name is required"})
		return
	}

	result := s.importer.ImportAreaByName(r.Context(), req.AreaName)
	respondImportResult(w, result)
}

func (s *Server) handleImportAllStates(w http.ResponseWriter, r *http.Request) {
	result := s.importer.ImportAllStates(r.Context())
	respondImportResult(w, result)
}

func respondImportResult(w http.ResponseWriter, result *openbeta.ImportResult) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	respondJSON(w, status, result)
}

func (s *Server) handleFixStates(w http.ResponseWriter, r *http.Request) {
	result, err := s.admin.NormalizeStateNames(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     fmt.Sprintf("Fixed %d areas", result.AreasFixed),
		"statesFixed": result.StatesFixed,
	})
}

func (s *Server) handleDeleteAreaByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "areaName")
	if err := s.admin.DeleteAreaByName(r.Context(), name); err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Deleted area %q and all its children", name),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	result := s.admin.ResetAll(r.Context())
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadRequest
	}
	respondJSON(w, status, result)
}

func (s *Server) handleSeedSample(w http.ResponseWriter, r *http.Request) {
	message, err := s.admin.SeedSample(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true, "message": message})
}

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/subtextlab/subtext/internal/analysis"
	"github.com/subtextlab/subtext/internal/database"
	"github.com/subtextlab/subtext/pkg/models"
)

// createAnalysisRequest is the body for POST /api/analyses.
type createAnalysisRequest struct {
	Text             string         `json:"text"`
	Source           string         `json:"source,omitempty"`
	CompressionRatio *float64       `json:"compression_ratio,omitempty"`
	CoherenceScore   *float64       `json:"coherence_score,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// analysisResponse is returned for create and get operations.
type analysisResponse struct {
	ID        *uuid.UUID       `json:"id,omitempty"`
	Result    *analysis.Result `json:"result"`
	CreatedAt *time.Time       `json:"created_at,omitempty"`
}

func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req createAnalysisRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := s.pipeline.Run(r.Context(), analysis.Params{
		Text:             req.Text,
		Source:           req.Source,
		CompressionRatio: req.CompressionRatio,
		CoherenceScore:   req.CoherenceScore,
		Metadata:         req.Metadata,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	resp := analysisResponse{Result: result}

	if s.db != nil {
		stored, err := s.db.CreateAnalysis(r.Context(), database.CreateAnalysisParams{
			Text:        req.Text,
			ContentType: result.ContentType,
			Report:      result.Report,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to store analysis")
			return
		}
		resp.ID = &stored.ID
		resp.CreatedAt = &stored.CreatedAt
	}

	writeJSON(w, http.StatusCreated, resp)
}

// storedAnalysisResponse is the list/get representation of a stored record.
type storedAnalysisResponse struct {
	ID          uuid.UUID                `json:"id"`
	Text        string                   `json:"text"`
	ContentType models.ContentType       `json:"content_type"`
	Status      models.Status            `json:"status"`
	Report      *models.DiagnosticReport `json:"report"`
	CreatedAt   time.Time                `json:"created_at"`
}

func toStoredResponse(a database.Analysis) storedAnalysisResponse {
	return storedAnalysisResponse{
		ID:          a.ID,
		Text:        a.Text,
		ContentType: a.ContentType,
		Status:      a.Status,
		Report:      a.Report,
		CreatedAt:   a.CreatedAt,
	}
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	params := database.ListAnalysesParams{}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		params.Limit = limit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		params.Offset = offset
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := models.Status(v)
		switch status {
		case models.StatusSuccess, models.StatusUnstable, models.StatusFailed:
			params.Status = &status
		default:
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
	}

	analyses, err := s.db.ListAnalyses(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	resp := make([]storedAnalysisResponse, 0, len(analyses))
	for _, a := range analyses {
		resp = append(resp, toStoredResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence is not configured")
		return
	}

	id, err := uuid.Parse(r.PathValue("analysisID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis ID")
		return
	}

	a, err := s.db.GetAnalysis(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}

	writeJSON(w, http.StatusOK, toStoredResponse(*a))
}

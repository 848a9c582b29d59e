package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"wordduel/internal/app"
	"wordduel/internal/domain"
	"wordduel/internal/store"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateMatchRequest is the body of POST /api/matches. Zero fields take
// the configured defaults.
type CreateMatchRequest struct {
	Mode       domain.Mode       `json:"mode"`
	Rounds     int               `json:"rounds"`
	Tier       domain.Tier       `json:"tier"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Name       string            `json:"name"`
}

// JoinMatchRequest is the body of POST /api/matches/{matchId}/players
type JoinMatchRequest struct {
	Name string `json:"name"`
}

// MatchHandleResponse identifies a seat in a match
type MatchHandleResponse struct {
	MatchID  string      `json:"matchId"`
	PlayerID string      `json:"playerId"`
	Seat     domain.Seat `json:"seat"`
}

// SubmitWordRequest is the body of POST /api/matches/{matchId}/submissions.
// SubmittedAt is the client clock and is advisory only.
type SubmitWordRequest struct {
	PlayerID    string `json:"playerId"`
	Word        string `json:"word"`
	SubmittedAt int64  `json:"submittedAt,omitempty"`
}

// SubmitWordResponse acknowledges a recorded submission
type SubmitWordResponse struct {
	Late          bool `json:"late"`
	BothSubmitted bool `json:"bothSubmitted"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, http.StatusOK, &HealthResponse{Status: "ok"})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, http.StatusOK, s.hub.Stats())
}

// handleCheckWord handles GET /api/words/{word}
func (s *Server) handleCheckWord(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	if !domain.IsAlpha(domain.Normalize(word)) {
		s.sendError(w, http.StatusBadRequest, "INVALID_WORD", "Words contain letters A-Z only")
		return
	}
	s.sendSuccess(w, http.StatusOK, s.hub.CheckWord(word))
}

// handleCreateMatch handles POST /api/matches
func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req CreateMatchRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.sendError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON")
			return
		}
	}

	settings := s.config.MatchSettings()
	if req.Mode != "" {
		settings.Mode = req.Mode
	}
	if req.Rounds != 0 {
		settings.TotalRounds = req.Rounds
	}
	if req.Tier != "" {
		settings.Tier = req.Tier
	}
	if req.Difficulty != "" {
		settings.Difficulty = req.Difficulty
	}

	handle, err := s.hub.StartMatch(settings, req.Name)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, http.StatusCreated, toHandleResponse(handle))
}

// handleJoinMatch handles POST /api/matches/{matchId}/players
func (s *Server) handleJoinMatch(w http.ResponseWriter, r *http.Request) {
	var req JoinMatchRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.sendError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON")
			return
		}
	}

	handle, err := s.hub.JoinMatch(chi.URLParam(r, "matchId"), req.Name)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, http.StatusCreated, toHandleResponse(handle))
}

// handleGetMatch handles GET /api/matches/{matchId}
func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	state, err := s.hub.MatchState(chi.URLParam(r, "matchId"))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, http.StatusOK, state)
}

// handleSubmitWord handles POST /api/matches/{matchId}/submissions.
// Lateness is judged by the time the request arrives.
func (s *Server) handleSubmitWord(w http.ResponseWriter, r *http.Request) {
	receivedAt := time.Now()

	var req SubmitWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON")
		return
	}
	if req.PlayerID == "" {
		s.sendError(w, http.StatusBadRequest, "MISSING_PLAYER_ID", "playerId is required")
		return
	}

	receipt, err := s.hub.SubmitWord(chi.URLParam(r, "matchId"), req.PlayerID, req.Word, receivedAt)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, http.StatusOK, &SubmitWordResponse{
		Late:          receipt.Late,
		BothSubmitted: receipt.BothSubmitted,
	})
}

// handleRecentMatches handles GET /api/matches/recent?limit=N
func (s *Server) handleRecentMatches(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.sendError(w, http.StatusServiceUnavailable, "ARCHIVE_DISABLED", "Match archive is not configured")
		return
	}

	limit := defaultRecentLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.sendError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
			return
		}
		limit = min(n, maxRecentLimit)
	}

	records, err := s.archive.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("list recent matches")
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}
	s.sendSuccess(w, http.StatusOK, records)
}

// handleArchivedMatch handles GET /api/matches/archive/{matchId}
func (s *Server) handleArchivedMatch(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.sendError(w, http.StatusServiceUnavailable, "ARCHIVE_DISABLED", "Match archive is not configured")
		return
	}

	record, err := s.archive.Get(r.Context(), chi.URLParam(r, "matchId"))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendSuccess(w, http.StatusOK, record)
}

func toHandleResponse(h app.MatchHandle) *MatchHandleResponse {
	return &MatchHandleResponse{MatchID: h.MatchID, PlayerID: h.PlayerID, Seat: h.Seat}
}

// sendDomainError maps domain errors onto status codes. Submission
// rejections use their RejectedReason as the code.
func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	if reason, ok := domain.ReasonFor(err); ok {
		status := http.StatusConflict
		if reason == domain.ReasonMatchNotFound {
			status = http.StatusNotFound
		}
		s.sendError(w, status, string(reason), err.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrPlayerNotFound):
		s.sendError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrMatchFull):
		s.sendError(w, http.StatusConflict, "MATCH_FULL", err.Error())
	case errors.Is(err, domain.ErrInvalidSettings):
		s.sendError(w, http.StatusBadRequest, "INVALID_SETTINGS", err.Error())
	default:
		s.logger.Error().Err(err).Msg("request failed")
		s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

// compile-time check that the SQLite archive serves the read endpoints
var _ Archive = (*store.Archive)(nil)

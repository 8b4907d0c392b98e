package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/leaderboard/internal/metrics"
	"github.com/atinyakov/leaderboard/internal/middleware"
	"github.com/atinyakov/leaderboard/internal/models"
	"github.com/atinyakov/leaderboard/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ListLimit is the number of rows returned by GET /api/scores.
const ListLimit = 15

// LeaderboardService defines the leaderboard operations required by the
// HTTP handlers.
type LeaderboardService interface {
	// SubmitScore records a score and returns its receipt hash, or
	// service.ErrInvalidScore for a score the store cannot hold exactly.
	SubmitScore(ctx context.Context, name string, score int64) (string, error)
	// ListTopScores returns up to limit rows, highest score first.
	ListTopScores(ctx context.Context, limit int) ([]models.RankedScore, error)
	// VerifyHash returns the receipt for hash or service.ErrHashNotFound.
	VerifyHash(ctx context.Context, hash string) (models.ScoreRecord, error)
	// ResetLeaderboard wipes the board; service.ErrUnauthorized on a bad password.
	ResetLeaderboard(ctx context.Context, password string) error
}

// ScoreHandler handles score submission, listing, verification and reset.
type ScoreHandler struct {
	// Service performs the underlying leaderboard operations.
	Service LeaderboardService
	// Metrics may be nil.
	Metrics *metrics.Metrics
	// Logger receives dependency failures. Must not be nil.
	Logger *zap.Logger
}

// SubmitRequest is the JSON payload for POST /api/scores.
type SubmitRequest struct {
	Name  *string `json:"name"`
	Score *int64  `json:"score"`
}

// SubmitResponse is returned after a successful submission.
type SubmitResponse struct {
	Message string `json:"message"`
	Hash    string `json:"hash"`
}

// ResetRequest is the JSON payload for POST /api/reset-leaderboard.
type ResetRequest struct {
	Password string `json:"password"`
}

func (h *ScoreHandler) log(r *http.Request) *zap.Logger {
	return h.Logger.With(zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())))
}

// Submit handles POST /api/scores. Both name and an integer score are
// required; the name is not checked for profanity here.
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Name == nil || *req.Name == "" || req.Score == nil {
		writeError(w, http.StatusBadRequest, "Name and score are required")
		return
	}

	hash, err := h.Service.SubmitScore(r.Context(), *req.Name, *req.Score)
	if errors.Is(err, service.ErrInvalidScore) {
		h.Metrics.Submission(metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, "Score out of range")
		return
	}
	if err != nil {
		h.log(r).Error("failed to add score", zap.Error(err))
		h.Metrics.Submission(metrics.OutcomeError)
		writeError(w, http.StatusInternalServerError, "Failed to add score")
		return
	}

	h.Metrics.Submission(metrics.OutcomeOK)
	writeJSON(w, http.StatusOK, SubmitResponse{Message: "Score added successfully", Hash: hash})
}

// List handles GET /api/scores.
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	scores, err := h.Service.ListTopScores(r.Context(), ListLimit)
	if err != nil {
		h.log(r).Error("failed to get scores", zap.Error(err))
		h.Metrics.Listing(metrics.OutcomeError)
		writeError(w, http.StatusInternalServerError, "Failed to get scores")
		return
	}

	h.Metrics.Listing(metrics.OutcomeOK)
	writeJSON(w, http.StatusOK, scores)
}

// Verify handles GET /api/verify/{hash}. An unknown hash is a 404, not a failure.
func (h *ScoreHandler) Verify(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")

	rec, err := h.Service.VerifyHash(r.Context(), hash)
	switch {
	case errors.Is(err, service.ErrHashNotFound):
		h.Metrics.Verification(metrics.OutcomeNotFound)
		writeError(w, http.StatusNotFound, "Hash not found")
		return
	case err != nil:
		h.log(r).Error("failed to verify hash", zap.Error(err))
		h.Metrics.Verification(metrics.OutcomeError)
		writeError(w, http.StatusInternalServerError, "Failed to verify hash")
		return
	}

	h.Metrics.Verification(metrics.OutcomeOK)
	writeJSON(w, http.StatusOK, rec)
}

// Reset handles POST /api/reset-leaderboard. The supplied password is never
// logged. A malformed body is treated as an empty password.
func (h *ScoreHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	h.log(r).Info("resetting leaderboard")
	err := h.Service.ResetLeaderboard(r.Context(), req.Password)
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		h.log(r).Info("leaderboard reset rejected")
		h.Metrics.Reset(metrics.OutcomeUnauthorized)
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	case err != nil:
		h.log(r).Error("failed to reset leaderboard", zap.Error(err))
		h.Metrics.Reset(metrics.OutcomeError)
		writeError(w, http.StatusInternalServerError, "Failed to reset leaderboard")
		return
	}

	h.log(r).Info("leaderboard reset successfully")
	h.Metrics.Reset(metrics.OutcomeOK)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Leaderboard reset successfully"})
}

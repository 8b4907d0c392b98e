package http

import (
	"encoding/json"
	"net/http"

	"github.com/atinyakov/leaderboard/internal/metrics"
	"github.com/atinyakov/leaderboard/internal/models"
)

// ProfanityHandler serves the advisory name check.
type ProfanityHandler struct {
	// Check classifies a name.
	Check func(text string) models.CheckResult
	// Metrics may be nil.
	Metrics *metrics.Metrics
}

// CheckRequest is the JSON payload for POST /api/check-profanity.
type CheckRequest struct {
	Name string `json:"name"`
}

// CheckResponse reports the check outcome.
type CheckResponse struct {
	Result  models.CheckResult `json:"result"`
	Message string             `json:"message"`
}

// CheckName handles POST /api/check-profanity.
func (h *ProfanityHandler) CheckName(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	result := h.Check(req.Name)
	h.Metrics.ProfanityCheck(string(result))

	resp := CheckResponse{Result: result, Message: "The name is appropriate."}
	if result == models.CheckFail {
		resp.Message = "The name contains inappropriate language."
	}
	writeJSON(w, http.StatusOK, resp)
}

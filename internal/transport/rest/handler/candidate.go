package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"codeshare/internal/model"
	"codeshare/internal/service"
)

// CandidateHandler handles the public candidate-facing endpoints. No
// authentication: holding a valid open session code is the capability.
type CandidateHandler struct {
	sessionSvc *service.SessionService
}

// NewCandidateHandler creates a new candidate handler
func NewCandidateHandler(sessionSvc *service.SessionService) *CandidateHandler {
	return &CandidateHandler{sessionSvc: sessionSvc}
}

// RegisterRequest is the join-by-code request body
type RegisterRequest struct {
	Code string `json:"code"`
}

// Register handles POST /v1/candidate/register. Resolves a join code
// to a session.
func (h *CandidateHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := h.sessionSvc.Get(req.Code)
	if sess == nil {
		writeError(w, http.StatusNotFound, "invalid code")
		return
	}
	if !sess.Open {
		writeError(w, http.StatusGone, "session is closed")
		return
	}

	writeJSON(w, http.StatusOK, sess.View())
}

// Get handles GET /v1/candidate/sessions/{id}
func (h *CandidateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sess := h.sessionSvc.Get(id)
	if sess == nil || !sess.Open {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, sess.View())
}

// Refresh handles GET /v1/candidate/sessions/{id}/refresh, the
// candidate polling for interviewer text.
func (h *CandidateHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	lastSeen := parseLastSeen(r.URL.Query().Get("lastOtherUpdateTime"))

	writeJSON(w, http.StatusOK, h.sessionSvc.Refresh(id, model.RoleCandidate, lastSeen))
}

// UpdateText handles POST /v1/candidate/sessions/{id}/text
func (h *CandidateHandler) UpdateText(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.sessionSvc.UpdateText(id, model.RoleCandidate, req.MyText, req.LastOtherUpdateTime))
}

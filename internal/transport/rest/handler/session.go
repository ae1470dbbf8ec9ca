package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"codeshare/internal/model"
	"codeshare/internal/repository"
	"codeshare/internal/service"
	"codeshare/internal/transport/rest/middleware"
)

// SessionHandler handles the interviewer-facing session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// List handles GET /v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"openSessions":   h.sessionSvc.ListOpen(actor.Username),
		"closedSessions": h.sessionSvc.ListClosed(actor.Username),
	})
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.GetActor(r.Context())

	sess, err := h.sessionSvc.Create(actor.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

// Get handles GET /v1/sessions/{id}. This is the details view,
// comments included.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	sess := h.sessionSvc.Get(id)
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// Close handles POST /v1/sessions/{id}/close
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.sessionSvc.Close)
}

// Reopen handles POST /v1/sessions/{id}/reopen
func (h *SessionHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.sessionSvc.Reopen)
}

// Delete handles DELETE /v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.sessionSvc.Delete)
}

func (h *SessionHandler) lifecycle(w http.ResponseWriter, r *http.Request, op func(string, model.Actor) error) {
	id := mux.Vars(r)["id"]
	actor, _ := middleware.GetActor(r.Context())

	switch err := op(id, actor); err {
	case nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case service.ErrUnauthorized:
		writeError(w, http.StatusForbidden, err.Error())
	case repository.ErrNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// Refresh handles GET /v1/sessions/{id}/refresh, the interviewer
// polling for candidate text.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	lastSeen := parseLastSeen(r.URL.Query().Get("lastOtherUpdateTime"))

	writeJSON(w, http.StatusOK, h.sessionSvc.Refresh(id, model.RoleInterviewer, lastSeen))
}

// UpdateTextRequest is the write-and-poll request body
type UpdateTextRequest struct {
	MyText              string `json:"myText"`
	LastOtherUpdateTime int64  `json:"lastOtherUpdateTime"`
}

// UpdateText handles POST /v1/sessions/{id}/text
func (h *SessionHandler) UpdateText(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.sessionSvc.UpdateText(id, model.RoleInterviewer, req.MyText, req.LastOtherUpdateTime))
}

// UpdateCommentsRequest carries the interviewer's private notes
type UpdateCommentsRequest struct {
	MyComments string `json:"myComments"`
}

// UpdateComments handles POST /v1/sessions/{id}/comments
func (h *SessionHandler) UpdateComments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req UpdateCommentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.sessionSvc.UpdateComments(id, req.MyComments)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseLastSeen treats anything unparseable as "never seen an update",
// so reconnecting clients can simply omit the parameter.
func parseLastSeen(raw string) int64 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

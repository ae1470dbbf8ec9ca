package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"codeshare/internal/service"
	"codeshare/internal/transport/rest/middleware"
)

// UserHandler handles the admin-only account management endpoints
type UserHandler struct {
	userSvc *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List handles GET /v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// CreateUserRequest is the request body for creating an account
type CreateUserRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Admin     bool   `json:"admin"`
}

// Create handles POST /v1/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.userSvc.Create(r.Context(), req.Username, req.Password, req.FirstName, req.LastName, req.Admin)
	if err == service.ErrUsernameTaken {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Delete handles DELETE /v1/users/{username}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	actor, _ := middleware.GetActor(r.Context())

	if err := h.userSvc.Delete(r.Context(), actor, username); err == service.ErrSelfDelete {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

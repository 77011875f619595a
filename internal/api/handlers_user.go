package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/echo-social/echo-server/internal/api/respond"
	"github.com/echo-social/echo-server/internal/api/validate"
	"github.com/echo-social/echo-server/internal/model"
	"github.com/echo-social/echo-server/internal/services"
)

type UserHandler struct {
	users    *services.UserService
	memories *services.MemoryService
}

func NewUserHandler(users *services.UserService, memories *services.MemoryService) *UserHandler {
	return &UserHandler{users: users, memories: memories}
}

// CreateUser POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string  `json:"username"`
		Email    string  `json:"email"`
		Avatar   *string `json:"avatar,omitempty"`
		Bio      *string `json:"bio,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.CreateUser(in.Username, in.Email, in.Bio); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	u := &model.User{Username: in.Username, Email: in.Email, Avatar: in.Avatar, Bio: in.Bio}
	out, err := h.users.CreateUser(r.Context(), u)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]interface{}{"user": out})
}

// GetUser GET /api/users/{userId}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		respond.WriteBadRequest(w, "userId required")
		return
	}
	u, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": u})
}

// UpdateUser PUT /api/users/{userId}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Avatar *string `json:"avatar,omitempty"`
		Bio    *string `json:"bio,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.users.UpdateProfile(r.Context(), mux.Vars(r)["userId"], model.UserUpdate{Avatar: in.Avatar, Bio: in.Bio})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"user": out})
}

// ListMemories GET /api/users/{userId}/memories
func (h *UserHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	out, err := h.memories.ListUserMemories(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if out == nil {
		out = []*model.Memory{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"memories": out, "count": len(out)})
}

// GetStats GET /api/users/{userId}/stats
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	stats, err := h.memories.UserStats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

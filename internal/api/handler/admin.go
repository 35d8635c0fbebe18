package handler

import (
	"net/http"
	"sort"

	"clickarena/internal/api/response"
	"clickarena/internal/services/presence"
	"clickarena/internal/storage"
)

// AdminHandler handles the read-only admin surface. Account lifecycle
// (create/edit/delete) is managed outside this service.
type AdminHandler struct {
	storage  storage.Storage
	presence *presence.Tracker
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store storage.Storage, tracker *presence.Tracker) *AdminHandler {
	return &AdminHandler{
		storage:  store,
		presence: tracker,
	}
}

// ListUsers handles GET /api/v1/admin/users. Unlike the public rankings it
// includes blocked identities and admins, newest first.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	identities, err := h.storage.ListIdentities(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	scores, err := h.storage.ListScores(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	online := h.presence.Snapshot()

	sort.Slice(identities, func(i, j int) bool {
		return identities[i].CreatedAt.After(identities[j].CreatedAt)
	})

	users := make([]response.User, len(identities))
	for i, identity := range identities {
		users[i] = response.UserFromModel(identity, scores[identity.ID], online[identity.ID])
	}

	response.JSON(w, http.StatusOK, response.UsersResponse{Users: users})
}

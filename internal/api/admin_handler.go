package api

import (
	"net/http"

	"mediai/backend/internal/auth"
	"mediai/backend/internal/interfaces"
)

// AdminHandler serves the admin dashboard.
type AdminHandler struct {
	admin interfaces.AdminService
}

func NewAdminHandler(admin interfaces.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"users": users})
}

// UpdateUserStatus handles PUT /api/admin/users.
func (h *AdminHandler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserStatusRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	if err := h.admin.SetUserActive(r.Context(), auth.UserID(r.Context()), req.UserID, *req.IsActive); err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "User status updated successfully"})
}

// ListTextbooks handles GET /api/admin/textbooks.
func (h *AdminHandler) ListTextbooks(w http.ResponseWriter, r *http.Request) {
	textbooks, err := h.admin.ListTextbooks(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"textbooks": textbooks})
}

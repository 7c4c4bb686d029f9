package api

import (
	"net/http"

	"mediai/backend/internal/auth"
	"mediai/backend/internal/interfaces"
	"mediai/backend/internal/model"
)

// UserHandler serves the signed-in user's session and profile.
type UserHandler struct {
	users interfaces.UserService
}

func NewUserHandler(users interfaces.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me handles GET /api/auth/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Me(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{"user": user})
}

// Logout handles POST /api/auth/logout by expiring the session cookie.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully."})
}

// UpdateProfile handles PUT /api/user/profile.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		respondWithError(w, r, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), auth.UserID(r.Context()), model.ProfileUpdate{
		FullName:       req.FullName,
		PhoneNumber:    req.PhoneNumber,
		Specialization: req.Specialization,
	})
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

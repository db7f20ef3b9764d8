package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dayflow-hr/dayflow-backend-go/internal/domain/profile"
	"github.com/dayflow-hr/dayflow-backend-go/internal/handler/http/middleware"
	"github.com/dayflow-hr/dayflow-backend-go/internal/handler/http/response"
)

type ProfileHandler interface {
	GetMine(w http.ResponseWriter, r *http.Request)
	UpdateMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type profileHandlerImpl struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) ProfileHandler {
	return &profileHandlerImpl{
		profileService: profileService,
	}
}

// GetMine implements ProfileHandler.
func (h *profileHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.profileService.GetMine(r.Context(), identity)
	if err != nil {
		slog.Error("GetMine profile service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateMine implements ProfileHandler.
func (h *profileHandlerImpl) UpdateMine(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req profile.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.profileService.UpdateMine(r.Context(), identity.UserID, req)
	if err != nil {
		slog.Error("UpdateMine profile service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Profile updated", result)
}

// List implements ProfileHandler.
func (h *profileHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.profileService.List(r.Context())
	if err != nil {
		slog.Error("List profile service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"fitChallengeAPI/internal/profile"
	"fitChallengeAPI/services"
)

type ProfileHandler struct {
	profileService *services.ProfileService
	log            *zap.Logger
}

func NewProfileHandler(profileService *services.ProfileService, log *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		log:            log,
	}
}

// GET /api/v1/profile - null when the caller has no profile yet
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	p, err := h.profileService.GetProfile(ctx, sess)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req profile.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.profileService.UpdateProfile(ctx, sess, &req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, saved)
}

// GET /api/v1/profile/avatars?gender=female&size=120
func (h *ProfileHandler) GetAvatars(w http.ResponseWriter, r *http.Request) {
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size < 0 || size > 1024 {
		size = 0
	}

	avatars, err := h.profileService.Avatars(profile.Gender(r.URL.Query().Get("gender")), size)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, avatars)
}

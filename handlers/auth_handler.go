package handlers

import (
	"context"
	"net/http"
	"time"

	"fitChallengeAPI/services"
)

type AuthHandler struct {
	sessionService *services.SessionService
}

func NewAuthHandler(sessionService *services.SessionService) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
	}
}

// POST /api/v1/auth/sign-out
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	h.sessionService.SignOut(ctx, sess)
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Signed out"})
}

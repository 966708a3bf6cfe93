package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"fitChallengeAPI/internal/challenge"
	"fitChallengeAPI/services"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	log              *zap.Logger
}

func NewChallengeHandler(challengeService *services.ChallengeService, log *zap.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		log:              log,
	}
}

func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := requireSession(w, r); !ok {
		return
	}

	challenges, err := h.challengeService.ListChallenges(ctx)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, challenges)
}

func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req challenge.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.challengeService.CreateChallenge(ctx, sess, &req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := requireSession(w, r); !ok {
		return
	}
	id, ok := challengeIDFromPath(w, r)
	if !ok {
		return
	}

	found, err := h.challengeService.GetChallenge(ctx, id)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, found)
}

func (h *ChallengeHandler) ShareChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := requireSession(w, r); !ok {
		return
	}
	id, ok := challengeIDFromPath(w, r)
	if !ok {
		return
	}

	share, err := h.challengeService.Share(ctx, id)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, share)
}

func (h *ChallengeHandler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, ok := challengeIDFromPath(w, r)
	if !ok {
		return
	}

	participant, err := h.challengeService.Join(ctx, sess, id)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, participant)
}

func (h *ChallengeHandler) LeaveChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, ok := challengeIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.challengeService.Leave(ctx, sess, id); err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Left challenge"})
}

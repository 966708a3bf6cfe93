package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"fitChallengeAPI/internal/progress"
	"fitChallengeAPI/services"
)

type ProgressHandler struct {
	progressService *services.ProgressService
	log             *zap.Logger
}

func NewProgressHandler(progressService *services.ProgressService, log *zap.Logger) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		log:             log,
	}
}

// GET /api/v1/challenges/{id}/progress - caller's ledger, most recent first
func (h *ProgressHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sess, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, ok := challengeIDFromPath(w, r)
	if !ok {
		return
	}

	entries, err := h.progressService.History(ctx, sess, id)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

// GET /api/v1/challenges/{id}/progress/today - null until logged
func (h *ProgressHandler) GetToday(w http.ResponseWriter, r *http.Request) {
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

	entry, err := h.progressService.Today(ctx, sess, id)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

func (h *ProgressHandler) LogProgress(w http.ResponseWriter, r *http.Request) {
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

	var req progress.LogProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.progressService.LogToday(ctx, sess, id, &req)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"fitChallengeAPI/services"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
	log                *zap.Logger
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService, log *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		log:                log,
	}
}

func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := requireSession(w, r); !ok {
		return
	}
	id, ok := challengeIDFromPath(w, r)
	if !ok {
		return
	}

	board, err := h.leaderboardService.Leaderboard(ctx, id)
	if err != nil {
		respondWithServiceError(w, h.log, err)
		return
	}

	respondWithJSON(w, http.StatusOK, board)
}

package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitChallengeAPI/internal/cache"
)

// Cache failures never fail a request; they are logged and treated as a miss.

func readView(ctx context.Context, c cache.Cache, log *zap.Logger, key string, dst any) bool {
	hit, err := c.Get(ctx, key, dst)
	if err != nil {
		log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func writeView(ctx context.Context, c cache.Cache, log *zap.Logger, key string, value any, tags ...string) {
	if err := c.Set(ctx, key, value, tags...); err != nil {
		log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func invalidateViews(ctx context.Context, c cache.Cache, log *zap.Logger, w cache.Write, challengeID uuid.UUID, userID string) {
	tags := cache.TagsFor(w, challengeID, userID)
	if err := c.Invalidate(ctx, tags...); err != nil {
		log.Warn("cache invalidation failed",
			zap.Stringer("write", w),
			zap.Strings("tags", tags),
			zap.Error(err),
		)
	}
}

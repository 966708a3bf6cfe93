package services

import (
	"context"

	clerksession "github.com/clerk/clerk-sdk-go/v2/session"
	"go.uber.org/zap"

	"fitChallengeAPI/internal/session"
)

// SessionRevoker ends a session at the identity provider.
type SessionRevoker interface {
	Revoke(ctx context.Context, sessionID string) error
}

type ClerkRevoker struct{}

func (ClerkRevoker) Revoke(ctx context.Context, sessionID string) error {
	_, err := clerksession.Revoke(ctx, &clerksession.RevokeParams{ID: sessionID})
	return err
}

type SessionService struct {
	revoker  SessionRevoker
	registry *session.Registry
	log      *zap.Logger
}

func NewSessionService(revoker SessionRevoker, registry *session.Registry, log *zap.Logger) *SessionService {
	return &SessionService{
		revoker:  revoker,
		registry: registry,
		log:      log,
	}
}

// SignOut tears the session down locally and at the identity provider. The
// local teardown always happens; a failed remote revoke is only logged since
// the registry already refuses the session id.
func (s *SessionService) SignOut(ctx context.Context, sess *session.Session) {
	s.registry.Close(sess.ID)

	if sess.ID == "" {
		return
	}
	if err := s.revoker.Revoke(ctx, sess.ID); err != nil {
		s.log.Warn("failed to revoke session at identity provider",
			zap.String("session_id", sess.ID),
			zap.String("user_id", sess.UserID),
			zap.Error(err),
		)
	}
}

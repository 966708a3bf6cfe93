package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"fitChallengeAPI/internal/session"
)

// TokenVerifier checks a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (userID, sessionID string, err error)
}

type ClerkVerifier struct{}

func (ClerkVerifier) Verify(ctx context.Context, token string) (string, string, error) {
	claims, err := jwt.Verify(ctx, &jwt.VerifyParams{
		Token: token,
	})
	if err != nil {
		return "", "", err
	}
	return claims.Subject, claims.SessionID, nil
}

// ClerkAuthMiddleware verifies the bearer token, opens the caller's session
// in the registry and hands it down in the request context. Signed-out
// sessions are refused even while their token is still valid.
func ClerkAuthMiddleware(verifier TokenVerifier, registry *session.Registry, log *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondWithError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == authHeader {
				respondWithError(w, http.StatusUnauthorized, "Invalid authorization format. Use 'Bearer <token>'")
				return
			}

			userID, sessionID, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Debug("token verification failed", zap.Error(err))
				respondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			sess, err := registry.Open(sessionID, userID)
			if err != nil {
				if errors.Is(err, session.ErrClosed) {
					respondWithError(w, http.StatusUnauthorized, "Session has been signed out")
					return
				}
				respondWithError(w, http.StatusInternalServerError, "Failed to open session")
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	body, _ := json.Marshal(map[string]string{"error": message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body)
}

package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"relief-coordination-backend/internal/domain"
	"relief-coordination-backend/internal/logger"
)

type contextKey string

const sessionKey contextKey = "session"

// authenticate verifies the bearer token and attaches the resolved session
// to the request context. Session tokens minted by /api/session are checked
// first; raw identity-provider tokens still work as a fallback.
// Authorization decisions stay in the services.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		session := s.resolveSession(r.Context(), token)
		if session == nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey, *session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) resolveSession(ctx context.Context, token string) *domain.Session {
	if claims, err := s.tokens.ValidateToken(token); err == nil {
		session := claims.Session()
		return &session
	}
	if session, err := s.verifier.Verify(ctx, token); err == nil {
		return session
	}
	return nil
}

func sessionFrom(r *http.Request) domain.Session {
	session, _ := r.Context().Value(sessionKey).(domain.Session)
	return session
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

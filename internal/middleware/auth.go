package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/cancerguard-api/internal/session"
)

// SessionLoader resolves the request's session cookie to a user id.
type SessionLoader interface {
	Load(c *gin.Context) (int64, error)
}

type AuthMiddleware struct {
	sessions SessionLoader
}

func NewAuthMiddleware(sessions SessionLoader) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate rejects requests without a live session before any handler
// runs, so unauthenticated calls never have side effects.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := m.sessions.Load(c)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				log.Error().Err(err).Str("request_id", c.GetString(ContextRequestID)).Msg("Session lookup failed")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Unauthorized"})
			return
		}
		session.SetUserID(c, userID)
		c.Next()
	}
}

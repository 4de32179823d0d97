package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/gardenwatch/internal/auth/domain"
	"github.com/smallbiznis/gardenwatch/internal/authorization"
	"github.com/smallbiznis/gardenwatch/internal/cache"
	obscontext "github.com/smallbiznis/gardenwatch/internal/observability/context"
	"go.uber.org/zap"
)

const contextSessionKey = "session_context"

// SessionContext is the per-request view of the signed-in user and the
// read caches owned by their browser session.
type SessionContext struct {
	Session *authdomain.Session
	User    *authdomain.User
	Slots   *cache.Slots
}

func (sc *SessionContext) SessionID() string {
	return sc.Session.ID.String()
}

// LoadSession resolves the session cookie when present. Anonymous requests pass through.
func (s *Server) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			c.Next()
			return
		}

		sess, user, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !isSessionError(err) {
				s.log.Warn("session lookup failed", zap.Error(err))
			}
			s.sessions.Clear(c)
			c.Next()
			return
		}

		sc := &SessionContext{
			Session: sess,
			User:    user,
			Slots:   s.caches.Get(sess.ID.String()),
		}
		c.Set(contextSessionKey, sc)
		ctx := obscontext.WithUserID(c.Request.Context(), user.ID.String())
		c.Request = c.Request.WithContext(obscontext.WithSessionID(ctx, sc.SessionID()))
		c.Next()
	}
}

func sessionFrom(c *gin.Context) (*SessionContext, bool) {
	v, ok := c.Get(contextSessionKey)
	if !ok {
		return nil, false
	}
	sc, ok := v.(*SessionContext)
	return sc, ok && sc != nil
}

// WebAuthRequired redirects anonymous form posts back to the dashboard.
func (s *Server) WebAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessionFrom(c); !ok {
			s.setFlash(c, flashError, "Please sign in first.")
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) APIAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessionFrom(c); !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func (s *Server) authorizeAction(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sc, ok := sessionFrom(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		actor := authorization.Actor{UserID: sc.User.ID, Role: sc.User.Role}
		if err := s.authzSvc.Authorize(c.Request.Context(), actor, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

func isSessionError(err error) bool {
	return errors.Is(err, authdomain.ErrInvalidSession) ||
		errors.Is(err, authdomain.ErrSessionExpired) ||
		errors.Is(err, authdomain.ErrSessionRevoked)
}

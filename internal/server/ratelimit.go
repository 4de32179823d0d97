package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gardenwatch/internal/ratelimit"
	"go.uber.org/zap"
)

const (
	actionSignIn = "sign_in"
	actionSignUp = "sign_up"
)

// AuthRateLimit rejects credential posts once the client address runs out of tokens.
// A limiter backend failure lets the request through.
func (s *Server) AuthRateLimit(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}

		var (
			res *ratelimit.RateLimitResult
			err error
		)
		switch action {
		case actionSignUp:
			res, err = s.limiter.AllowSignUp(c.Request.Context(), c.ClientIP())
		default:
			res, err = s.limiter.AllowSignIn(c.Request.Context(), c.ClientIP())
		}
		if err != nil {
			s.log.Warn("rate limiter unavailable", zap.String("action", action), zap.Error(err))
			c.Next()
			return
		}
		if res.Allowed {
			c.Next()
			return
		}

		s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), c.FullPath(), action)
		if res.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
		}
		if wantsJSON(c) {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		s.setFlash(c, flashError, userMessage(ErrTooManyRequests))
		c.Redirect(http.StatusSeeOther, "/")
		c.Abort()
	}
}

func wantsJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON || c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

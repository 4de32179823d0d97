package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/gardenwatch/internal/auth/domain"
	"go.uber.org/zap"
)

type credentialsForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (s *Server) Login(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		s.redirectWithFlash(c, flashError, userMessage(ErrInvalidRequest))
		return
	}

	result, err := s.authsvc.SignIn(c.Request.Context(), authdomain.SignInRequest{
		Email:     strings.TrimSpace(form.Email),
		Password:  form.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		s.logActionError(c, "sign in failed", err)
		s.redirectWithFlash(c, flashError, userMessage(err))
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	s.redirectWithFlash(c, flashSuccess, "Signed in as "+result.Email+".")
}

func (s *Server) Register(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBind(&form); err != nil {
		s.redirectWithFlash(c, flashError, userMessage(ErrInvalidRequest))
		return
	}

	result, err := s.authsvc.SignUp(c.Request.Context(), authdomain.SignUpRequest{
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	})
	if err != nil {
		s.logActionError(c, "sign up failed", err)
		s.redirectWithFlash(c, flashError, userMessage(err))
		return
	}

	if result.VerificationRequired {
		s.redirectWithFlash(c, flashInfo, "Account created. Check "+result.User.Email+" for a confirmation link, then sign in.")
		return
	}
	s.redirectWithFlash(c, flashSuccess, "Account created. You can sign in now.")
}

func (s *Server) Logout(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if ok {
		if err := s.authsvc.SignOut(c.Request.Context(), token); err != nil && !isSessionError(err) {
			s.logActionError(c, "sign out failed", err)
		}
	}
	if sc, ok := sessionFrom(c); ok {
		s.caches.Remove(sc.SessionID())
	}

	s.sessions.Clear(c)
	s.redirectWithFlash(c, flashInfo, "Signed out.")
}

func (s *Server) VerifyEmail(c *gin.Context) {
	user, err := s.authsvc.VerifyEmail(c.Request.Context(), c.Query("token"))
	if err != nil {
		if !errors.Is(err, authdomain.ErrInvalidVerification) {
			s.logActionError(c, "email verification failed", err)
		}
		s.redirectWithFlash(c, flashError, userMessage(err))
		return
	}
	s.redirectWithFlash(c, flashSuccess, "Email "+user.Email+" confirmed. You can sign in now.")
}

// logActionError logs store failures; expected user errors are only recorded on the context.
func (s *Server) logActionError(c *gin.Context, msg string, err error) {
	_ = c.Error(err)
	status, _ := mapError(err)
	if status < http.StatusInternalServerError {
		return
	}
	s.log.Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
}

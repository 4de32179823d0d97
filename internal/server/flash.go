package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const flashCookieName = "_flash"

const (
	flashSuccess = "success"
	flashError   = "error"
	flashInfo    = "info"
)

type flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// setFlash stores a one-shot message shown after the next redirect.
func (s *Server) setFlash(c *gin.Context, kind, message string) {
	raw, err := json.Marshal(flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, base64.RawURLEncoding.EncodeToString(raw), 60, "/", "", s.cfg.AuthCookieSecure, true)
}

// popFlash reads and clears the pending message.
func (s *Server) popFlash(c *gin.Context) *flash {
	value, err := c.Cookie(flashCookieName)
	if err != nil || value == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, "", -1, "/", "", s.cfg.AuthCookieSecure, true)
	return decodeFlash(value)
}

func decodeFlash(value string) *flash {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var f flash
	if err := json.Unmarshal(raw, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}

func (s *Server) redirectWithFlash(c *gin.Context, kind, message string) {
	s.setFlash(c, kind, message)
	c.Redirect(http.StatusSeeOther, "/")
}

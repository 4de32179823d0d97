package server

import (
	"fmt"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	keyworddomain "github.com/smallbiznis/gardenwatch/internal/keyword/domain"
)

// SaveSubscriptions replaces the selection with the submitted keyword ids.
// The limit check inside Save always reads fresh state, never the session caches.
func (s *Server) SaveSubscriptions(c *gin.Context) {
	sc, _ := sessionFrom(c)
	ctx := c.Request.Context()

	keywords, err := s.keywordSvc.Resolve(ctx, c.PostFormArray("keyword_ids"))
	if err != nil {
		s.logActionError(c, "resolve keywords failed", err)
		s.redirectWithFlash(c, flashError, userMessage(err))
		return
	}

	result, err := s.subscriptionSvc.Save(ctx, sc.User.ID, keywordIDs(keywords))
	// Partial writes still changed the stored set.
	sc.Slots.ClearSubscriptions()
	if err != nil {
		s.logActionError(c, "save subscriptions failed", err)
		s.redirectWithFlash(c, flashError, userMessage(err))
		return
	}

	if !result.Changed() {
		s.redirectWithFlash(c, flashInfo, "No changes to save.")
		return
	}
	s.redirectWithFlash(c, flashSuccess, fmt.Sprintf(
		"Subscriptions saved: %d added, %d removed. You are watching %d of %d keywords.",
		len(result.Added), len(result.Removed), len(result.Current), result.Limit,
	))
}

func (s *Server) RefreshSubscriptions(c *gin.Context) {
	sc, _ := sessionFrom(c)
	sc.Slots.ClearKeywords()
	sc.Slots.ClearSubscriptions()
	s.redirectWithFlash(c, flashInfo, "Keywords and subscriptions reloaded.")
}

func (s *Server) ClearCache(c *gin.Context) {
	sc, _ := sessionFrom(c)
	sc.Slots.ClearAll()
	s.setFlash(c, flashInfo, "All cached data cleared.")
	c.Redirect(http.StatusSeeOther, "/?info=1")
}

func keywordIDs(keywords []keyworddomain.Keyword) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(keywords))
	for _, kw := range keywords {
		ids = append(ids, kw.ID)
	}
	return ids
}

package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type meResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	Role           string `json:"role"`
	NotificationID string `json:"notification_id,omitempty"`
	KeywordLimit   int    `json:"keyword_limit"`
}

type notificationIDRequest struct {
	NotificationID string `json:"notification_id"`
}

type subscriptionsRequest struct {
	KeywordIDs []string `json:"keyword_ids"`
}

type subscriptionsResponse struct {
	KeywordIDs []string `json:"keyword_ids"`
	Limit      int      `json:"limit"`
	Added      []string `json:"added,omitempty"`
	Removed    []string `json:"removed,omitempty"`
}

func (s *Server) APIMe(c *gin.Context) {
	sc, _ := sessionFrom(c)
	ctx := c.Request.Context()

	profile, err := s.loadProfile(ctx, sc)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	limit, err := s.milestoneSvc.EffectiveLimit(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, meResponse{
		ID:             sc.User.ID.String(),
		Email:          sc.User.Email,
		DisplayName:    sc.User.DisplayName(),
		Role:           sc.User.Role,
		NotificationID: profile.NotificationID(),
		KeywordLimit:   limit,
	})
}

func (s *Server) APISetNotificationID(c *gin.Context) {
	sc, _ := sessionFrom(c)

	var req notificationIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	profile, err := s.profileSvc.SetNotificationID(c.Request.Context(), sc.User.ID, req.NotificationID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	sc.Slots.ClearNotificationID()

	c.JSON(http.StatusOK, gin.H{"notification_id": profile.NotificationID()})
}

func (s *Server) APIListKeywords(c *gin.Context) {
	ctx := c.Request.Context()
	if sc, ok := sessionFrom(c); ok {
		items, err := s.loadKeywords(ctx, sc)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": items})
		return
	}

	items, err := s.keywordSvc.List(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) APIListSubscriptions(c *gin.Context) {
	sc, _ := sessionFrom(c)
	ctx := c.Request.Context()

	current, err := s.loadSubscriptions(ctx, sc)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	limit, err := s.milestoneSvc.EffectiveLimit(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscriptionsResponse{KeywordIDs: idStrings(current), Limit: limit})
}

func (s *Server) APISaveSubscriptions(c *gin.Context) {
	sc, _ := sessionFrom(c)
	ctx := c.Request.Context()

	var req subscriptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	keywords, err := s.keywordSvc.Resolve(ctx, req.KeywordIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.subscriptionSvc.Save(ctx, sc.User.ID, keywordIDs(keywords))
	sc.Slots.ClearSubscriptions()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscriptionsResponse{
		KeywordIDs: idStrings(result.Current),
		Limit:      result.Limit,
		Added:      idStrings(result.Added),
		Removed:    idStrings(result.Removed),
	})
}

func (s *Server) APICommunityProgress(c *gin.Context) {
	progress, err := s.milestoneSvc.Progress(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func idStrings(ids []snowflake.ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

package server

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gardenwatch/internal/cache"
	keyworddomain "github.com/smallbiznis/gardenwatch/internal/keyword/domain"
	profiledomain "github.com/smallbiznis/gardenwatch/internal/profile/domain"
	"go.uber.org/zap"
)

type keywordOption struct {
	ID       string
	Name     string
	Selected bool
}

type dashboardView struct {
	Flash          *flash
	SignedIn       bool
	Greeting       string
	NotificationID string
	Options        []keywordOption
	Selected       []string
	Limit          int
	ShowInfo       bool
	Stats          cache.Stats
	CachedSessions int
}

func (s *Server) Dashboard(c *gin.Context) {
	view := dashboardView{Flash: s.popFlash(c)}

	sc, ok := sessionFrom(c)
	if !ok {
		c.HTML(http.StatusOK, "dashboard.html", view)
		return
	}

	ctx := c.Request.Context()
	view.SignedIn = true
	view.Greeting = sc.User.DisplayName()

	profile, err := s.loadProfile(ctx, sc)
	if err != nil {
		s.renderDashboardError(c, view, err)
		return
	}
	view.NotificationID = profile.NotificationID()

	keywords, err := s.loadKeywords(ctx, sc)
	if err != nil {
		s.renderDashboardError(c, view, err)
		return
	}
	current, err := s.loadSubscriptions(ctx, sc)
	if err != nil {
		s.renderDashboardError(c, view, err)
		return
	}
	view.Options, view.Selected = keywordOptions(keywords, current)

	limit, err := s.milestoneSvc.EffectiveLimit(ctx)
	if err != nil {
		s.renderDashboardError(c, view, err)
		return
	}
	view.Limit = limit

	if c.Query("info") == "1" {
		view.ShowInfo = true
		view.Stats = sc.Slots.Stats()
		view.CachedSessions = s.caches.Len()
	}

	c.HTML(http.StatusOK, "dashboard.html", view)
}

func (s *Server) renderDashboardError(c *gin.Context, view dashboardView, err error) {
	s.log.Error("dashboard load failed", zap.Error(err))
	_ = c.Error(err)
	view.Flash = &flash{Kind: flashError, Message: userMessage(err)}
	c.HTML(http.StatusInternalServerError, "dashboard.html", view)
}

func (s *Server) loadKeywords(ctx context.Context, sc *SessionContext) ([]keyworddomain.Keyword, error) {
	return sc.Slots.Keywords.Load(func() ([]keyworddomain.Keyword, error) {
		return s.keywordSvc.List(ctx)
	})
}

func (s *Server) loadSubscriptions(ctx context.Context, sc *SessionContext) ([]snowflake.ID, error) {
	return sc.Slots.Subscriptions.Load(func() ([]snowflake.ID, error) {
		return s.subscriptionSvc.Current(ctx, sc.User.ID)
	})
}

func (s *Server) loadProfile(ctx context.Context, sc *SessionContext) (profiledomain.Profile, error) {
	return sc.Slots.NotificationID.Load(func() (profiledomain.Profile, error) {
		p, err := s.profileSvc.Get(ctx, sc.User.ID)
		if err != nil {
			return profiledomain.Profile{}, err
		}
		return *p, nil
	})
}

// keywordOptions marks the current selection; subscribed ids missing from the catalog are skipped.
func keywordOptions(keywords []keyworddomain.Keyword, current []snowflake.ID) ([]keywordOption, []string) {
	selected := make(map[snowflake.ID]struct{}, len(current))
	for _, id := range current {
		selected[id] = struct{}{}
	}

	options := make([]keywordOption, 0, len(keywords))
	names := make([]string, 0, len(current))
	for _, kw := range keywords {
		_, on := selected[kw.ID]
		options = append(options, keywordOption{ID: kw.ID.String(), Name: kw.Name, Selected: on})
		if on {
			names = append(names, kw.Name)
		}
	}
	return options, names
}

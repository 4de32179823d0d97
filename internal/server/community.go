package server

import (
	"html/template"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	milestonedomain "github.com/smallbiznis/gardenwatch/internal/milestone/domain"
)

var templateFuncs = template.FuncMap{
	"percent": func(progress float64) int {
		return int(math.Round(progress * 100))
	},
}

type communityView struct {
	Progress *milestonedomain.Progress
	Next     *milestonedomain.Status
	SignedIn bool
}

func (s *Server) Community(c *gin.Context) {
	progress, err := s.milestoneSvc.Progress(c.Request.Context())
	if err != nil {
		s.logActionError(c, "community progress failed", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": userMessage(err)})
		return
	}

	_, signedIn := sessionFrom(c)
	view := communityView{Progress: progress, SignedIn: signedIn}
	if next, ok := progress.Next(); ok {
		view.Next = &next
	}
	c.HTML(http.StatusOK, "community.html", view)
}

func (s *Server) About(c *gin.Context) {
	_, signedIn := sessionFrom(c)
	c.HTML(http.StatusOK, "about.html", gin.H{"SignedIn": signedIn})
}

package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) SaveNotificationID(c *gin.Context) {
	sc, _ := sessionFrom(c)

	profile, err := s.profileSvc.SetNotificationID(c.Request.Context(), sc.User.ID, c.PostForm("notification_id"))
	if err != nil {
		s.logActionError(c, "save notification id failed", err)
		s.redirectWithFlash(c, flashError, userMessage(err))
		return
	}

	sc.Slots.ClearNotificationID()
	s.redirectWithFlash(c, flashSuccess, "Notification ID saved: "+profile.NotificationID()+".")
}

func (s *Server) RefreshProfile(c *gin.Context) {
	sc, _ := sessionFrom(c)
	sc.Slots.ClearNotificationID()
	s.redirectWithFlash(c, flashInfo, "Profile reloaded.")
}

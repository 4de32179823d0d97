package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	keyworddomain "github.com/smallbiznis/gardenwatch/internal/keyword/domain"
	milestonedomain "github.com/smallbiznis/gardenwatch/internal/milestone/domain"
)

func (s *Server) AdminCreateKeyword(c *gin.Context) {
	var req keyworddomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	kw, err := s.keywordSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, kw)
}

func (s *Server) AdminDeleteKeyword(c *gin.Context) {
	if err := s.keywordSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) AdminUpsertMilestone(c *gin.Context) {
	var req milestonedomain.UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	m, err := s.milestoneSvc.Upsert(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) AdminDeleteMilestone(c *gin.Context) {
	threshold, err := strconv.ParseInt(strings.TrimSpace(c.Param("threshold")), 10, 64)
	if err != nil {
		AbortWithError(c, milestonedomain.ErrInvalidThreshold)
		return
	}
	if err := s.milestoneSvc.Delete(c.Request.Context(), threshold); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) GetCards(c *gin.Context) {
	resp, err := s.dashboardSvc.CardSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRevenue(c *gin.Context) {
	resp, err := s.dashboardSvc.Revenue(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

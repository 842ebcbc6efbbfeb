package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getMainIndices returns the headline market index snapshots. The whole
// payload depends on one upstream call, so its failure is a server fault;
// upstream details are not leaked to the caller.
func (s *Server) getMainIndices(c *gin.Context) {
	indices, err := s.indices.MainIndices(c.Request.Context())
	if err != nil {
		s.logger.Error("Failed to fetch market indices", zap.Error(err))
		c.JSON(500, gin.H{"message": "failed to fetch market indices"})
		return
	}
	c.JSON(200, indices)
}

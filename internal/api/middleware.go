package api

import (
	"errors"
	"strings"
	"time"

	"github.com/Pinaka1289/stock-tracker-app-working/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const currentUserKey = "currentUser"

// CORS allows the browser frontend to call the API from another origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// requestLogger tags every request with an id and writes one access-log line.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("requestID", requestID)

		c.Next()

		s.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

// authRequired resolves the bearer token to a user row and aborts with one
// uniform 401 on any failure. A bad token and a token for a deleted user must
// be indistinguishable from the outside.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			s.abortUnauthorized(c)
			return
		}

		subject, err := s.tokens.Verify(tokenString)
		if err != nil {
			s.abortUnauthorized(c)
			return
		}

		// Re-resolve the user on every request so account-state changes
		// take effect without token revocation.
		var user models.User
		if err := s.db.Where("email = ?", subject).First(&user).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("User lookup failed during authentication", zap.Error(err))
			}
			s.abortUnauthorized(c)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func (s *Server) abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(401, gin.H{"message": "could not validate credentials"})
}

// currentUser returns the user resolved by authRequired.
func currentUser(c *gin.Context) models.User {
	return c.MustGet(currentUserKey).(models.User)
}

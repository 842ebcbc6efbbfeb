package api

import (
	"errors"

	"github.com/Pinaka1289/stock-tracker-app-working/internal/auth"
	"github.com/Pinaka1289/stock-tracker-app-working/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loginRequest struct {
	Username string `form:"username" binding:"required"` // email, per the OAuth2 password-form convention
	Password string `form:"password" binding:"required"`
}

// login authenticates by email and password and returns a bearer token.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, gin.H{"message": "username and password are required"})
		return
	}

	var user models.User
	err := s.db.Where("email = ?", req.Username).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("User lookup failed during login", zap.Error(err))
		}
		c.JSON(400, gin.H{"message": "invalid credentials"})
		return
	}
	if !auth.CheckPassword(req.Password, user.Password) {
		c.JSON(400, gin.H{"message": "invalid credentials"})
		return
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		c.JSON(500, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(200, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"username":     user.Username,
	})
}

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// signup registers a new account and fires the welcome mail in the background.
func (s *Server) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"message": "invalid signup payload: " + err.Error()})
		return
	}

	var existing models.User
	err := s.db.Where("username = ? OR email = ?", req.Username, req.Email).First(&existing).Error
	if err == nil {
		c.JSON(400, gin.H{"message": "a user with that username or email already exists"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("User lookup failed during signup", zap.Error(err))
		c.JSON(500, gin.H{"message": "internal server error"})
		return
	}

	digest, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		c.JSON(500, gin.H{"message": "internal server error"})
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: digest,
	}
	if err := s.db.Create(&user).Error; err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		c.JSON(500, gin.H{"message": "an error occurred while creating user"})
		return
	}

	// Fire-and-forget; a mail outage must not fail the signup.
	go s.mailer.SendRegistration(user.Email, user.Username)

	c.JSON(201, gin.H{
		"username": user.Username,
		"email":    user.Email,
	})
}

// getUser returns a user's profile along with their trade entries.
func (s *Server) getUser(c *gin.Context) {
	username := c.Param("username")

	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(404, gin.H{"message": "user with username '" + username + "' not found"})
			return
		}
		s.logger.Error("User lookup failed", zap.Error(err))
		c.JSON(500, gin.H{"message": "internal server error"})
		return
	}

	var trades []models.TradeEntry
	if err := s.db.Where("user_id = ?", user.UserID).Find(&trades).Error; err != nil {
		s.logger.Error("Trade lookup failed", zap.Error(err))
		c.JSON(500, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(200, gin.H{
		"username":      user.Username,
		"email":         user.Email,
		"trade_entries": trades,
	})
}

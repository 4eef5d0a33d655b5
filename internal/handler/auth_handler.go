package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomkit/roombook/internal/middleware"
	"github.com/roomkit/roombook/internal/service"
	"github.com/roomkit/roombook/internal/session"
	"github.com/roomkit/roombook/pkg/logger"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	cookies     *session.CookieManager
}

func NewAuthHandler(authService *service.AuthService, cookies *session.CookieManager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
	}
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a new pending account. No session is issued; the
// user signs in explicitly once registered.
// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Signup request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	logger.Log.Info("Signup attempt",
		zap.String("email", req.Email),
		zap.String("ip", c.ClientIP()),
	)

	user, err := h.authService.Signup(req.Email, req.Password, req.Name)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created, pending approval",
		"user": gin.H{
			"id":     user.ID,
			"email":  user.Email,
			"name":   user.Name,
			"role":   user.Role,
			"status": user.Status,
		},
	})
}

// Login authenticates and sets the session cookie.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Login request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		serviceError(c, err)
		return
	}

	h.cookies.Set(c, token, h.authService.TokenTTL())

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":     user.ID,
			"email":  user.Email,
			"name":   user.Name,
			"role":   user.Role,
			"status": user.Status,
		},
	})
}

// Logout revokes the current token and clears the cookie. Always 200:
// logging out an already-dead session is not an error.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authService.Logout(c.Request.Context(), h.cookies.Token(c))
	h.cookies.Clear(c)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the resolved caller, or null when anonymous. Read-only
// convenience for the front-end's auth status widget.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":     user.ID,
			"email":  user.Email,
			"name":   user.Name,
			"role":   user.Role,
			"status": user.Status,
		},
	})
}

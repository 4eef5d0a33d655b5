package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomkit/roombook/internal/models"
	"github.com/roomkit/roombook/internal/service"
	"github.com/roomkit/roombook/internal/session"
)

const currentUserKey = "current_user"

// Authenticate resolves the caller from the session cookie and stashes
// the user in the request context. It never aborts: an anonymous or
// invalid session simply leaves no user, and the Require* gates decide
// what that means per route.
func Authenticate(authService *service.AuthService, cookies *session.CookieManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookies.Token(c)
		if token != "" {
			if user := authService.CurrentUser(c.Request.Context(), token); user != nil {
				c.Set(currentUserKey, user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the resolved caller, or nil when anonymous.
func CurrentUser(c *gin.Context) *models.User {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := val.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// RequireUser aborts with 401 when no valid session resolved.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 401 for anonymous callers and 403 for
// authenticated non-admins.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}
		if user.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomkit/roombook/internal/oauth"
	"github.com/roomkit/roombook/internal/service"
	"github.com/roomkit/roombook/internal/session"
	"github.com/roomkit/roombook/pkg/logger"
	"go.uber.org/zap"
)

// One-time cookies carrying the OAuth handshake between the redirect
// and the callback.
const (
	stateCookie    = "g_state"
	verifierCookie = "g_code_verifier"
	handshakeTTL   = 600 // seconds
)

type OAuthHandler struct {
	google      *oauth.GoogleClient
	authService *service.AuthService
	cookies     *session.CookieManager
}

func NewOAuthHandler(google *oauth.GoogleClient, authService *service.AuthService, cookies *session.CookieManager) *OAuthHandler {
	return &OAuthHandler{
		google:      google,
		authService: authService,
		cookies:     cookies,
	}
}

// Begin starts the Google sign-in: stores state + PKCE verifier in
// short-lived cookies and redirects to the consent page.
// GET /api/auth/google
func (h *OAuthHandler) Begin(c *gin.Context) {
	if !h.google.Enabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	state, err := oauth.NewState()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	verifier, err := oauth.NewCodeVerifier()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, handshakeTTL, "/", "", h.authService.IsProduction(), true)
	c.SetCookie(verifierCookie, verifier, handshakeTTL, "/", "", h.authService.IsProduction(), true)

	c.Redirect(http.StatusFound, h.google.AuthURL(state, verifier))
}

// Callback finishes the flow: verifies state, exchanges the code,
// fetches the profile, upserts the account and sets the session cookie.
// GET /api/auth/google/callback
func (h *OAuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	savedState, _ := c.Cookie(stateCookie)
	verifier, _ := c.Cookie(verifierCookie)

	// Handshake cookies are one-time; clear them regardless of outcome
	c.SetCookie(stateCookie, "", -1, "/", "", h.authService.IsProduction(), true)
	c.SetCookie(verifierCookie, "", -1, "/", "", h.authService.IsProduction(), true)

	if code == "" || state == "" || savedState == "" || verifier == "" || state != savedState {
		logger.Log.Warn("OAuth state mismatch", zap.String("ip", c.ClientIP()))
		c.Redirect(http.StatusFound, "/auth/error?reason=oauth_state")
		return
	}

	accessToken, err := h.google.Exchange(c.Request.Context(), code, verifier)
	if err != nil {
		logger.Log.Error("OAuth code exchange failed", zap.Error(err))
		c.Redirect(http.StatusFound, "/auth/error?reason=token_exchange")
		return
	}

	profile, err := h.google.Userinfo(c.Request.Context(), accessToken)
	if err != nil {
		logger.Log.Error("OAuth userinfo fetch failed", zap.Error(err))
		c.Redirect(http.StatusFound, "/auth/error?reason=userinfo")
		return
	}

	user, token, err := h.authService.OAuthLogin(profile.Email, profile.Name)
	if err != nil {
		logger.Log.Error("OAuth login failed",
			zap.String("email", profile.Email),
			zap.Error(err),
		)
		c.Redirect(http.StatusFound, "/auth/error?reason=signin")
		return
	}

	h.cookies.Set(c, token, h.authService.TokenTTL())

	logger.Log.Info("OAuth login successful",
		zap.String("user_id", user.ID.String()),
	)

	c.Redirect(http.StatusFound, "/")
}

package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieManager sets and clears the session token cookie. No business
// logic lives here; it is a boundary adapter around gin's cookie API.
type CookieManager struct {
	name   string
	secure bool
}

func NewCookieManager(name string, secure bool) *CookieManager {
	return &CookieManager{name: name, secure: secure}
}

// Set attaches the token as an HTTP-only, SameSite=Lax cookie on the
// root path. Lax rather than Strict so the OAuth redirect keeps the
// session.
func (m *CookieManager) Set(c *gin.Context, token string, maxAge time.Duration) {
	m.setCookie(c, token, int(maxAge.Seconds()))
}

// Clear overwrites the cookie with an empty value and immediate expiry.
func (m *CookieManager) Clear(c *gin.Context) {
	m.setCookie(c, "", -1)
}

// Token reads the session token from the request, or "" when absent.
func (m *CookieManager) Token(c *gin.Context) string {
	token, err := c.Cookie(m.name)
	if err != nil {
		return ""
	}
	return token
}

// Name returns the configured cookie name.
func (m *CookieManager) Name() string {
	return m.name
}

func (m *CookieManager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		m.name,
		value,
		maxAge,
		"/",      // path
		"",       // domain (empty = current domain)
		m.secure, // secure (HTTPS-only in production)
		true,     // httpOnly, always for session cookies
	)
}

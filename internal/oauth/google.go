// Package oauth implements the server side of the Google sign-in flow:
// building the consent URL (authorization code + PKCE), exchanging the
// code for tokens and fetching the userinfo profile. The redirect dance
// itself happens in the browser; the provider is an external collaborator.
package oauth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	authEndpoint     = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenEndpoint    = "https://oauth2.googleapis.com/token"
	userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	ErrExchangeFailed = errors.New("oauth code exchange failed")
	ErrUserinfoFailed = errors.New("oauth userinfo fetch failed")
	ErrNoEmail        = errors.New("oauth profile has no email")
)

// Profile is the slice of the provider's userinfo the service needs.
type Profile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type GoogleClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	http         *http.Client
}

func NewGoogleClient(clientID, clientSecret, appBaseURL string) *GoogleClient {
	return &GoogleClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  strings.TrimRight(appBaseURL, "/") + "/api/auth/google/callback",
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether credentials are configured.
func (c *GoogleClient) Enabled() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// RedirectURI returns the registered callback URL.
func (c *GoogleClient) RedirectURI() string {
	return c.redirectURI
}

// NewState returns a random URL-safe state value.
func NewState() (string, error) {
	return randomToken(16)
}

// NewCodeVerifier returns a PKCE code verifier.
func NewCodeVerifier() (string, error) {
	return randomToken(32)
}

// CodeChallenge derives the S256 challenge from a verifier.
func CodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// AuthURL builds the consent page URL for the given state and verifier.
func (c *GoogleClient) AuthURL(state, verifier string) string {
	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", c.redirectURI)
	q.Set("response_type", "code")
	q.Set("scope", "openid email profile")
	q.Set("state", state)
	q.Set("code_challenge", CodeChallenge(verifier))
	q.Set("code_challenge_method", "S256")
	return authEndpoint + "?" + q.Encode()
}

// Exchange trades an authorization code for an access token.
func (c *GoogleClient) Exchange(ctx context.Context, code, verifier string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", c.redirectURI)
	form.Set("code_verifier", verifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", ErrExchangeFailed
	}
	return body.AccessToken, nil
}

// Userinfo fetches the profile for an access token.
func (c *GoogleClient) Userinfo(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUserinfoFailed, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if strings.TrimSpace(profile.Email) == "" {
		return nil, ErrNoEmail
	}
	return &profile, nil
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

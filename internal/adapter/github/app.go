// Package github adapts the code-host port to the GitHub API: App
// authentication, pull request retrieval, and review publication.
package github

import (
	"context"
	"crypto/rsa"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

const (
	// appJWTLifetime is the App JWT expiry; GitHub caps it at ten minutes.
	appJWTLifetime = 10 * time.Minute

	// appJWTBackdate guards against clock skew between us and GitHub by
	// issuing the JWT slightly in the past.
	appJWTBackdate = 60 * time.Second
)

// ParsePrivateKey parses a PEM-encoded GitHub App private key.
func ParsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parse app private key: %w", err)
	}
	return key, nil
}

// AppAuth signs GitHub App JWTs and exchanges them for short-lived
// installation tokens. Installation tokens are minted per review and never
// cached; GitHub handles rotation.
type AppAuth struct {
	appID   int64
	key     *rsa.PrivateKey
	baseURL string
	now     func() time.Time
}

// NewAppAuth constructs an authenticator for the given App ID and key.
func NewAppAuth(appID int64, key *rsa.PrivateKey) *AppAuth {
	return &AppAuth{
		appID: appID,
		key:   key,
		now:   time.Now,
	}
}

// SetBaseURL points authentication at a GitHub Enterprise instance or a test
// server.
func (a *AppAuth) SetBaseURL(url string) {
	a.baseURL = url
}

// AppJWT returns a signed RS256 JWT identifying the App itself.
func (a *AppAuth) AppJWT() (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(a.appID, 10),
		IssuedAt:  jwt.NewNumericDate(now.Add(-appJWTBackdate)),
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTLifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("sign app jwt: %w", err)
	}
	return signed, nil
}

// InstallationToken exchanges the App JWT for an installation access token.
func (a *AppAuth) InstallationToken(ctx context.Context, installationID int64) (string, error) {
	appJWT, err := a.AppJWT()
	if err != nil {
		return "", err
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: appJWT}))
	client := gh.NewClient(httpClient)
	if a.baseURL != "" {
		client, err = client.WithEnterpriseURLs(a.baseURL, a.baseURL)
		if err != nil {
			return "", fmt.Errorf("configure api base url: %w", err)
		}
	}

	token, _, err := client.Apps.CreateInstallationToken(ctx, installationID, nil)
	if err != nil {
		return "", fmt.Errorf("create installation token for %d: %w", installationID, err)
	}
	return token.GetToken(), nil
}

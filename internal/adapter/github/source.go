package github

import (
	"context"

	"github.com/pullguard/pullguard/internal/usecase/review"
)

// Source mints review.SourceClient instances, exchanging app credentials for
// a fresh installation token per review.
type Source struct {
	auth    *AppAuth
	baseURL string
}

// NewSource wires a source over the given App authenticator. baseURL is
// empty for github.com.
func NewSource(auth *AppAuth, baseURL string) *Source {
	return &Source{auth: auth, baseURL: baseURL}
}

// ForTarget satisfies review.SourceFactory.
func (s *Source) ForTarget(ctx context.Context, target review.Target) (review.SourceClient, error) {
	token, err := s.auth.InstallationToken(ctx, target.InstallationID)
	if err != nil {
		return nil, err
	}
	return NewClient(ctx, token, s.baseURL, target.Owner, target.Repo, target.Number)
}

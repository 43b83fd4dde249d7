package review

import (
	"context"
	"fmt"

	"github.com/pullguard/pullguard/internal/domain"
)

// Target identifies one pull request to review.
type Target struct {
	Owner          string
	Repo           string
	Number         int
	InstallationID int64
}

func (t Target) String() string {
	return fmt.Sprintf("%s/%s#%d", t.Owner, t.Repo, t.Number)
}

// SourceClient is the outbound port to the code host, scoped to one pull
// request and authenticated for one installation.
type SourceClient interface {
	FetchContext(ctx context.Context) (domain.PullRequestContext, error)
	FetchDiff(ctx context.Context) (string, error)
	ListChangedFiles(ctx context.Context) ([]domain.ChangedFile, error)
	PublishReview(ctx context.Context, headSHA string, review domain.AggregateReview) error
}

// SourceFactory mints a SourceClient for a target. Minting typically
// exchanges app credentials for a fresh installation token, so a new client
// is created per review rather than cached.
type SourceFactory func(ctx context.Context, target Target) (SourceClient, error)

// Service runs the end-to-end review flow for one pull request.
type Service struct {
	source       SourceFactory
	orchestrator *Orchestrator
	logger       Logger
}

// NewService wires the review service.
func NewService(source SourceFactory, orchestrator *Orchestrator, logger Logger) *Service {
	return &Service{
		source:       source,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// Run fetches the pull request, analyzes it, and publishes the review.
// Fetch and publish failures are returned; analysis itself never fails.
func (s *Service) Run(ctx context.Context, target Target) error {
	client, err := s.source(ctx, target)
	if err != nil {
		return fmt.Errorf("authenticate for %s: %w", target, err)
	}

	pr, err := client.FetchContext(ctx)
	if err != nil {
		return fmt.Errorf("fetch pull request %s: %w", target, err)
	}

	diffText, err := client.FetchDiff(ctx)
	if err != nil {
		return fmt.Errorf("fetch diff for %s: %w", target, err)
	}

	files, err := client.ListChangedFiles(ctx)
	if err != nil {
		return fmt.Errorf("list changed files for %s: %w", target, err)
	}

	if s.logger != nil {
		s.logger.LogInfo(ctx, "starting review", map[string]interface{}{
			"target":     target.String(),
			"title":      pr.Title,
			"files":      len(files),
			"diff_bytes": len(diffText),
		})
	}

	review := s.orchestrator.PerformReview(ctx, diffText, pr, files)

	if err := client.PublishReview(ctx, pr.HeadSHA, review); err != nil {
		return fmt.Errorf("publish review for %s: %w", target, err)
	}

	if s.logger != nil {
		s.logger.LogInfo(ctx, "review published", map[string]interface{}{
			"target":   target.String(),
			"comments": len(review.Comments),
		})
	}
	return nil
}

package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/pullguard/pullguard/internal/domain"
)

const reviewEventComment = "COMMENT"

// Client operates on one pull request with an installation-scoped token. It
// implements the review usecase's SourceClient port.
type Client struct {
	gh     *gh.Client
	owner  string
	repo   string
	number int
}

// NewClient builds a pull-request-scoped client from an installation token.
// baseURL is empty for github.com.
func NewClient(ctx context.Context, token, baseURL, owner, repo string, number int) (*Client, error) {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client := gh.NewClient(httpClient)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("configure api base url: %w", err)
		}
	}

	return &Client{gh: client, owner: owner, repo: repo, number: number}, nil
}

// FetchContext retrieves the pull request metadata needed for review.
func (c *Client) FetchContext(ctx context.Context) (domain.PullRequestContext, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, c.number)
	if err != nil {
		return domain.PullRequestContext{}, fmt.Errorf("get pull request: %w", err)
	}

	return domain.PullRequestContext{
		Title:   pr.GetTitle(),
		Author:  pr.GetUser().GetLogin(),
		BaseRef: pr.GetBase().GetRef(),
		HeadRef: pr.GetHead().GetRef(),
		HeadSHA: pr.GetHead().GetSHA(),
	}, nil
}

// FetchDiff retrieves the unified diff of the pull request.
func (c *Client) FetchDiff(ctx context.Context) (string, error) {
	diff, _, err := c.gh.PullRequests.GetRaw(ctx, c.owner, c.repo, c.number, gh.RawOptions{Type: gh.Diff})
	if err != nil {
		return "", fmt.Errorf("get pull request diff: %w", err)
	}
	return diff, nil
}

// ListChangedFiles retrieves all changed files, following pagination.
func (c *Client) ListChangedFiles(ctx context.Context) ([]domain.ChangedFile, error) {
	var files []domain.ChangedFile
	opts := &gh.ListOptions{PerPage: 100}

	for {
		page, resp, err := c.gh.PullRequests.ListFiles(ctx, c.owner, c.repo, c.number, opts)
		if err != nil {
			return nil, fmt.Errorf("list changed files: %w", err)
		}
		for _, f := range page {
			files = append(files, domain.ChangedFile{
				Path:      f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Patch:     f.GetPatch(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return files, nil
}

// PublishReview posts the aggregate review as a single COMMENT review on the
// pull request, anchored to headSHA.
func (c *Client) PublishReview(ctx context.Context, headSHA string, review domain.AggregateReview) error {
	comments := make([]*gh.DraftReviewComment, 0, len(review.Comments))
	for _, s := range review.Comments {
		comments = append(comments, &gh.DraftReviewComment{
			Path: gh.String(s.Path),
			Line: gh.Int(s.Line),
			Side: gh.String(s.Side),
			Body: gh.String(s.Body),
		})
	}

	request := &gh.PullRequestReviewRequest{
		CommitID: gh.String(headSHA),
		Body:     gh.String(review.Body),
		Event:    gh.String(reviewEventComment),
		Comments: comments,
	}

	if _, _, err := c.gh.PullRequests.CreateReview(ctx, c.owner, c.repo, c.number, request); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

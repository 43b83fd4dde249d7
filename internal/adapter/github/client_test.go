package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gh "github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullguard/pullguard/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(context.Background(), "test-token", server.URL, "octo", "repo", 42)
	require.NoError(t, err)
	return client, server
}

func TestFetchContext(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/repos/octo/repo/pulls/42", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "test-token")
		w.Write([]byte(`{
			"title": "Add retry logic",
			"user": {"login": "octocat"},
			"base": {"ref": "main"},
			"head": {"ref": "feature/retry", "sha": "abc123"}
		}`))
	}))

	pr, err := client.FetchContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PullRequestContext{
		Title:   "Add retry logic",
		Author:  "octocat",
		BaseRef: "main",
		HeadRef: "feature/retry",
		HeadSHA: "abc123",
	}, pr)
}

func TestFetchDiff(t *testing.T) {
	const rawDiff = "@@ -1,1 +1,2 @@\n context\n+added\n"
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/repos/octo/repo/pulls/42", r.URL.Path)
		require.Contains(t, r.Header.Get("Accept"), "diff")
		w.Write([]byte(rawDiff))
	}))

	diff, err := client.FetchDiff(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rawDiff, diff)
}

func TestListChangedFiles_FollowsPagination(t *testing.T) {
	var server *httptest.Server
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/repos/octo/repo/pulls/42/files", r.URL.Path)
		if r.URL.Query().Get("page") == "" {
			w.Header().Set("Link", `<`+server.URL+`/api/v3/repos/octo/repo/pulls/42/files?page=2>; rel="next"`)
			w.Write([]byte(`[{"filename": "a.go", "status": "modified", "additions": 2, "deletions": 1, "patch": "@@ -1 +1 @@"}]`))
			return
		}
		w.Write([]byte(`[{"filename": "b.go", "status": "added", "additions": 5, "deletions": 0, "patch": "@@ -0,0 +1,5 @@"}]`))
	})
	client, srv := newTestClient(t, handler)
	server = srv

	files, err := client.ListChangedFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.go", files[0].Path)
	assert.Equal(t, domain.FileStatusModified, files[0].Status)
	assert.Equal(t, "b.go", files[1].Path)
	assert.Equal(t, 5, files[1].Additions)
}

func TestPublishReview_BuildsCommentReview(t *testing.T) {
	var captured gh.PullRequestReviewRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v3/repos/octo/repo/pulls/42/reviews", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"id": 1}`))
	}))

	review := domain.AggregateReview{
		Body: "## Review body",
		Comments: []domain.InlineSuggestion{
			{Path: "main.go", Line: 3, Side: domain.CommentSideNew, Body: "consider a named constant"},
		},
	}

	require.NoError(t, client.PublishReview(context.Background(), "abc123", review))

	assert.Equal(t, "abc123", captured.GetCommitID())
	assert.Equal(t, "## Review body", captured.GetBody())
	assert.Equal(t, "COMMENT", captured.GetEvent())
	require.Len(t, captured.Comments, 1)
	assert.Equal(t, "main.go", captured.Comments[0].GetPath())
	assert.Equal(t, 3, captured.Comments[0].GetLine())
	assert.Equal(t, "RIGHT", captured.Comments[0].GetSide())
}

func TestPublishReview_NoSuggestionsSendsBodyOnly(t *testing.T) {
	var captured gh.PullRequestReviewRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"id": 1}`))
	}))

	review := domain.AggregateReview{Body: "clean", Comments: []domain.InlineSuggestion{}}
	require.NoError(t, client.PublishReview(context.Background(), "sha", review))
	assert.Empty(t, captured.Comments)
}

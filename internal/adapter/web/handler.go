package web

import (
	"context"
	"encoding/json"
	"net/http"

	gh "github.com/google/go-github/v57/github"

	"github.com/pullguard/pullguard/internal/usecase/review"
	"github.com/pullguard/pullguard/internal/version"
)

// reviewableActions are the pull_request actions that trigger a review.
var reviewableActions = map[string]bool{
	"opened":      true,
	"synchronize": true,
	"reopened":    true,
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "pullguard",
		"version": version.Value(),
	})
}

// handleWebhook validates the delivery signature, filters for reviewable
// pull_request actions, and acknowledges with 202 before the review runs.
// The review itself happens on a background goroutine with its own timeout
// so slow model calls never stall GitHub's delivery pipeline.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := gh.ValidatePayload(r, s.secret)
	if err != nil {
		s.warn(r.Context(), "webhook signature validation failed", map[string]interface{}{"error": err.Error()})
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := gh.ParseWebHook(gh.WebHookType(r), payload)
	if err != nil {
		http.Error(w, "unparseable payload", http.StatusBadRequest)
		return
	}

	prEvent, ok := event.(*gh.PullRequestEvent)
	if !ok || !reviewableActions[prEvent.GetAction()] {
		w.WriteHeader(http.StatusOK)
		return
	}

	target := review.Target{
		Owner:          prEvent.GetRepo().GetOwner().GetLogin(),
		Repo:           prEvent.GetRepo().GetName(),
		Number:         prEvent.GetPullRequest().GetNumber(),
		InstallationID: prEvent.GetInstallation().GetID(),
	}

	go s.runReview(target)

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) runReview(target review.Target) {
	ctx, cancel := context.WithTimeout(context.Background(), s.reviewTimeout)
	defer cancel()

	if err := s.reviewer.Run(ctx, target); err != nil {
		s.warn(ctx, "review failed", map[string]interface{}{
			"target": target.String(),
			"error":  err.Error(),
		})
	}
}

func (s *Server) warn(ctx context.Context, message string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.LogWarning(ctx, message, fields)
	}
}

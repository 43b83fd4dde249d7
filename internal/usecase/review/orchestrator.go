// Package review orchestrates pull request analysis: it truncates the diff to
// budget, fans the analysis agents out concurrently, collects inline
// suggestions, and assembles a single aggregate review.
package review

import (
	"context"
	"fmt"
	"sync"

	"github.com/pullguard/pullguard/internal/domain"
)

// Analyzer is one analysis agent. Review is total; agents absorb their own
// model failures and report a placeholder finding instead.
type Analyzer interface {
	Name() string
	Review(ctx context.Context, diffText string, pr domain.PullRequestContext) domain.AgentFinding
}

// Suggester produces inline suggestions for the changed files. It is total:
// generation failures yield fewer suggestions, never an error.
type Suggester interface {
	Generate(ctx context.Context, files []domain.ChangedFile) []domain.InlineSuggestion
}

// Logger is the minimal structured-logging port of this package.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

// OrchestratorDeps carries the orchestrator's collaborators. Analyzers run
// concurrently but their findings appear in the report in slice order.
type OrchestratorDeps struct {
	Analyzers       []Analyzer
	Suggester       Suggester
	Logger          Logger
	DiffTokenBudget int
}

// Orchestrator runs the full analysis pipeline for one pull request.
type Orchestrator struct {
	analyzers []Analyzer
	suggester Suggester
	logger    Logger
	budget    int
}

// NewOrchestrator constructs an orchestrator, applying the default diff
// budget when none is configured.
func NewOrchestrator(deps OrchestratorDeps) *Orchestrator {
	budget := deps.DiffTokenBudget
	if budget <= 0 {
		budget = DefaultDiffTokenBudget
	}
	return &Orchestrator{
		analyzers: deps.Analyzers,
		suggester: deps.Suggester,
		logger:    deps.Logger,
		budget:    budget,
	}
}

// PerformReview analyzes the pull request and returns the aggregate review.
// It never fails: an infrastructure fault degrades the result to a review
// explaining that analysis was unavailable.
func (o *Orchestrator) PerformReview(ctx context.Context, diffText string, pr domain.PullRequestContext, files []domain.ChangedFile) (result domain.AggregateReview) {
	defer func() {
		if r := recover(); r != nil {
			o.warn(ctx, "review pipeline fault", map[string]interface{}{"panic": fmt.Sprint(r)})
			result = degradedReview(fmt.Errorf("review pipeline fault: %v", r))
		}
	}()

	truncated := TruncateDiff(diffText, o.budget)
	if truncated.Truncated {
		o.warn(ctx, "diff truncated for analysis", map[string]interface{}{
			"budget_tokens":    o.budget,
			"original_bytes":   len(diffText),
			"truncated_bytes":  len(truncated.Text),
			"estimated_tokens": EstimateTokens(diffText),
		})
	}

	findings := make([]domain.AgentFinding, len(o.analyzers))
	var agentFault error
	var faultMu sync.Mutex
	var wg sync.WaitGroup
	for i, analyzer := range o.analyzers {
		wg.Add(1)
		go func(i int, analyzer Analyzer) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					faultMu.Lock()
					agentFault = fmt.Errorf("analyzer %s panicked: %v", analyzer.Name(), r)
					faultMu.Unlock()
				}
			}()
			findings[i] = analyzer.Review(ctx, truncated.Text, pr)
		}(i, analyzer)
	}
	wg.Wait()

	if agentFault != nil {
		o.warn(ctx, "review pipeline fault", map[string]interface{}{"error": agentFault.Error()})
		return degradedReview(agentFault)
	}

	suggestions := []domain.InlineSuggestion{}
	if o.suggester != nil {
		if generated := o.suggester.Generate(ctx, files); generated != nil {
			suggestions = generated
		}
	}

	if o.logger != nil {
		o.logger.LogInfo(ctx, "review assembled", map[string]interface{}{
			"agents":      len(findings),
			"suggestions": len(suggestions),
			"truncated":   truncated.Truncated,
		})
	}

	return domain.AggregateReview{
		Body:     buildReport(pr, findings, truncated.Truncated),
		Comments: suggestions,
	}
}

func (o *Orchestrator) warn(ctx context.Context, message string, fields map[string]interface{}) {
	if o.logger != nil {
		o.logger.LogWarning(ctx, message, fields)
	}
}

// degradedReview is posted when the pipeline itself failed. It carries no
// inline comments and names the failure so the PR is not silently skipped.
func degradedReview(err error) domain.AggregateReview {
	body := reportTitle + "\n\n" +
		"Automated review was unavailable for this pull request: " + err.Error() + "\n"
	return domain.AggregateReview{
		Body:     body,
		Comments: []domain.InlineSuggestion{},
	}
}

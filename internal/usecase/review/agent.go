package review

import (
	"context"
	"fmt"

	"github.com/pullguard/pullguard/internal/domain"
)

// CompleteFunc is the outbound port to the analysis model: one single-turn
// completion call. The anthropic and static clients satisfy it with their
// Complete method.
type CompleteFunc func(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error)

// PlaceholderFinding is the body substituted for an agent whose model call
// failed. The report still carries the agent's section, so the reader sees
// which analysis is missing rather than a hole.
const PlaceholderFinding = "_Analysis temporarily unavailable._"

const defaultAgentMaxTokens = 1024

// AgentSpec configures one analysis agent: its section name, the
// instructions embedded in the request, and the sampling temperature. The
// three agents share one implementation and differ only in spec.
type AgentSpec struct {
	Name         string
	System       string
	Instructions string
	Temperature  float64
}

// DefaultSpecs returns the three built-in agents in report order.
// Security runs at temperature 0 for maximal determinism; quality and
// performance use a moderate value favoring consistency with some variation.
func DefaultSpecs() []AgentSpec {
	return []AgentSpec{
		{
			Name:   "quality",
			System: "You are a senior software engineer reviewing a pull request for code quality.",
			Instructions: "Review the following diff for code quality: readability, naming, " +
				"duplication, error handling, and test coverage. Report the most important " +
				"issues as concise markdown bullet points. If the change looks clean, say so briefly.",
			Temperature: 0.3,
		},
		{
			Name:   "security",
			System: "You are a security engineer reviewing a pull request for vulnerabilities.",
			Instructions: "Review the following diff for security problems: injection, unsafe " +
				"input handling, secrets in code, authentication or authorization mistakes, and " +
				"unsafe dependencies. Report findings as concise markdown bullet points with the " +
				"affected file and line where possible. If nothing stands out, say so briefly.",
			Temperature: 0.0,
		},
		{
			Name:   "performance",
			System: "You are a performance engineer reviewing a pull request.",
			Instructions: "Review the following diff for performance concerns: unnecessary " +
				"allocations, N+1 calls, blocking work on hot paths, and inefficient data " +
				"structures. Report the most impactful issues as concise markdown bullet points. " +
				"If nothing stands out, say so briefly.",
			Temperature: 0.3,
		},
	}
}

// Agent runs one analysis pass over a diff. Its Review method is total: any
// fault from the model call is absorbed here and converted into a placeholder
// finding, so the orchestrator can always assemble a complete report.
type Agent struct {
	spec      AgentSpec
	complete  CompleteFunc
	maxTokens int
	logger    Logger
}

// NewAgent constructs an agent for the given spec and completion port.
func NewAgent(spec AgentSpec, complete CompleteFunc) *Agent {
	return &Agent{
		spec:      spec,
		complete:  complete,
		maxTokens: defaultAgentMaxTokens,
	}
}

// SetMaxTokens overrides the response-length ceiling.
func (a *Agent) SetMaxTokens(n int) {
	if n > 0 {
		a.maxTokens = n
	}
}

// SetLogger wires structured logging for absorbed failures.
func (a *Agent) SetLogger(logger Logger) {
	a.logger = logger
}

// Name returns the agent's section name.
func (a *Agent) Name() string {
	return a.spec.Name
}

// Review analyzes the diff and returns a finding. It never returns an error:
// failures yield the placeholder finding for this agent's section.
func (a *Agent) Review(ctx context.Context, diffText string, pr domain.PullRequestContext) domain.AgentFinding {
	prompt := a.buildPrompt(diffText, pr)

	text, err := a.complete(ctx, a.spec.System, prompt, a.spec.Temperature, a.maxTokens)
	if err != nil || text == "" {
		if a.logger != nil {
			fields := map[string]interface{}{"agent": a.spec.Name}
			if err != nil {
				fields["error"] = err.Error()
			}
			a.logger.LogWarning(ctx, "analysis agent call failed", fields)
		}
		return domain.AgentFinding{AgentName: a.spec.Name, Markdown: PlaceholderFinding}
	}

	return domain.AgentFinding{AgentName: a.spec.Name, Markdown: text}
}

func (a *Agent) buildPrompt(diffText string, pr domain.PullRequestContext) string {
	return fmt.Sprintf(
		"%s\n\nPull request: %s\nAuthor: %s\nBranch: %s -> %s\n\nDiff:\n```diff\n%s\n```",
		a.spec.Instructions, pr.Title, pr.Author, pr.HeadRef, pr.BaseRef, diffText,
	)
}

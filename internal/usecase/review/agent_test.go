package review

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullguard/pullguard/internal/domain"
)

func TestDefaultSpecs(t *testing.T) {
	specs := DefaultSpecs()
	require.Len(t, specs, 3)

	assert.Equal(t, "quality", specs[0].Name)
	assert.Equal(t, "security", specs[1].Name)
	assert.Equal(t, "performance", specs[2].Name)

	// Security runs deterministic; the other two allow mild variation.
	assert.Zero(t, specs[1].Temperature)
	assert.InDelta(t, 0.3, specs[0].Temperature, 1e-9)
	assert.InDelta(t, 0.3, specs[2].Temperature, 1e-9)
}

func TestAgentReview_PassesSpecParameters(t *testing.T) {
	var gotSystem, gotPrompt string
	var gotTemperature float64
	complete := func(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
		gotSystem = system
		gotPrompt = prompt
		gotTemperature = temperature
		return "finding text", nil
	}

	spec := DefaultSpecs()[1]
	agent := NewAgent(spec, complete)
	pr := domain.PullRequestContext{Title: "Add cache", Author: "octocat", BaseRef: "main", HeadRef: "feature"}

	finding := agent.Review(context.Background(), "+cache line", pr)

	assert.Equal(t, "security", finding.AgentName)
	assert.Equal(t, "finding text", finding.Markdown)
	assert.Equal(t, spec.System, gotSystem)
	assert.Zero(t, gotTemperature)
	assert.Contains(t, gotPrompt, "+cache line")
	assert.Contains(t, gotPrompt, "Add cache")
	assert.Contains(t, gotPrompt, "octocat")
}

func TestAgentReview_FailureYieldsPlaceholder(t *testing.T) {
	complete := func(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
		return "", errors.New("rate limited")
	}

	agent := NewAgent(DefaultSpecs()[0], complete)
	finding := agent.Review(context.Background(), "diff", domain.PullRequestContext{})

	assert.Equal(t, "quality", finding.AgentName)
	assert.Equal(t, PlaceholderFinding, finding.Markdown)
}

func TestAgentReview_EmptyResponseYieldsPlaceholder(t *testing.T) {
	complete := func(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
		return "", nil
	}

	agent := NewAgent(DefaultSpecs()[2], complete)
	finding := agent.Review(context.Background(), "diff", domain.PullRequestContext{})
	assert.Equal(t, PlaceholderFinding, finding.Markdown)
}

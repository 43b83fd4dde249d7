// Package suggest generates inline, line-anchored improvement suggestions for
// the changed files of a pull request. Every suggestion is validated against
// the file's patch so it can only anchor to a line the code host will accept.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	llmhttp "github.com/pullguard/pullguard/internal/adapter/llm/http"
	"github.com/pullguard/pullguard/internal/diff"
	"github.com/pullguard/pullguard/internal/domain"
)

// CompleteFunc is the outbound port to the suggestion model; the anthropic
// and static clients satisfy it with their Complete method.
type CompleteFunc func(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error)

// Logger is the minimal logging port of this package.
type Logger interface {
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
}

const (
	// DefaultMaxFiles caps how many changed files are considered, in their
	// original order, to bound cost on large pull requests.
	DefaultMaxFiles = 5

	suggestTemperature = 0.2
	suggestMaxTokens   = 512

	suggestSystem = "You are a code reviewer proposing small, concrete improvements to a diff. " +
		"Respond only with a JSON array."
)

// suggestionRecord is the model's wire shape for one candidate suggestion.
type suggestionRecord struct {
	Line       int    `json:"line"`
	Suggestion string `json:"suggestion"`
}

// Generator produces inline suggestions for changed files. Generate is total:
// model or parse failures for one file skip that file and never abort the run.
type Generator struct {
	complete CompleteFunc
	maxFiles int
	logger   Logger
}

// NewGenerator constructs a generator with the default file cap.
func NewGenerator(complete CompleteFunc) *Generator {
	return &Generator{
		complete: complete,
		maxFiles: DefaultMaxFiles,
	}
}

// SetMaxFiles overrides the changed-file cap.
func (g *Generator) SetMaxFiles(n int) {
	if n > 0 {
		g.maxFiles = n
	}
}

// SetLogger wires structured logging for skipped files.
func (g *Generator) SetLogger(logger Logger) {
	g.logger = logger
}

// Generate returns validated inline suggestions for up to maxFiles changed
// files. Candidates anchored to lines outside the file's valid set are
// silently discarded, and duplicate (path, line) anchors keep the first
// occurrence only.
func (g *Generator) Generate(ctx context.Context, files []domain.ChangedFile) []domain.InlineSuggestion {
	suggestions := []domain.InlineSuggestion{}

	limit := len(files)
	if limit > g.maxFiles {
		limit = g.maxFiles
	}

	seen := make(map[string]bool)
	for _, file := range files[:limit] {
		if !file.ReviewableInline() {
			continue
		}
		validLines := diff.ValidNewLines(file.Patch)
		if len(validLines) == 0 {
			continue
		}

		text, err := g.complete(ctx, suggestSystem, buildPrompt(file, validLines), suggestTemperature, suggestMaxTokens)
		if err != nil {
			g.warn(ctx, "suggestion call failed", file.Path, err)
			continue
		}

		records, err := parseSuggestions(text)
		if err != nil {
			g.warn(ctx, "suggestion response unparseable", file.Path, err)
			continue
		}

		for _, record := range records {
			if !diff.Contains(validLines, record.Line) {
				continue
			}
			key := file.Path + ":" + strconv.Itoa(record.Line)
			if seen[key] {
				continue
			}
			seen[key] = true
			suggestions = append(suggestions, domain.InlineSuggestion{
				Path: file.Path,
				Line: record.Line,
				Side: domain.CommentSideNew,
				Body: record.Suggestion,
			})
		}
	}

	return suggestions
}

func (g *Generator) warn(ctx context.Context, message, path string, err error) {
	if g.logger != nil {
		g.logger.LogWarning(ctx, message, map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}

func buildPrompt(file domain.ChangedFile, validLines []int) string {
	lines := make([]string, len(validLines))
	for i, n := range validLines {
		lines[i] = strconv.Itoa(n)
	}

	return fmt.Sprintf(
		"Propose at most two concrete improvements for this changed file.\n"+
			"File: %s\n"+
			"You may only anchor a suggestion to one of these new-file line numbers: %s\n\n"+
			"Patch:\n```diff\n%s\n```\n\n"+
			`Respond with a JSON array of objects shaped like {"line": <number>, "suggestion": "<text>"}. `+
			"Respond with [] if nothing is worth suggesting.",
		file.Path, strings.Join(lines, ", "), file.Patch,
	)
}

// parseSuggestions decodes the model response, stripping a markdown code
// fence when present.
func parseSuggestions(text string) ([]suggestionRecord, error) {
	payload := llmhttp.ExtractJSONPayload(text)

	var records []suggestionRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return records, nil
}

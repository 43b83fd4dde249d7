package review

import "github.com/pullguard/pullguard/internal/domain"

// DefaultDiffTokenBudget is the approximate token ceiling for the diff text
// sent to the analysis agents.
const DefaultDiffTokenBudget = 6000

// EstimateTokens approximates the token count of text as len/4. The
// approximation is deliberately simple so truncation decisions are
// reproducible without a tokenizer dependency in the usecase layer.
func EstimateTokens(text string) int {
	return len(text) / 4
}

// TruncateDiff returns the diff unchanged when it fits within budget tokens,
// otherwise a prefix of budget*4 bytes with the Truncated flag set.
func TruncateDiff(diffText string, budget int) domain.TruncatedDiff {
	if budget <= 0 {
		budget = DefaultDiffTokenBudget
	}
	if EstimateTokens(diffText) <= budget {
		return domain.TruncatedDiff{Text: diffText, Truncated: false}
	}
	return domain.TruncatedDiff{Text: diffText[:budget*4], Truncated: true}
}

package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("abcd"))
	assert.Equal(t, 1, EstimateTokens("abcdefg"))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("x", 100)))
}

func TestTruncateDiff_WithinBudgetUnchanged(t *testing.T) {
	text := strings.Repeat("x", 40) // exactly 10 estimated tokens
	got := TruncateDiff(text, 10)
	assert.False(t, got.Truncated)
	assert.Equal(t, text, got.Text)
}

func TestTruncateDiff_OverBudgetCutsToBudget(t *testing.T) {
	text := strings.Repeat("x", 100)
	got := TruncateDiff(text, 10)
	assert.True(t, got.Truncated)
	assert.Len(t, got.Text, 40)
}

func TestTruncateDiff_ZeroBudgetUsesDefault(t *testing.T) {
	small := "tiny"
	got := TruncateDiff(small, 0)
	assert.False(t, got.Truncated)
	assert.Equal(t, small, got.Text)
}

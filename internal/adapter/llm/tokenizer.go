// Package llm provides the analysis-model client adapters.
package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	defaultEncoder *tiktoken.Tiktoken
	encoderOnce    sync.Once
	encoderErr     error
)

// getEncoder returns the shared tiktoken encoder, initializing it lazily.
// cl100k_base is a reasonable approximation for modern models.
func getEncoder() (*tiktoken.Tiktoken, error) {
	encoderOnce.Do(func() {
		defaultEncoder, encoderErr = tiktoken.GetEncoding("cl100k_base")
	})
	return defaultEncoder, encoderErr
}

// EstimateTokens returns an estimated token count for the given text. Used
// for request accounting in logs; the review size budget uses its own
// character-based estimate and is not affected by this value.
func EstimateTokens(text string) int {
	enc, err := getEncoder()
	if err != nil {
		// Character-based fallback if the encoding data is unavailable.
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// Package observability bridges the LLM-call logger into the usecase logging
// ports, so the whole service shares one log sink.
package observability

import (
	"context"

	llmhttp "github.com/pullguard/pullguard/internal/adapter/llm/http"
)

// ReviewLogger adapts an llm Logger to the review and suggest usecase
// logging ports.
type ReviewLogger struct {
	logger llmhttp.Logger
}

// NewReviewLogger wraps the given logger.
func NewReviewLogger(logger llmhttp.Logger) *ReviewLogger {
	return &ReviewLogger{logger: logger}
}

// LogInfo forwards an informational event.
func (l *ReviewLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogInfo(ctx, message, fields)
}

// LogWarning forwards a warning event.
func (l *ReviewLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogWarning(ctx, message, fields)
}

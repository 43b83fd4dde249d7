package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactAPIKey(t *testing.T) {
	l := NewDefaultLogger(LogLevelInfo, LogFormatHuman, true)

	assert.Equal(t, "[REDACTED-6789]", l.RedactAPIKey("sk-123456789"))
	assert.Equal(t, "[REDACTED]", l.RedactAPIKey("abc"))
	assert.Equal(t, "[REDACTED]", l.RedactAPIKey(""))
}

func TestRedactAPIKey_Disabled(t *testing.T) {
	l := NewDefaultLogger(LogLevelInfo, LogFormatHuman, false)

	assert.Equal(t, "sk-123456789", l.RedactAPIKey("sk-123456789"))
}

func TestFormatFields(t *testing.T) {
	assert.Equal(t, "", formatFields(nil))
	assert.Equal(t, " pr=7", formatFields(map[string]interface{}{"pr": 7}))
}

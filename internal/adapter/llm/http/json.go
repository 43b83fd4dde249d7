package http

import (
	"regexp"
	"strings"
)

// jsonBlockRegex matches a fenced code block, greedily to the last closing
// fence so JSON payloads that themselves contain fenced code examples survive
// extraction intact.
var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*([\\s\\S]*)```")

// ExtractJSONPayload returns the inner payload of a fenced code block, or the
// trimmed original text when no fence is present. Model responses arrive in
// both encodings; callers parse the result as JSON either way.
func ExtractJSONPayload(text string) string {
	matches := jsonBlockRegex.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return strings.TrimSpace(text)
}

package suggest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pullguard/pullguard/internal/domain"
)

const simplePatch = "@@ -1,2 +1,3 @@\n context\n+added line\n-removed line\n"

func changedFile(path string) domain.ChangedFile {
	return domain.ChangedFile{Path: path, Status: domain.FileStatusModified, Patch: simplePatch}
}

func fixedResponse(text string) CompleteFunc {
	return func(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
		return text, nil
	}
}

func TestGenerate_AcceptsValidLines(t *testing.T) {
	// Lines 1 and 2 are valid for simplePatch; 99 is not in the new file.
	gen := NewGenerator(fixedResponse(`[{"line": 2, "suggestion": "use a constant"}, {"line": 99, "suggestion": "out of range"}]`))

	got := gen.Generate(context.Background(), []domain.ChangedFile{changedFile("main.go")})

	require.Len(t, got, 1)
	assert.Equal(t, "main.go", got[0].Path)
	assert.Equal(t, 2, got[0].Line)
	assert.Equal(t, domain.CommentSideNew, got[0].Side)
	assert.Equal(t, "use a constant", got[0].Body)
}

func TestGenerate_CapsConsideredFiles(t *testing.T) {
	var calls int
	complete := func(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
		calls++
		return "[]", nil
	}

	files := make([]domain.ChangedFile, 7)
	for i := range files {
		files[i] = changedFile(fmt.Sprintf("file%d.go", i))
	}

	NewGenerator(complete).Generate(context.Background(), files)
	assert.Equal(t, DefaultMaxFiles, calls)
}

func TestGenerate_SkipsIneligibleFiles(t *testing.T) {
	var calls int
	complete := func(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
		calls++
		return "[]", nil
	}

	files := []domain.ChangedFile{
		{Path: "gone.go", Status: domain.FileStatusRemoved, Patch: simplePatch},
		{Path: "binary.png", Status: domain.FileStatusModified, Patch: ""},
		{Path: "deletes-only.go", Status: domain.FileStatusModified, Patch: "@@ -1,2 +1,1 @@\n keep\n-gone\n"},
	}

	got := NewGenerator(complete).Generate(context.Background(), files)
	assert.Empty(t, got)
	// deletes-only has no valid new lines, so no call is made for it either.
	assert.Equal(t, 0, calls)
}

func TestGenerate_HandlesFencedJSON(t *testing.T) {
	response := "```json\n[{\"line\": 1, \"suggestion\": \"rename variable\"}]\n```"
	gen := NewGenerator(fixedResponse(response))

	got := gen.Generate(context.Background(), []domain.ChangedFile{changedFile("a.go")})
	require.Len(t, got, 1)
	assert.Equal(t, "rename variable", got[0].Body)
}

func TestGenerate_MalformedResponseSkipsFileOnly(t *testing.T) {
	var calls int
	complete := func(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
		calls++
		if calls == 1 {
			return "not json at all", nil
		}
		return `[{"line": 1, "suggestion": "ok"}]`, nil
	}

	files := []domain.ChangedFile{changedFile("bad.go"), changedFile("good.go")}
	got := NewGenerator(complete).Generate(context.Background(), files)

	require.Len(t, got, 1)
	assert.Equal(t, "good.go", got[0].Path)
}

func TestGenerate_ModelErrorSkipsFileOnly(t *testing.T) {
	var calls int
	complete := func(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("overloaded")
		}
		return `[{"line": 2, "suggestion": "ok"}]`, nil
	}

	files := []domain.ChangedFile{changedFile("first.go"), changedFile("second.go")}
	got := NewGenerator(complete).Generate(context.Background(), files)

	require.Len(t, got, 1)
	assert.Equal(t, "second.go", got[0].Path)
}

func TestGenerate_DeduplicatesAnchors(t *testing.T) {
	response := `[{"line": 1, "suggestion": "first wins"}, {"line": 1, "suggestion": "second loses"}]`
	gen := NewGenerator(fixedResponse(response))

	got := gen.Generate(context.Background(), []domain.ChangedFile{changedFile("a.go")})
	require.Len(t, got, 1)
	assert.Equal(t, "first wins", got[0].Body)
}

func TestGenerate_PromptCarriesValidLines(t *testing.T) {
	var gotPrompt string
	complete := func(ctx context.Context, system, prompt string, temperature float64, maxTokens int) (string, error) {
		gotPrompt = prompt
		return "[]", nil
	}

	NewGenerator(complete).Generate(context.Background(), []domain.ChangedFile{changedFile("a.go")})
	assert.Contains(t, gotPrompt, "1, 2")
	assert.Contains(t, gotPrompt, "a.go")
	assert.Contains(t, gotPrompt, simplePatch)
}

func TestGenerate_NoFilesReturnsEmptyNotNil(t *testing.T) {
	got := NewGenerator(fixedResponse("[]")).Generate(context.Background(), nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

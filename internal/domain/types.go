package domain

// Changed-file statuses as reported by the pull request API.
const (
	FileStatusAdded    = "added"
	FileStatusModified = "modified"
	FileStatusRemoved  = "removed"
	FileStatusRenamed  = "renamed"
)

// CommentSideNew anchors an inline comment to the new side of the diff.
const CommentSideNew = "RIGHT"

// PullRequestContext is the immutable PR metadata a review runs against.
// It is created once per incoming event and read-only thereafter.
type PullRequestContext struct {
	Title   string
	Author  string
	BaseRef string
	HeadRef string
	HeadSHA string
}

// ChangedFile describes one file touched by a pull request.
// Patch holds the unified-diff hunk text for the file; it is empty when the
// API omits it (binary files, very large files).
type ChangedFile struct {
	Path      string
	Status    string
	Additions int
	Deletions int
	Patch     string
}

// ReviewableInline reports whether the file can carry inline comments.
// Removed files and files without patch text have nothing addressable in the
// new version of the file.
func (f ChangedFile) ReviewableInline() bool {
	return f.Status != FileStatusRemoved && f.Patch != ""
}

// TruncatedDiff is the one-way result of applying the diff size budget.
// The original text is never mutated in place.
type TruncatedDiff struct {
	Text      string
	Truncated bool
}

// AgentFinding is the output of a single analysis agent. The type is total:
// a failed agent call still yields a finding carrying placeholder text, so a
// report can always be assembled.
type AgentFinding struct {
	AgentName string
	Markdown  string
}

// InlineSuggestion is a review comment anchored to a line in the new version
// of a file. Line must be a member of the file's valid line set; candidates
// failing that check never become InlineSuggestions.
type InlineSuggestion struct {
	Path string
	Line int
	Side string
	Body string
}

// AggregateReview is the terminal artifact of a review run: the markdown body
// plus the ordered inline suggestions. Ownership transfers to the publisher
// once produced.
type AggregateReview struct {
	Body     string
	Comments []InlineSuggestion
}

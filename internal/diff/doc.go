// Package diff maps unified-diff hunk text to commentable line numbers in the
// new version of a file. It is deliberately narrow: it is not a general diff
// parser, only the line bookkeeping needed to anchor inline review comments.
package diff

package diff

import (
	"strconv"
	"strings"
)

// ValidNewLines returns every line number in the new version of the file that
// an inline comment can anchor to: added lines and unchanged context lines.
// The input is one file's patch text and may contain multiple @@ hunks.
//
// The scan keeps a cursor over new-file line numbers:
//   - an @@ header resets the cursor to the hunk's new-range start
//   - a '+' line (not the '+++' file header) emits the cursor, then advances
//   - a ' ' context line emits the cursor, then advances
//   - a '-' line (not '---') exists only in the old file: no emit, no advance
//   - anything else ("\ No newline at end of file" etc.) is ignored entirely
//
// A patch with no hunk headers, or with only deletions, yields nil: nothing in
// the new file is addressable. The function is pure; identical input yields an
// identical sequence.
func ValidNewLines(patch string) []int {
	if patch == "" {
		return nil
	}

	var (
		lines       []int
		currentLine int
		inHunk      bool
	)

	for _, line := range strings.Split(patch, "\n") {
		if strings.HasPrefix(line, "@@") {
			if start, ok := parseNewStart(line); ok {
				currentLine = start
				inHunk = true
			}
			continue
		}
		if !inHunk {
			continue
		}

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			// File headers, not hunk content.
		case strings.HasPrefix(line, "+"), strings.HasPrefix(line, " "):
			lines = append(lines, currentLine)
			currentLine++
		case strings.HasPrefix(line, "-"):
			// Deleted line: present only in the old file.
		default:
			// "\ No newline" markers and blank trailing lines.
		}
	}

	return lines
}

// Contains reports whether target is in the valid line set. The sets are small
// (bounded by patch size), so a linear scan is fine.
func Contains(lines []int, target int) bool {
	for _, n := range lines {
		if n == target {
			return true
		}
	}
	return false
}

// parseNewStart extracts the new-range start from a hunk header of the form
// "@@ -oldStart[,oldCount] +newStart[,newCount] @@ optional context".
func parseNewStart(header string) (int, bool) {
	parts := strings.Split(header, "@@")
	if len(parts) < 2 {
		return 0, false
	}

	for _, field := range strings.Fields(strings.TrimSpace(parts[1])) {
		if !strings.HasPrefix(field, "+") {
			continue
		}
		spec := strings.TrimPrefix(field, "+")
		if idx := strings.Index(spec, ","); idx >= 0 {
			spec = spec[:idx]
		}
		start, err := strconv.Atoi(spec)
		if err != nil {
			return 0, false
		}
		return start, true
	}

	return 0, false
}

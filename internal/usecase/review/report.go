package review

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pullguard/pullguard/internal/domain"
)

const (
	reportTitle = "## Automated Pull Request Review"

	// TruncationNotice is included in the report body when the diff was cut
	// to fit the analysis budget.
	TruncationNotice = "> :warning: The diff was truncated to fit the analysis size limit; findings may be incomplete."

	reportFooter = "_This review was generated automatically. Findings are advisory; apply your own judgment before acting on them._"
)

var sectionCaser = cases.Title(language.English)

// buildReport assembles the review body: title, PR context, optional
// truncation notice, then one section per finding in the order given.
func buildReport(pr domain.PullRequestContext, findings []domain.AgentFinding, truncated bool) string {
	var b strings.Builder

	b.WriteString(reportTitle)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**PR:** %s\n\n", pr.Title)

	if truncated {
		b.WriteString(TruncationNotice)
		b.WriteString("\n\n")
	}

	for _, finding := range findings {
		fmt.Fprintf(&b, "### %s\n\n", sectionCaser.String(finding.AgentName))
		b.WriteString(strings.TrimSpace(finding.Markdown))
		b.WriteString("\n\n---\n\n")
	}

	b.WriteString(reportFooter)
	b.WriteString("\n")

	return b.String()
}

package agent

import (
	"fmt"
	"io"
	"strings"

	"musicagent/internal/metadata"

	"github.com/charmbracelet/lipgloss"
)

const ruleWidth = 62

// AnalysisReport is the outcome of Analyze.
type AnalysisReport struct {
	Track     metadata.Track
	Analysis  string
	HasIssues bool
}

// Render writes the report to w.
func (r *AnalysisReport) Render(w io.Writer) {
	re := lipgloss.NewRenderer(w)
	heading := re.NewStyle().Bold(true)
	warn := re.NewStyle().Foreground(lipgloss.Color("3"))
	ok := re.NewStyle().Foreground(lipgloss.Color("2"))

	rule := strings.Repeat("=", ruleWidth)
	thin := strings.Repeat("-", ruleWidth)

	fmt.Fprintf(w, "\n%s\n%s\n%s\n\n", rule, heading.Render("ANALYSIS REPORT"), rule)
	fmt.Fprintf(w, "%s\n\n", r.Track)

	fmt.Fprintln(w, heading.Render("AI Analysis:"))
	fmt.Fprintln(w, thin)
	fmt.Fprintln(w, r.Analysis)
	fmt.Fprintf(w, "%s\n\n", thin)

	if r.HasIssues {
		fmt.Fprintln(w, warn.Render("Issues detected - review suggestions above"))
	} else {
		fmt.Fprintln(w, ok.Render("Metadata appears complete"))
	}
}

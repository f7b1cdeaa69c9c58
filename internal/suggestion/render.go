package suggestion

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	ruleWidth    = 62
	summaryLines = 3
)

type styles struct {
	heading lipgloss.Style
	field   lipgloss.Style
	muted   lipgloss.Style
	conf    map[Confidence]lipgloss.Style
}

func newStyles(w io.Writer) styles {
	re := lipgloss.NewRenderer(w)
	return styles{
		heading: re.NewStyle().Bold(true),
		field:   re.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		muted:   re.NewStyle().Faint(true),
		conf: map[Confidence]lipgloss.Style{
			ConfidenceHigh:   re.NewStyle().Foreground(lipgloss.Color("2")),
			ConfidenceMedium: re.NewStyle().Foreground(lipgloss.Color("3")),
			ConfidenceLow:    re.NewStyle().Foreground(lipgloss.Color("1")),
		},
	}
}

func (s styles) confidence(c Confidence) string {
	if st, ok := s.conf[c]; ok {
		return st.Render(string(c))
	}
	return string(c)
}

// Render writes a human-readable listing of the report's edits to w.
// Colours are only emitted when w is a terminal.
func Render(w io.Writer, r *Report) {
	st := newStyles(w)
	rule := strings.Repeat("=", ruleWidth)

	fmt.Fprintf(w, "\n%s\n%s\n%s\n", rule, st.heading.Render("SUGGESTED CHANGES"), rule)

	if len(r.Suggestions) == 0 {
		fmt.Fprintln(w, "No changes suggested - metadata looks good!")
		return
	}

	for i, s := range r.Suggestions {
		current := "(none)"
		if s.CurrentValue != nil {
			current = *s.CurrentValue
		}
		fmt.Fprintf(w, "\n%d. %s (Confidence: %s)\n", i+1, st.field.Render(strings.ToUpper(s.Field)), st.confidence(s.Confidence))
		fmt.Fprintf(w, "   Current:   %s\n", current)
		fmt.Fprintf(w, "   Suggested: %s\n", s.SuggestedValue)
		if s.Reason != "" {
			fmt.Fprintf(w, "   Reason:    %s\n", st.muted.Render(s.Reason))
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("-", ruleWidth))
	fmt.Fprintln(w, st.heading.Render("LLM Analysis Summary:"))
	fmt.Fprintln(w, Summary(r.LLMAnalysis, summaryLines))
}

// Summary returns the first n lines of text.
func Summary(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

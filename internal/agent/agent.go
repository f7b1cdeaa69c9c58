// Package agent builds model prompts from track metadata and turns the
// model's answers into analysis and suggestion reports.
package agent

import (
	"context"
	"fmt"
	"strings"

	"musicagent/internal/llm"
	"musicagent/internal/metadata"
	"musicagent/internal/suggestion"
)

const analysisInstructions = `You are a music metadata expert. Analyze the provided audio file metadata and provide:

1. **Assessment**: Evaluate the quality and completeness of the metadata
2. **Issues**: Identify any missing, incorrect, or suspicious data
3. **Suggestions**: Recommend specific corrections or improvements
4. **Confidence**: Rate your confidence in the current metadata (Low/Medium/High)

Be concise but thorough. Focus on actionable insights.`

const suggestionInstructions = `You are a music metadata expert. Review the provided audio file metadata and propose concrete corrections.

For every field that is missing or wrong, write one block in exactly this format:

SUGGESTION: <field>
CURRENT: <current value, or None if missing>
SUGGESTED: <corrected value>
CONFIDENCE: <High|Medium|Low>
REASON: <one sentence>
---

Valid fields: %s
Use plain values without quotes or markdown. Only suggest a year as a four digit number and a track number as a positive integer.
If the metadata needs no changes, answer with %s and nothing else.`

// Agent asks a model about a track.
type Agent struct {
	client llm.Client
}

// New returns an Agent backed by client.
func New(client llm.Client) *Agent {
	return &Agent{client: client}
}

// ProviderName is the display name of the model provider.
func (a *Agent) ProviderName() string {
	return a.client.ProviderName()
}

// AnalysisPrompt is the free-form assessment prompt for track.
func AnalysisPrompt(track metadata.Track) string {
	return analysisInstructions + "\n\n" + track.PromptFormat()
}

// SuggestionPrompt asks for edits in the block format understood by
// suggestion.Parse.
func SuggestionPrompt(track metadata.Track) string {
	instructions := fmt.Sprintf(suggestionInstructions, strings.Join(metadata.Fields, ", "), suggestion.NoSuggestionsSentinel)
	return instructions + "\n\n" + track.PromptFormat()
}

// Analyze asks the model for a free-form assessment of track.
func (a *Agent) Analyze(ctx context.Context, track metadata.Track) (*AnalysisReport, error) {
	text, err := a.client.Generate(ctx, AnalysisPrompt(track))
	if err != nil {
		return nil, err
	}

	return &AnalysisReport{
		Track:     track.Clone(),
		Analysis:  text,
		HasIssues: track.HasMissingCriticalFields(),
	}, nil
}

// Suggest asks the model for field edits and returns them as an unsaved report.
func (a *Agent) Suggest(ctx context.Context, track metadata.Track) (*suggestion.Report, error) {
	text, err := a.client.Generate(ctx, SuggestionPrompt(track))
	if err != nil {
		return nil, err
	}

	suggestions := suggestion.Parse(text, track)
	return suggestion.NewReport(track.FilePath, track.Clone(), suggestions, text), nil
}

package suggestion

import (
	"strings"

	"musicagent/internal/metadata"
)

// Markers of the block convention the model is asked to follow.
const (
	NoSuggestionsSentinel = "NO_SUGGESTIONS_NEEDED"
	BlockSeparator        = "---"

	prefixSuggestion = "SUGGESTION:"
	prefixCurrent    = "CURRENT:"
	prefixSuggested  = "SUGGESTED:"
	prefixConfidence = "CONFIDENCE:"
	prefixReason     = "REASON:"
)

// block accumulates the values seen in one block. It is reset for each block.
type block struct {
	field      string
	current    *string
	suggested  string
	confidence Confidence
	reason     string
}

func newBlock() block {
	return block{confidence: ConfidenceMedium}
}

// emit returns the edit held by b, or false when the block is incomplete.
func (b block) emit() (Suggestion, bool) {
	if b.field == "" || b.suggested == "" {
		return Suggestion{}, false
	}
	return Suggestion{
		Field:          b.field,
		CurrentValue:   b.current,
		SuggestedValue: b.suggested,
		Confidence:     b.confidence,
		Reason:         b.reason,
	}, true
}

// transitions maps each recognized line prefix to the accumulator field it sets.
var transitions = []struct {
	prefix string
	assign func(b *block, value string)
}{
	{prefixSuggestion, func(b *block, v string) { b.field = v }},
	{prefixCurrent, func(b *block, v string) {
		if v == "" || v == "None" {
			b.current = nil
			return
		}
		b.current = &v
	}},
	{prefixSuggested, func(b *block, v string) { b.suggested = v }},
	{prefixConfidence, func(b *block, v string) { b.confidence = Confidence(v) }},
	{prefixReason, func(b *block, v string) { b.reason = v }},
}

// Parse extracts edits from free-form model output.
//
// The text is split on "---" into blocks; each block holding a
// "SUGGESTION:" line is scanned for prefixed lines and yields at most one
// edit. Parse never fails: malformed blocks are dropped and the result is an
// empty, non-nil slice when nothing could be extracted. Any occurrence of
// NO_SUGGESTIONS_NEEDED short-circuits to an empty result.
//
// The track is the context the text was produced for; it does not influence
// extraction.
func Parse(text string, _ metadata.Track) []Suggestion {
	suggestions := []Suggestion{}
	if strings.Contains(text, NoSuggestionsSentinel) {
		return suggestions
	}

	for _, raw := range strings.Split(text, BlockSeparator) {
		chunk := strings.TrimSpace(raw)
		if chunk == "" || !strings.Contains(chunk, prefixSuggestion) {
			continue
		}
		if s, ok := scanBlock(chunk).emit(); ok {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions
}

func scanBlock(chunk string) block {
	b := newBlock()
	for _, line := range strings.Split(chunk, "\n") {
		line = strings.TrimSpace(line)
		for _, tr := range transitions {
			if strings.HasPrefix(line, tr.prefix) {
				tr.assign(&b, strings.TrimSpace(strings.TrimPrefix(line, tr.prefix)))
				break
			}
		}
	}
	return b
}

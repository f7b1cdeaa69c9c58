package suggestion

import (
	"testing"

	"musicagent/internal/metadata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSingleBlock(t *testing.T) {
	text := "SUGGESTION: title\nCURRENT: None\nSUGGESTED: Friend of the Devil\nCONFIDENCE: High\nREASON: tag missing\n---"

	got := Parse(text, metadata.Track{})

	require.Len(t, got, 1)
	assert.Equal(t, Suggestion{
		Field:          "title",
		CurrentValue:   nil,
		SuggestedValue: "Friend of the Devil",
		Confidence:     ConfidenceHigh,
		Reason:         "tag missing",
	}, got[0])
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Suggestion
	}{
		{
			name: "empty text",
			text: "",
			want: []Suggestion{},
		},
		{
			name: "no separator means one block",
			text: "SUGGESTION: artist\nCURRENT: grateful dead\nSUGGESTED: Grateful Dead\nCONFIDENCE: Medium\nREASON: capitalization",
			want: []Suggestion{
				{Field: "artist", CurrentValue: metadata.StringPtr("grateful dead"), SuggestedValue: "Grateful Dead", Confidence: ConfidenceMedium, Reason: "capitalization"},
			},
		},
		{
			name: "blocks keep order",
			text: "SUGGESTION: album\nSUGGESTED: American Beauty\n---\nSUGGESTION: year\nSUGGESTED: 1970\n---\n",
			want: []Suggestion{
				{Field: "album", SuggestedValue: "American Beauty", Confidence: ConfidenceMedium},
				{Field: "year", SuggestedValue: "1970", Confidence: ConfidenceMedium},
			},
		},
		{
			name: "same field twice is kept twice",
			text: "SUGGESTION: artist\nSUGGESTED: A\n---\nSUGGESTION: artist\nSUGGESTED: B",
			want: []Suggestion{
				{Field: "artist", SuggestedValue: "A", Confidence: ConfidenceMedium},
				{Field: "artist", SuggestedValue: "B", Confidence: ConfidenceMedium},
			},
		},
		{
			name: "block without suggested value is dropped",
			text: "SUGGESTION: year\nCURRENT: None\n---\nSUGGESTION: genre\nSUGGESTED: Folk Rock\nCONFIDENCE: Low",
			want: []Suggestion{
				{Field: "genre", SuggestedValue: "Folk Rock", Confidence: ConfidenceLow},
			},
		},
		{
			name: "block without suggestion marker is skipped",
			text: "Overall the tags look decent.\nSUGGESTED: ignored\n---\nSUGGESTION: genre\nSUGGESTED: Rock",
			want: []Suggestion{
				{Field: "genre", SuggestedValue: "Rock", Confidence: ConfidenceMedium},
			},
		},
		{
			name: "empty field name is dropped",
			text: "SUGGESTION:\nSUGGESTED: Something",
			want: []Suggestion{},
		},
		{
			name: "unknown field is recorded",
			text: "SUGGESTION: composer\nSUGGESTED: Jerry Garcia",
			want: []Suggestion{
				{Field: "composer", SuggestedValue: "Jerry Garcia", Confidence: ConfidenceMedium},
			},
		},
		{
			name: "confidence is verbatim",
			text: "SUGGESTION: title\nSUGGESTED: Ripple\nCONFIDENCE: very high",
			want: []Suggestion{
				{Field: "title", SuggestedValue: "Ripple", Confidence: Confidence("very high")},
			},
		},
		{
			name: "empty current is absent",
			text: "SUGGESTION: album\nCURRENT:   \nSUGGESTED: Workingman's Dead",
			want: []Suggestion{
				{Field: "album", SuggestedValue: "Workingman's Dead", Confidence: ConfidenceMedium},
			},
		},
		{
			name: "indented lines and noise",
			text: "Here you go:\n  SUGGESTION: track_number  \n  CURRENT: 3\n  some commentary\n  SUGGESTED: 2\n  REASON:  album order  \n",
			want: []Suggestion{
				{Field: "track_number", CurrentValue: metadata.StringPtr("3"), SuggestedValue: "2", Confidence: ConfidenceMedium, Reason: "album order"},
			},
		},
		{
			name: "later line wins within a block",
			text: "SUGGESTION: title\nSUGGESTED: First\nSUGGESTED: Second",
			want: []Suggestion{
				{Field: "title", SuggestedValue: "Second", Confidence: ConfidenceMedium},
			},
		},
		{
			name: "lowercase prefixes are not recognized",
			text: "suggestion: title\nsuggested: Nope",
			want: []Suggestion{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text, metadata.Track{})
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSentinelShortCircuits(t *testing.T) {
	text := "SUGGESTION: title\nSUGGESTED: Ripple\nCONFIDENCE: High\n---\nNO_SUGGESTIONS_NEEDED"

	got := Parse(text, metadata.Track{})

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseMalformedBlockKeepsOthers(t *testing.T) {
	text := "SUGGESTION: year\nCURRENT: None\n---\nSUGGESTION: title\nSUGGESTED: Box of Rain\n---"

	got := Parse(text, metadata.Track{})

	require.Len(t, got, 1)
	assert.Equal(t, "title", got[0].Field)
	for _, s := range got {
		assert.NotEqual(t, "year", s.Field)
	}
}

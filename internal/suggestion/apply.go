package suggestion

import (
	"strconv"
	"strings"

	"musicagent/internal/metadata"
)

// Apply replays the report's edits in stored order onto a copy of the
// snapshot and returns the result. When several edits target the same field
// the last one wins. Numeric edits that do not parse and edits for unknown
// fields are skipped. The report itself is not modified.
func (r *Report) Apply() metadata.Track {
	updated := r.CurrentMetadata.Clone()

	for _, s := range r.Suggestions {
		value := s.SuggestedValue
		switch s.Field {
		case metadata.FieldArtist:
			updated.Artist = metadata.StringPtr(value)
		case metadata.FieldTitle:
			updated.Title = metadata.StringPtr(value)
		case metadata.FieldAlbum:
			updated.Album = metadata.StringPtr(value)
		case metadata.FieldGenre:
			updated.Genre = metadata.StringPtr(value)
		case metadata.FieldAlbumArtist:
			updated.AlbumArtist = metadata.StringPtr(value)
		case metadata.FieldYear:
			if year, err := strconv.ParseInt(value, 10, 32); err == nil {
				updated.Year = metadata.IntPtr(int(year))
			}
		case metadata.FieldTrackNumber:
			if track, err := strconv.ParseUint(value, 10, 32); err == nil {
				updated.TrackNumber = metadata.UintPtr(uint32(track))
			}
		}
	}

	return updated
}

// Selection picks the subset of edits to apply. Zero values select everything.
type Selection struct {
	Fields        []string   // allowed field names, empty means all
	MinConfidence Confidence // lowest accepted label, empty means any
}

// Empty reports whether s selects every edit.
func (s Selection) Empty() bool {
	return len(s.Fields) == 0 && s.MinConfidence == ""
}

func (s Selection) matches(sg Suggestion) bool {
	if s.MinConfidence != "" && sg.Confidence.Rank() < s.MinConfidence.Rank() {
		return false
	}
	if len(s.Fields) == 0 {
		return true
	}
	for _, f := range s.Fields {
		if strings.EqualFold(strings.TrimSpace(f), sg.Field) {
			return true
		}
	}
	return false
}

// Select returns a copy of the report holding only the edits matched by sel,
// in their original order.
func (r *Report) Select(sel Selection) *Report {
	out := *r
	out.CurrentMetadata = r.CurrentMetadata.Clone()
	out.Suggestions = make([]Suggestion, 0, len(r.Suggestions))
	for _, s := range r.Suggestions {
		if sel.matches(s) {
			out.Suggestions = append(out.Suggestions, s)
		}
	}
	return &out
}

package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names understood by the prompt and by suggestion apply.
const (
	FieldArtist      = "artist"
	FieldTitle       = "title"
	FieldAlbum       = "album"
	FieldYear        = "year"
	FieldGenre       = "genre"
	FieldAlbumArtist = "album_artist"
	FieldTrackNumber = "track_number"
)

// Fields lists the editable fields in prompt order.
var Fields = []string{
	FieldArtist,
	FieldTitle,
	FieldAlbum,
	FieldYear,
	FieldGenre,
	FieldAlbumArtist,
	FieldTrackNumber,
}

// Track contains the tag data read from a single audio file.
// A nil pointer means the tag is absent from the file.
type Track struct {
	FilePath        string  `json:"file_path" yaml:"file_path"`
	Artist          *string `json:"artist" yaml:"artist"`
	Title           *string `json:"title" yaml:"title"`
	Album           *string `json:"album" yaml:"album"`
	Year            *int    `json:"year" yaml:"year"`
	Genre           *string `json:"genre" yaml:"genre"`
	TrackNumber     *uint32 `json:"track_number" yaml:"track_number"`
	AlbumArtist     *string `json:"album_artist" yaml:"album_artist"`
	DurationSeconds *uint32 `json:"duration_seconds" yaml:"duration_seconds"`
}

// IsKnownField reports whether name is one of the editable fields.
func IsKnownField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

// HasMissingCriticalFields returns true if artist or title is absent.
func (t Track) HasMissingCriticalFields() bool {
	return t.Artist == nil || t.Title == nil
}

// MissingFields returns the names of absent fields among artist, title,
// album, year and genre.
func (t Track) MissingFields() []string {
	var missing []string
	if t.Artist == nil {
		missing = append(missing, FieldArtist)
	}
	if t.Title == nil {
		missing = append(missing, FieldTitle)
	}
	if t.Album == nil {
		missing = append(missing, FieldAlbum)
	}
	if t.Year == nil {
		missing = append(missing, FieldYear)
	}
	if t.Genre == nil {
		missing = append(missing, FieldGenre)
	}
	return missing
}

// Clone returns a deep copy, so edits on the copy never reach t.
func (t Track) Clone() Track {
	return Track{
		FilePath:        t.FilePath,
		Artist:          cloneString(t.Artist),
		Title:           cloneString(t.Title),
		Album:           cloneString(t.Album),
		Year:            cloneInt(t.Year),
		Genre:           cloneString(t.Genre),
		TrackNumber:     cloneUint(t.TrackNumber),
		AlbumArtist:     cloneString(t.AlbumArtist),
		DurationSeconds: cloneUint(t.DurationSeconds),
	}
}

// PromptFormat renders the track for inclusion in a model prompt.
func (t Track) PromptFormat() string {
	missing := "None"
	if m := t.MissingFields(); len(m) > 0 {
		missing = strings.Join(m, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n\n", t.FilePath)
	b.WriteString("Current Metadata:\n")
	fmt.Fprintf(&b, "- Artist: %s\n", orDefault(t.Artist, "(missing)"))
	fmt.Fprintf(&b, "- Title: %s\n", orDefault(t.Title, "(missing)"))
	fmt.Fprintf(&b, "- Album: %s\n", orDefault(t.Album, "(missing)"))
	fmt.Fprintf(&b, "- Year: %s\n", intOrDefault(t.Year, "(missing)"))
	fmt.Fprintf(&b, "- Genre: %s\n", orDefault(t.Genre, "(missing)"))
	fmt.Fprintf(&b, "- Track Number: %s\n", uintOrDefault(t.TrackNumber, "(missing)"))
	fmt.Fprintf(&b, "- Album Artist: %s\n", orDefault(t.AlbumArtist, "(missing)"))
	fmt.Fprintf(&b, "- Duration: %s seconds\n\n", uintOrDefault(t.DurationSeconds, "unknown"))
	fmt.Fprintf(&b, "Missing Fields: %s", missing)
	return b.String()
}

// String returns a short human-readable summary.
func (t Track) String() string {
	return fmt.Sprintf("%s\n   Artist: %s\n   Album: %s\n   Year: %s\n   Genre: %s",
		orDefault(t.Title, "Unknown Title"),
		orDefault(t.Artist, "Unknown Artist"),
		orDefault(t.Album, "Unknown Album"),
		intOrDefault(t.Year, "Unknown"),
		orDefault(t.Genre, "Unknown"),
	)
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }

// UintPtr returns a pointer to n.
func UintPtr(n uint32) *uint32 { return &n }

func orDefault(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func intOrDefault(n *int, def string) string {
	if n == nil {
		return def
	}
	return strconv.Itoa(*n)
}

func uintOrDefault(n *uint32, def string) string {
	if n == nil {
		return def
	}
	return strconv.FormatUint(uint64(*n), 10)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

func cloneUint(n *uint32) *uint32 {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

package tagcodec

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"musicagent/internal/errs"
	"musicagent/internal/metadata"
	"musicagent/pkg/utils"

	"go.senan.xyz/taglib"
)

// lengthTag is TagLib's property name for the ID3 TLEN frame, in milliseconds.
const lengthTag = "LENGTH"

// Taglib reads and writes tags through TagLib. It handles every format in
// utils.IsAudioFile.
type Taglib struct{}

func (Taglib) Name() string { return BackendTaglib }

// Read returns the tags of the audio file at path.
func (Taglib) Read(path string) (metadata.Track, error) {
	if err := checkSource(path, utils.IsAudioFile); err != nil {
		return metadata.Track{}, err
	}

	tags, err := taglib.ReadTags(path)
	if err != nil {
		return metadata.Track{}, fmt.Errorf("%w: failed to read tags from %s: %w", errs.ErrMetadataParse, path, err)
	}

	track := metadata.Track{
		FilePath:    path,
		Artist:      optionalString(firstTag(tags, taglib.Artist)),
		Title:       optionalString(firstTag(tags, taglib.Title)),
		Album:       optionalString(firstTag(tags, taglib.Album)),
		Year:        parseYear(firstTag(tags, taglib.Date)),
		Genre:       optionalString(firstTag(tags, taglib.Genre)),
		TrackNumber: parseTrackNumber(firstTag(tags, taglib.TrackNumber)),
		AlbumArtist: optionalString(firstTag(tags, taglib.AlbumArtist)),
	}
	track.DurationSeconds = readDuration(path, tags)
	return track, nil
}

// Write sets the present fields of track on the file at path. Other tags
// in the file are left untouched.
func (Taglib) Write(path string, track metadata.Track) error {
	tags := make(map[string][]string)

	if track.Title != nil {
		tags[taglib.Title] = []string{*track.Title}
	}
	if track.Artist != nil {
		tags[taglib.Artist] = []string{*track.Artist}
	}
	if track.Album != nil {
		tags[taglib.Album] = []string{*track.Album}
	}
	if track.AlbumArtist != nil {
		tags[taglib.AlbumArtist] = []string{*track.AlbumArtist}
	}
	if track.TrackNumber != nil {
		tags[taglib.TrackNumber] = []string{strconv.FormatUint(uint64(*track.TrackNumber), 10)}
	}
	if track.Year != nil {
		tags[taglib.Date] = []string{strconv.Itoa(*track.Year)}
	}
	if track.Genre != nil {
		tags[taglib.Genre] = []string{*track.Genre}
	}

	if len(tags) == 0 {
		return nil
	}
	if err := taglib.WriteTags(path, tags, 0); err != nil {
		return fmt.Errorf("%w: failed to write tags to %s: %w", errs.ErrMetadataParse, path, err)
	}
	return nil
}

// readDuration takes the length from the audio properties, falling back to
// the LENGTH tag when the stream length is unknown.
func readDuration(path string, tags map[string][]string) *uint32 {
	if props, err := taglib.ReadProperties(path); err == nil && props.Length >= time.Second {
		seconds := uint32(math.Round(props.Length.Seconds()))
		return &seconds
	}
	if ms, err := strconv.ParseUint(firstTag(tags, lengthTag), 10, 64); err == nil && ms >= 1000 {
		seconds := uint32(ms / 1000)
		return &seconds
	}
	return nil
}

func firstTag(tags map[string][]string, key string) string {
	if vals, ok := tags[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

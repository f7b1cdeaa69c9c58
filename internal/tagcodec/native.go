package tagcodec

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"musicagent/internal/errs"
	"musicagent/internal/metadata"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"
)

// ID3v2 frame IDs without a dedicated setter in id3v2.
const (
	frameYear        = "TYER"
	frameDate        = "TDRC"
	frameTrackNumber = "TRCK"
	frameAlbumArtist = "TPE2"
)

// Native is a pure Go codec for MP3 files. Tags are written as ID3v2.4.
type Native struct{}

func (Native) Name() string { return BackendNative }

// Read returns the tags of the MP3 file at path. A file without any tag
// yields a track with every field absent.
func (Native) Read(path string) (metadata.Track, error) {
	if err := checkSource(path, isMP3); err != nil {
		return metadata.Track{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return metadata.Track{}, fmt.Errorf("%w: failed to open %s: %w", errs.ErrFileAccess, path, err)
	}
	defer f.Close()

	track := metadata.Track{FilePath: path}

	meta, err := tag.ReadFrom(f)
	switch {
	case errors.Is(err, tag.ErrNoTagsFound):
	case err != nil:
		return metadata.Track{}, fmt.Errorf("%w: failed to read ID3 tags from %s: %w", errs.ErrMetadataParse, path, err)
	default:
		track.Artist = optionalString(meta.Artist())
		track.Title = optionalString(meta.Title())
		track.Album = optionalString(meta.Album())
		track.Genre = optionalString(meta.Genre())
		track.AlbumArtist = optionalString(meta.AlbumArtist())
		if year := meta.Year(); year != 0 {
			track.Year = &year
		}
		if n, _ := meta.Track(); n > 0 {
			num := uint32(n)
			track.TrackNumber = &num
		}
	}

	if seconds, err := mp3Duration(path); err == nil && seconds > 0 {
		d := uint32(math.Round(seconds))
		track.DurationSeconds = &d
	}

	return track, nil
}

// Write sets the present fields of track as ID3v2.4 frames on the MP3 at path.
func (Native) Write(path string, track metadata.Track) error {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("%w: failed to open ID3 tag of %s: %w", errs.ErrMetadataParse, path, err)
	}
	defer t.Close()

	t.SetVersion(4)
	t.SetDefaultEncoding(id3v2.EncodingUTF8)

	if track.Artist != nil {
		t.SetArtist(*track.Artist)
	}
	if track.Title != nil {
		t.SetTitle(*track.Title)
	}
	if track.Album != nil {
		t.SetAlbum(*track.Album)
	}
	if track.Year != nil {
		// ID3v2.4 keeps the year in TDRC.
		t.DeleteFrames(frameYear)
		t.AddTextFrame(frameDate, id3v2.EncodingUTF8, strconv.Itoa(*track.Year))
	}
	if track.Genre != nil {
		t.SetGenre(*track.Genre)
	}
	if track.TrackNumber != nil {
		t.AddTextFrame(frameTrackNumber, id3v2.EncodingUTF8, strconv.FormatUint(uint64(*track.TrackNumber), 10))
	}
	if track.AlbumArtist != nil {
		t.AddTextFrame(frameAlbumArtist, id3v2.EncodingUTF8, *track.AlbumArtist)
	}

	if err := t.Save(); err != nil {
		return fmt.Errorf("%w: failed to write ID3 tags to %s: %w", errs.ErrMetadataParse, path, err)
	}
	return nil
}

// mp3Duration sums the duration of every MPEG frame in the file.
func mp3Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var total float64

	for {
		err := decoder.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration().Seconds()
	}

	return total, nil
}

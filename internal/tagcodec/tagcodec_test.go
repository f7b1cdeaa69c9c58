package tagcodec

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"musicagent/internal/errs"
	"musicagent/internal/metadata"
)

// createTestAudioFile generates a minimal MP3 using ffmpeg.
// Skips the test if ffmpeg is not available.
func createTestAudioFile(t *testing.T, dir string) string {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available, skipping codec test")
	}

	path := filepath.Join(dir, "test.mp3")
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "anullsrc=r=44100:cl=mono", "-t", "0.1", "-q:a", "9", path)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Run(); err != nil {
		t.Fatalf("failed to create test audio file: %v", err)
	}
	return path
}

// createUntaggedFile writes bytes that carry no tag at all.
func createUntaggedFile(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "untagged.mp3")
	data := bytes.Repeat([]byte("not really mpeg audio data. "), 64)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

// createFrameStream writes frames silent MPEG-1 Layer III frames at
// 128 kbps, 44.1 kHz mono. 500 frames last about 13 seconds.
func createFrameStream(t *testing.T, dir string, frames int) string {
	t.Helper()
	const frameSize = 144 * 128000 / 44100
	frame := make([]byte, frameSize)
	copy(frame, []byte{0xFF, 0xFB, 0x90, 0xC0})

	path := filepath.Join(dir, "frames.mp3")
	if err := os.WriteFile(path, bytes.Repeat(frame, frames), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func fullTrack() metadata.Track {
	return metadata.Track{
		Artist:      metadata.StringPtr("Grateful Dead"),
		Title:       metadata.StringPtr("Friend of the Devil"),
		Album:       metadata.StringPtr("American Beauty"),
		Year:        metadata.IntPtr(1970),
		Genre:       metadata.StringPtr("Folk Rock"),
		TrackNumber: metadata.UintPtr(2),
		AlbumArtist: metadata.StringPtr("Grateful Dead"),
	}
}

func checkTrack(t *testing.T, got, want metadata.Track) {
	t.Helper()
	str := func(p *string) string {
		if p == nil {
			return "<nil>"
		}
		return *p
	}
	pairs := []struct {
		name      string
		got, want string
	}{
		{"artist", str(got.Artist), str(want.Artist)},
		{"title", str(got.Title), str(want.Title)},
		{"album", str(got.Album), str(want.Album)},
		{"genre", str(got.Genre), str(want.Genre)},
		{"album_artist", str(got.AlbumArtist), str(want.AlbumArtist)},
	}
	for _, p := range pairs {
		if p.got != p.want {
			t.Errorf("%s = %q, want %q", p.name, p.got, p.want)
		}
	}
	if got.Year == nil || *got.Year != *want.Year {
		t.Errorf("year = %v, want %d", got.Year, *want.Year)
	}
	if got.TrackNumber == nil || *got.TrackNumber != *want.TrackNumber {
		t.Errorf("track_number = %v, want %d", got.TrackNumber, *want.TrackNumber)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "", want: BackendTaglib},
		{name: "taglib", want: BackendTaglib},
		{name: " Native ", want: BackendNative},
		{name: "ffmpeg", wantErr: true},
	}

	for _, tt := range tests {
		c, err := New(tt.name)
		if tt.wantErr {
			if !errors.Is(err, errs.ErrConfig) {
				t.Errorf("New(%q) error = %v, want ErrConfig", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("New(%q) unexpected error: %v", tt.name, err)
		}
		if c.Name() != tt.want {
			t.Errorf("New(%q).Name() = %q, want %q", tt.name, c.Name(), tt.want)
		}
	}
}

func TestReadMissingFile(t *testing.T) {
	for _, c := range []Codec{Taglib{}, Native{}} {
		_, err := c.Read("nonexistent.mp3")
		if !errors.Is(err, errs.ErrFileAccess) {
			t.Errorf("%s: error = %v, want ErrFileAccess", c.Name(), err)
		}
	}
}

func TestReadUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, c := range []Codec{Taglib{}, Native{}} {
		_, err := c.Read(path)
		if !errors.Is(err, errs.ErrFileAccess) {
			t.Errorf("%s: error = %v, want ErrFileAccess", c.Name(), err)
		}
	}
}

func TestNativeRejectsNonMP3(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.flac")
	if err := os.WriteFile(path, []byte("fLaC"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := (Native{}).Read(path); !errors.Is(err, errs.ErrFileAccess) {
		t.Errorf("error = %v, want ErrFileAccess", err)
	}
}

func TestNativeReadUntagged(t *testing.T) {
	path := createUntaggedFile(t, t.TempDir())

	track, err := Native{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if track.FilePath != path {
		t.Errorf("FilePath = %q, want %q", track.FilePath, path)
	}
	if !track.HasMissingCriticalFields() {
		t.Errorf("untagged file should miss critical fields")
	}
}

func TestNativeWriteRead(t *testing.T) {
	path := createUntaggedFile(t, t.TempDir())

	if err := (Native{}).Write(path, fullTrack()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Native{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	checkTrack(t, got, fullTrack())
}

func TestNativeWriteKeepsAbsentFields(t *testing.T) {
	path := createUntaggedFile(t, t.TempDir())

	if err := (Native{}).Write(path, fullTrack()); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := (Native{}).Write(path, metadata.Track{Title: metadata.StringPtr("Ripple")}); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	got, err := Native{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	want := fullTrack()
	want.Title = metadata.StringPtr("Ripple")
	checkTrack(t, got, want)
}

func TestTaglibWriteRead(t *testing.T) {
	path := createTestAudioFile(t, t.TempDir())

	if err := (Taglib{}).Write(path, fullTrack()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Taglib{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	checkTrack(t, got, fullTrack())
}

func TestTaglibWriteEmptyTrack(t *testing.T) {
	path := createTestAudioFile(t, t.TempDir())

	if err := (Taglib{}).Write(path, metadata.Track{}); err != nil {
		t.Fatalf("Write with empty track failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file missing after empty write: %v", err)
	}
}

func TestNativeReadsFFmpegDuration(t *testing.T) {
	path := createTestAudioFile(t, t.TempDir())

	track, err := Native{}.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	// 0.1s of audio rounds down to zero seconds, which is reported as unknown.
	if track.DurationSeconds != nil && *track.DurationSeconds > 1 {
		t.Errorf("DurationSeconds = %d, want at most 1", *track.DurationSeconds)
	}
}

func TestReadDurationFromStream(t *testing.T) {
	path := createFrameStream(t, t.TempDir(), 500)

	for _, c := range []Codec{Taglib{}, Native{}} {
		track, err := c.Read(path)
		if err != nil {
			t.Fatalf("%s: Read failed: %v", c.Name(), err)
		}
		if track.DurationSeconds == nil {
			t.Errorf("%s: DurationSeconds = nil, want 13", c.Name())
			continue
		}
		if *track.DurationSeconds != 13 {
			t.Errorf("%s: DurationSeconds = %d, want 13", c.Name(), *track.DurationSeconds)
		}
	}
}

func TestOptionalString(t *testing.T) {
	tests := []struct {
		in   string
		want string
		nil  bool
	}{
		{in: "  Ripple ", want: "Ripple"},
		{in: "ok \xff\xfe bytes", want: "ok \uFFFD bytes"},
		{in: "   ", nil: true},
	}

	for _, tt := range tests {
		got := optionalString(tt.in)
		if tt.nil {
			if got != nil {
				t.Errorf("optionalString(%q) = %q, want nil", tt.in, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("optionalString(%q) = %v, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		nil  bool
	}{
		{in: "1970", want: 1970},
		{in: "1970-11-01", want: 1970},
		{in: "1970-11-01T00:00:00", want: 1970},
		{in: " 2001 ", want: 2001},
		{in: "", nil: true},
		{in: "0", nil: true},
		{in: "seventies", nil: true},
	}

	for _, tt := range tests {
		got := parseYear(tt.in)
		if tt.nil {
			if got != nil {
				t.Errorf("parseYear(%q) = %d, want nil", tt.in, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("parseYear(%q) = %v, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseTrackNumber(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
		nil  bool
	}{
		{in: "2", want: 2},
		{in: "2/12", want: 2},
		{in: " 7 / 9", want: 7},
		{in: "", nil: true},
		{in: "0", nil: true},
		{in: "-3", nil: true},
		{in: "A1", nil: true},
	}

	for _, tt := range tests {
		got := parseTrackNumber(tt.in)
		if tt.nil {
			if got != nil {
				t.Errorf("parseTrackNumber(%q) = %d, want nil", tt.in, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("parseTrackNumber(%q) = %v, want %d", tt.in, got, tt.want)
		}
	}
}

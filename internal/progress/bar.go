package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Indicator shows that a task of unknown length is still running
type Indicator struct {
	w         io.Writer
	label     string
	interval  time.Duration
	mu        sync.Mutex
	startTime time.Time
	frame     int
	width     int
	stop      chan struct{}
	done      chan struct{}
}

// New creates an indicator that redraws label on w every interval
func New(w io.Writer, label string, interval time.Duration) *Indicator {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Indicator{
		w:        w,
		label:    label,
		interval: interval,
	}
}

// Start begins redrawing in the background
func (in *Indicator) Start() {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.stop != nil {
		return
	}
	in.startTime = time.Now()
	in.stop = make(chan struct{})
	in.done = make(chan struct{})
	in.render()

	go in.loop(in.stop, in.done)
}

func (in *Indicator) loop(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(in.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			in.mu.Lock()
			in.frame++
			in.render()
			in.mu.Unlock()
		}
	}
}

// Stop halts the indicator and clears its line. It returns the elapsed time.
func (in *Indicator) Stop() time.Duration {
	in.mu.Lock()
	stop, done := in.stop, in.done
	in.mu.Unlock()

	if stop == nil {
		return 0
	}
	close(stop)
	<-done

	in.mu.Lock()
	defer in.mu.Unlock()
	fmt.Fprintf(in.w, "\r%s\r", strings.Repeat(" ", in.width))
	in.stop = nil
	return time.Since(in.startTime)
}

// render draws the current frame. Callers hold mu.
func (in *Indicator) render() {
	line := fmt.Sprintf("%s %s (%s)", frames[in.frame%len(frames)], in.label, formatDuration(time.Since(in.startTime)))
	if n := len([]rune(line)); n > in.width {
		in.width = n
	}
	fmt.Fprintf(in.w, "\r%s", line)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

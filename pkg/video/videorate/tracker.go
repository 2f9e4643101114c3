package videorate

import (
	"strconv"
	"strings"
	"time"
)

// Tracker derives an instantaneous frames per second reading from the
// interval between consecutive samples.
type Tracker struct {
	previous time.Time
	sampled  bool
}

func New() *Tracker {
	return &Tracker{}
}

// Sample records now and returns the rate since the previous sample.
// The first sample, and any sample not strictly after the previous one,
// has no rate and reports ok as false.
func (t *Tracker) Sample(now time.Time) (fps float64, ok bool) {
	previous, sampled := t.previous, t.sampled
	t.previous, t.sampled = now, true

	if !sampled {
		return 0, false
	}

	elapsed := now.Sub(previous)
	if elapsed <= 0 {
		return 0, false
	}
	return 1.0 / elapsed.Seconds(), true
}

func (t *Tracker) Reset() {
	t.previous, t.sampled = time.Time{}, false
}

// Label formats a reading for on screen display. The value is rendered
// to six decimals first and the text is then cut two places after the
// point, so it is truncated rather than rounded without picking up
// binary float error (0.29 stays 0.29).
func Label(fps float64, ok bool) string {
	if !ok {
		return "FPS: --"
	}
	text := strconv.FormatFloat(fps, 'f', 6, 64)
	if dot := strings.IndexByte(text, '.'); dot >= 0 && len(text) > dot+3 {
		text = text[:dot+3]
	}
	return "FPS: " + text
}
